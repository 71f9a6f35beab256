// Package ledgersdk is the Go client for the ledger dashboard API, and the
// home of the JSON types the server writes.
//
// Identity comes from an external provider, so the client is built with an
// access token that already carries the dashboard:read and/or
// dashboard:write scopes:
//
//	c := ledgersdk.NewClient("https://ledger.example.com", accessToken)
//
//	created, err := c.AddClient(ctx, ledgersdk.ClientRequest{
//		Name:  "Ada",
//		Email: "ada@example.com",
//		Phone: "555-0100",
//	})
//	if errors.Is(err, ledgersdk.ErrDuplicateClient) {
//		// email or phone already used by another of your clients
//	}
//
// Deleting requires explicit confirmation; DeleteClient and DeleteTask always
// send it, since calling them is the confirmation.
package ledgersdk
