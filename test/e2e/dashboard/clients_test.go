package dashboard_test

import (
	"net/http"
	"testing"

	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/stretchr/testify/require"
)

// TestClientLifecycle walks one owner through add, duplicate rejection,
// edit, view and delete.
func TestClientLifecycle(t *testing.T) {
	baseURL, cleanup := setupDashboardContainer(t)
	defer cleanup()

	ctx := t.Context()
	c := ownerClient(t, baseURL, "owner-a")

	ada, err := c.AddClient(ctx, ledgersdk.ClientRequest{Name: "Ada", Email: "Ada@Example.com", Phone: "0400 000 001"})
	require.NoError(t, err)
	require.Equal(t, "ada@example.com", ada.Email)

	_, err = c.AddClient(ctx, ledgersdk.ClientRequest{Name: "Impostor", Email: "ada@EXAMPLE.com", Phone: "0400 000 009"})
	require.ErrorIs(t, err, ledgersdk.ErrDuplicateClient)

	grace, err := c.AddClient(ctx, ledgersdk.ClientRequest{Name: "Grace", Email: "grace@example.com", Phone: "0400 000 002"})
	require.NoError(t, err)

	_, err = c.EditClient(ctx, grace.ID, ledgersdk.ClientRequest{Name: "Grace", Email: "grace@example.com", Phone: "0400 000 001"})
	require.ErrorIs(t, err, ledgersdk.ErrDuplicateClient)

	edited, err := c.EditClient(ctx, grace.ID, ledgersdk.ClientRequest{Name: "Grace Hopper", Email: "grace@example.com", Phone: "0400 000 002"})
	require.NoError(t, err)
	require.Equal(t, "Grace Hopper", edited.Name)

	list, err := c.ListClients(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, ada.ID, list[0].ID)
	require.Equal(t, grace.ID, list[1].ID)

	require.NoError(t, c.DeleteClient(ctx, ada.ID))
	_, err = c.GetClient(ctx, ada.ID)
	require.ErrorIs(t, err, ledgersdk.ErrNotFound)
}

func TestClientsAreIsolatedPerOwner(t *testing.T) {
	baseURL, cleanup := setupDashboardContainer(t)
	defer cleanup()

	ctx := t.Context()
	a := ownerClient(t, baseURL, "owner-a")
	b := ownerClient(t, baseURL, "owner-b")

	added, err := a.AddClient(ctx, ledgersdk.ClientRequest{Name: "Ada", Email: "ada@example.com", Phone: "1"})
	require.NoError(t, err)

	list, err := b.ListClients(ctx)
	require.NoError(t, err)
	require.Empty(t, list)

	_, err = b.GetClient(ctx, added.ID)
	assertStatus(t, err, http.StatusNotFound)
}

func TestUnauthenticatedAndUnderscopedRequests(t *testing.T) {
	baseURL, cleanup := setupDashboardContainer(t)
	defer cleanup()

	ctx := t.Context()

	_, err := ledgersdk.NewClient(baseURL, "").ListClients(ctx)
	assertStatus(t, err, http.StatusUnauthorized)

	readOnly := ownerClient(t, baseURL, "owner-a", "dashboard:read")
	_, err = readOnly.AddClient(ctx, ledgersdk.ClientRequest{Name: "Ada", Email: "ada@example.com", Phone: "1"})
	assertStatus(t, err, http.StatusForbidden)
}
