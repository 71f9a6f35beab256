package ledgersdk

import (
	"context"
	"net/http"
	"net/url"
)

// ListClients requires dashboard:read.
func (c *Client) ListClients(ctx context.Context) ([]ClientResponse, error) {
	var out ListClientsResponse
	if err := c.do(ctx, http.MethodGet, "/v1/clients", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return out.Clients, nil
}

func (c *Client) GetClient(ctx context.Context, id string) (*ClientResponse, error) {
	var out ClientResponse
	if err := c.do(ctx, http.MethodGet, "/v1/clients/"+url.PathEscape(id), nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddClient requires dashboard:write. A clash with an existing client's
// email or phone returns an error matching ErrDuplicateClient.
func (c *Client) AddClient(ctx context.Context, req ClientRequest) (*ClientResponse, error) {
	var out ClientResponse
	if err := c.do(ctx, http.MethodPost, "/v1/clients", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) EditClient(ctx context.Context, id string, req ClientRequest) (*ClientResponse, error) {
	var out ClientResponse
	if err := c.do(ctx, http.MethodPut, "/v1/clients/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteClient(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/clients/"+url.PathEscape(id)+"?confirm=true", nil, nil, http.StatusNoContent)
}

// SetApproval approves or rejects a self-onboarded client.
func (c *Client) SetApproval(ctx context.Context, id, status string) (*ClientResponse, error) {
	var out ClientResponse
	err := c.do(ctx, http.MethodPost, "/v1/clients/"+url.PathEscape(id)+"/approval",
		ApprovalRequest{Status: status}, &out, http.StatusOK)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// OnboardingLink returns the caller's public onboarding URL.
func (c *Client) OnboardingLink(ctx context.Context) (string, error) {
	var out OnboardingLinkResponse
	if err := c.do(ctx, http.MethodGet, "/v1/onboarding-link", nil, &out, http.StatusOK); err != nil {
		return "", err
	}
	return out.Link, nil
}

// Onboard registers as a client of owner. It needs no token.
func (c *Client) Onboard(ctx context.Context, owner string, req ClientRequest) (*OnboardResponse, error) {
	var out OnboardResponse
	if err := c.do(ctx, http.MethodPost, "/onboard/"+url.PathEscape(owner), req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}
