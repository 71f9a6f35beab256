package ledgersdk

import (
	"net/http"
	"strings"
	"time"
)

// Client talks to one ledger dashboard deployment on behalf of one owner,
// identified by Token.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
	Token      string
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		Token: token,
	}
}

// WithToken returns a copy of c that authenticates as a different owner.
func (c *Client) WithToken(token string) *Client {
	out := *c
	out.Token = token
	return &out
}
