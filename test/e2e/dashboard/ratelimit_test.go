package dashboard_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/stretchr/testify/require"
)

// TestRateLimitOnboardEndpoint verifies the public onboarding endpoint is
// strictly limited (5 req/min per caller and owner).
func TestRateLimitOnboardEndpoint(t *testing.T) {
	baseURL, cleanup := setupDashboardContainerWithDefaultRateLimits(t)
	defer cleanup()

	public := ledgersdk.NewClient(baseURL, "")
	ctx := t.Context()

	for i := range 5 {
		_, err := public.Onboard(ctx, "owner-a", ledgersdk.ClientRequest{
			Name:  fmt.Sprintf("Client %d", i),
			Email: fmt.Sprintf("client%d@example.com", i),
			Phone: fmt.Sprintf("0400 000 %03d", i),
		})
		require.NoError(t, err, "request %d should not be limited", i+1)
	}

	_, err := public.Onboard(ctx, "owner-a", ledgersdk.ClientRequest{Name: "Six", Email: "six@example.com", Phone: "6"})
	assertStatus(t, err, http.StatusTooManyRequests)
}
