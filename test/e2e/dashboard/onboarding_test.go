package dashboard_test

import (
	"testing"

	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/stretchr/testify/require"
)

func TestSelfOnboardingAndApproval(t *testing.T) {
	baseURL, cleanup := setupDashboardContainer(t)
	defer cleanup()

	ctx := t.Context()
	owner := ownerClient(t, baseURL, "owner-a")

	link, err := owner.OnboardingLink(ctx)
	require.NoError(t, err)
	require.Equal(t, "https://ledger.example/onboard/owner-a", link)

	res, err := ledgersdk.NewClient(baseURL, "").Onboard(ctx, "owner-a",
		ledgersdk.ClientRequest{Name: "Lin", Email: "lin@example.com", Phone: "0400 123 456"})
	require.NoError(t, err)
	require.Equal(t, "pending", res.Status)

	rejected, err := owner.SetApproval(ctx, res.ID, "rejected")
	require.NoError(t, err)
	require.Equal(t, "rejected", rejected.Onboarding.ApprovalStatus)
	require.True(t, rejected.Onboarding.SelfOnboarded)
}
