package dashboard_test

import (
	"io"
	"net/http"
	"testing"

	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/stretchr/testify/require"
)

func TestLivezEndpoint(t *testing.T) {
	baseURL, cleanup := setupDashboardContainer(t)
	defer cleanup()

	health, err := ledgersdk.NewClient(baseURL, "").GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	baseURL, cleanup := setupDashboardContainer(t)
	defer cleanup()

	health, err := ledgersdk.NewClient(baseURL, "").GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Database)
	require.Equal(t, "ok", health.Checks.Keys)
}

func TestMetricsAndSwagger(t *testing.T) {
	baseURL, cleanup := setupDashboardContainer(t)
	defer cleanup()

	_, err := ownerClient(t, baseURL, "owner-a").ListClients(t.Context())
	require.NoError(t, err)

	resp, err := http.Get(baseURL + "/metrics")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), `route="GET /v1/clients"`)

	resp, err = http.Get(baseURL + "/swagger/doc.json")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Contains(t, string(body), "/v1/clients")
}
