package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/jwtx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

// ReadyzHandler godoc
//
//	@Summary		Readiness Check Endpoint
//	@Description	Readiness probe checking the document store and that verification keys are loaded.
//	@Tags			Health
//	@Produce		json
//	@Success		200	{object}	ledgersdk.HealthResponse	"status, uptime, version, checks"
//	@Failure		503	{object}	ledgersdk.HealthResponse	"status, uptime, version, checks - service not ready"
//	@Router			/readyz [get].
func ReadyzHandler(
	startTime time.Time,
	version string,
	st store.Store,
	keys *jwtx.KeySet,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		checks := &ledgersdk.HealthChecks{
			Database: "ok",
			Keys:     "ok",
		}
		overallStatus := "ok"
		statusCode := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			checks.Database = "error: " + err.Error()
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		// No keys means every bearer token would be rejected.
		if !keys.IsReady() {
			checks.Keys = "error: no keys loaded"
			overallStatus = "degraded"
			statusCode = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, statusCode, ledgersdk.HealthResponse{
			Status:  overallStatus,
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  checks,
		})
	}
}
