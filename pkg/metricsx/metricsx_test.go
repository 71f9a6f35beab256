package metricsx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/aussiebroadwan/ledger/pkg/metricsx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrumentCountsByRoute(t *testing.T) {
	m := metricsx.New()

	h := m.Instrument("GET /v1/clients")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	for range 3 {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/clients", nil))
	}

	expected := `
# HELP ledger_http_requests_total HTTP requests by route and status code.
# TYPE ledger_http_requests_total counter
ledger_http_requests_total{code="201",route="GET /v1/clients"} 3
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "ledger_http_requests_total"))
}

func TestDuplicateCounter(t *testing.T) {
	m := metricsx.New()
	m.DuplicateRejected("email")
	m.DuplicateRejected("email")
	m.DuplicateRejected("phone")

	expected := `
# HELP ledger_client_duplicate_rejections_total Client writes rejected because email or phone is already used by the owner.
# TYPE ledger_client_duplicate_rejections_total counter
ledger_client_duplicate_rejections_total{field="email"} 2
ledger_client_duplicate_rejections_total{field="phone"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "ledger_client_duplicate_rejections_total"))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metricsx.Metrics
	m.DuplicateRejected("email")
	m.StaleDiscarded("clients")
	m.SetSessions("tasks", 3)

	h := m.Instrument("x")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
}

func TestHandlerServesExposition(t *testing.T) {
	m := metricsx.New()
	m.StaleDiscarded("clients")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `ledger_page_stale_responses_total{page="clients"} 1`)
}
