package slogx_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aussiebroadwan/ledger/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	require.Equal(t, slog.LevelDebug, slogx.ParseLevel("DEBUG"))
	require.Equal(t, slog.LevelWarn, slogx.ParseLevel("warning"))
	require.Equal(t, slog.LevelError, slogx.ParseLevel("error"))
	require.Equal(t, slog.LevelInfo, slogx.ParseLevel("nonsense"))
}

func TestHTTPMiddlewareAttachesLogger(t *testing.T) {
	var buf bytes.Buffer
	base := slogx.New(slogx.Config{Service: "test", Format: "json", Output: &buf})

	h := slogx.HTTPMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := slogx.WithOwner(r.Context(), "owner-9")
		slogx.FromContext(ctx).Info("inside")
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/clients", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, "req-1", rec.Header().Get("X-Request-ID"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var inside, access map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &inside))
	require.NoError(t, json.Unmarshal(lines[1], &access))

	require.Equal(t, "owner-9", inside["owner_id"])
	require.Equal(t, "req-1", inside["req_id"])
	require.Equal(t, "http_request", access["msg"])
	require.EqualValues(t, http.StatusTeapot, access["status"])
}
