package app

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) (*jwtx.EdDSASigner, jwtx.JWKS) {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	signer, err := jwtx.NewSignerEdDSA("k1", priv)
	require.NoError(t, err)
	return signer, jwtx.JWKS{Keys: []jwtx.JWK{signer.PublicJWK()}}
}

func TestInitIdentityFromFile(t *testing.T) {
	signer, jwks := testKey(t)
	path := filepath.Join(t.TempDir(), "jwks.json")
	b, err := json.Marshal(jwks)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))

	cfg := Config{Issuer: "iss", Audience: []string{"ledger"}, JWKSFile: path}
	id, err := InitIdentity(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.Nil(t, id.Fetcher)
	require.True(t, id.Keys.IsReady())

	tok, err := signer.Sign(jwtx.NewAccessClaims("owner", nil, time.Minute, "iss", []string{"ledger"}, time.Now()))
	require.NoError(t, err)
	claims, err := id.Verifier.Verify(tok)
	require.NoError(t, err)
	require.Equal(t, "owner", claims.Subject)
}

func TestInitIdentityFromURL(t *testing.T) {
	_, jwks := testKey(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(jwks)
	}))
	defer srv.Close()

	cfg := Config{Issuer: "iss", JWKSURL: srv.URL, JWKSRefresh: time.Hour}
	id, err := InitIdentity(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.NotNil(t, id.Fetcher)
	require.Equal(t, 1, id.Keys.Len())
}

func TestInitIdentityRequiresKeySource(t *testing.T) {
	_, err := InitIdentity(context.Background(), Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}

func TestInitIdentityRejectsEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jwks.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"keys":[]}`), 0o600))

	_, err := InitIdentity(context.Background(), Config{JWKSFile: path}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.Error(t, err)
}
