package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aussiebroadwan/ledger/pkg/jwtx"
)

// Identity is the verification side of the external auth provider.
type Identity struct {
	Keys     *jwtx.KeySet
	Verifier jwtx.Verifier

	// Fetcher is nil when keys come from a static file.
	Fetcher *jwtx.JWKSFetcher
}

// InitIdentity loads verification keys from AUTH_JWKS_FILE, or fetches them
// from AUTH_JWKS_URL and keeps them refreshed.
func InitIdentity(ctx context.Context, cfg Config, logger *slog.Logger) (*Identity, error) {
	keys := jwtx.NewKeySet()
	id := &Identity{
		Keys:     keys,
		Verifier: jwtx.NewVerifier(keys, cfg.Issuer, cfg.Audience, cfg.ClockLeeway),
	}

	switch {
	case cfg.JWKSFile != "":
		jwks, err := readJWKSFile(cfg.JWKSFile)
		if err != nil {
			return nil, err
		}
		if err := keys.Replace(jwks); err != nil {
			return nil, fmt.Errorf("load jwks file: %w", err)
		}
		logger.Info("loaded verification keys from file", "path", cfg.JWKSFile, "keys", keys.Len())

	case cfg.JWKSURL != "":
		id.Fetcher = jwtx.NewJWKSFetcher(cfg.JWKSURL, keys, cfg.JWKSRefresh, logger)

		// The provider may still be starting; /readyz reports until keys arrive.
		fetchCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := id.Fetcher.Refresh(fetchCtx); err != nil {
			logger.Warn("initial jwks fetch failed", "url", cfg.JWKSURL, "error", err)
		} else {
			logger.Info("fetched verification keys", "url", cfg.JWKSURL, "keys", keys.Len())
		}

	default:
		return nil, errors.New("one of AUTH_JWKS_FILE or AUTH_JWKS_URL is required")
	}

	return id, nil
}

func readJWKSFile(path string) (jwtx.JWKS, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return jwtx.JWKS{}, fmt.Errorf("read jwks file: %w", err)
	}
	var jwks jwtx.JWKS
	if err := json.Unmarshal(b, &jwks); err != nil {
		return jwtx.JWKS{}, fmt.Errorf("decode jwks file: %w", err)
	}
	if len(jwks.Keys) == 0 {
		return jwtx.JWKS{}, fmt.Errorf("jwks file %s has no keys", path)
	}
	return jwks, nil
}
