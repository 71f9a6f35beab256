package jwtx

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// JWKSFetcher keeps a KeySet in sync with the auth provider's
// /.well-known/jwks.json. Refresh failures keep the previous keys.
type JWKSFetcher struct {
	URL        string
	Keys       *KeySet
	HTTPClient *http.Client
	Interval   time.Duration
	Logger     *slog.Logger

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewJWKSFetcher creates a fetcher for url. If interval is 0 or negative,
// defaults to 15 minutes.
func NewJWKSFetcher(url string, keys *KeySet, interval time.Duration, logger *slog.Logger) *JWKSFetcher {
	if interval <= 0 {
		interval = 15 * time.Minute
	}
	return &JWKSFetcher{
		URL:        url,
		Keys:       keys,
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
		Interval:   interval,
		Logger:     logger,
		stopCh:     make(chan struct{}),
		doneCh:     make(chan struct{}),
	}
}

// Refresh fetches the key set once and swaps it in.
func (f *JWKSFetcher) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("jwtx: fetch jwks: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwtx: fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("jwtx: decode jwks: %w", err)
	}
	if len(jwks.Keys) == 0 {
		return fmt.Errorf("jwtx: jwks from %s has no keys", f.URL)
	}

	return f.Keys.Replace(jwks)
}

// Start begins refreshing in the background. It does not block.
func (f *JWKSFetcher) Start() {
	go f.run()
	f.Logger.Info("jwks refresher started", "url", f.URL, "interval", f.Interval)
}

// Stop halts the refresher and waits for an in-flight refresh to finish.
func (f *JWKSFetcher) Stop() {
	close(f.stopCh)
	<-f.doneCh
	f.Logger.Info("jwks refresher stopped")
}

func (f *JWKSFetcher) run() {
	defer close(f.doneCh)

	ticker := time.NewTicker(f.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := f.Refresh(ctx); err != nil {
				f.Logger.Error("jwks refresh failed, keeping previous keys", "error", err)
			} else {
				f.Logger.Debug("jwks refreshed", "keys", f.Keys.Len())
			}
			cancel()
		case <-f.stopCh:
			return
		}
	}
}
