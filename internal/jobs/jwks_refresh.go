package jobs

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"tutorhub/gateway/internal/auth"
	"tutorhub/gateway/internal/config"
)

// StartJWKSRefreshJob re-fetches the identity provider's key set on an
// interval so signing-key rotation does not invalidate live sessions.
func StartJWKSRefreshJob(ctx context.Context, cfg config.Config, verifier *auth.Verifier) {
	if cfg.JWKSURL == "" {
		return
	}
	interval := cfg.JWKSRefreshInterval
	if interval <= 0 {
		interval = time.Hour
	}
	client := &http.Client{Timeout: 10 * time.Second}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				tickCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				set, err := FetchJWKS(tickCtx, client, cfg.JWKSURL)
				cancel()
				if err != nil {
					log.Printf("jwks refresh error: %v", err)
					continue
				}
				if err := verifier.SetKeys(set); err != nil {
					log.Printf("jwks refresh error: %v", err)
				}
			}
		}
	}()
}

func FetchJWKS(ctx context.Context, client *http.Client, url string) (auth.JWKSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return auth.JWKSet{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return auth.JWKSet{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return auth.JWKSet{}, fmt.Errorf("jwks fetch status %d", resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return auth.JWKSet{}, err
	}
	return auth.ParseJWKSet(data)
}
