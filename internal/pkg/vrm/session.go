package vrm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/anicoll/vrm-integration/internal/pkg/config"
	"go.uber.org/zap"
)

type tokenCache struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// loadCachedToken restores a previously persisted session token. Any
// failure is a cache miss, never fatal.
func (c *Client) loadCachedToken() {
	data, err := os.ReadFile(c.cfg.TokenCachePath)
	if err != nil {
		return
	}
	cache := tokenCache{}
	if err := json.Unmarshal(data, &cache); err != nil {
		return
	}
	expiresAt := time.Unix(cache.ExpiresAt, 0)
	if cache.Token == "" || !expiresAt.After(c.now().Add(expiryBuffer)) {
		return
	}
	c.sessionToken = cache.Token
	c.sessionExpiry = expiresAt
	c.logger.Debug("loaded session token from cache")
}

func (c *Client) saveTokenToCache() {
	data, err := json.Marshal(tokenCache{
		Token:     c.sessionToken,
		ExpiresAt: c.sessionExpiry.Unix(),
	})
	if err != nil {
		return
	}
	if err := os.WriteFile(c.cfg.TokenCachePath, data, 0o600); err != nil {
		c.logger.Warn("failed to save session token to cache", zap.Error(err))
		return
	}
	c.logger.Debug("saved session token to cache")
}

// ensureAuthenticated is a no-op in token mode and while a session token
// with at least 60s left is held. Otherwise it performs a login call.
func (c *Client) ensureAuthenticated(ctx context.Context) error {
	if c.cfg.AuthMode == config.AuthModeToken {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sessionToken != "" && c.sessionExpiry.After(c.now().Add(expiryBuffer)) {
		return nil
	}
	return c.login(ctx)
}

// login must be called with c.mu held.
func (c *Client) login(ctx context.Context) error {
	payload, err := json.Marshal(map[string]string{
		"username": c.cfg.Username,
		"password": c.cfg.Password,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/login", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return fmt.Errorf("%w: login returned status %d", ErrAuthentication, res.StatusCode)
	}

	loginRes := struct {
		Token string `json:"token"`
	}{}
	if err := json.NewDecoder(res.Body).Decode(&loginRes); err != nil {
		return fmt.Errorf("%w: %v", ErrAuthentication, err)
	}

	c.sessionToken = loginRes.Token
	c.sessionExpiry = c.now().Add(c.cfg.SessionTTL)
	c.saveTokenToCache()

	c.logger.Info("successfully authenticated with the vrm api")
	return nil
}

// invalidateSession drops the in-memory session token so the next
// ensureAuthenticated performs a fresh login.
func (c *Client) invalidateSession() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sessionToken = ""
	c.sessionExpiry = time.Time{}
}

func (c *Client) currentSessionToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionToken
}
