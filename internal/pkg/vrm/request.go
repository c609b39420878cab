package vrm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"

	"github.com/anicoll/vrm-integration/internal/pkg/config"
	"go.uber.org/zap"
)

// request issues an authenticated call against the API and returns the raw
// response body. A 401 under credentials mode invalidates the session,
// re-authenticates and retries exactly once; every other non-2xx response
// is a RequestError.
func (c *Client) request(ctx context.Context, method, endpoint string, params url.Values, payload any) ([]byte, error) {
	if err := c.ensureAuthenticated(ctx); err != nil {
		return nil, err
	}

	var body []byte
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		body = data
	}

	data, status, err := c.do(ctx, method, endpoint, params, body)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized && c.cfg.AuthMode == config.AuthModeCredentials {
		c.logger.Warn("session token expired, reauthenticating", zap.String("endpoint", endpoint))
		c.invalidateSession()
		if err := c.ensureAuthenticated(ctx); err != nil {
			return nil, err
		}
		data, status, err = c.do(ctx, method, endpoint, params, body)
		if err != nil {
			return nil, err
		}
	}
	if status < 200 || status >= 300 {
		return nil, &RequestError{Method: method, Endpoint: endpoint, StatusCode: status}
	}
	return data, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, body []byte) ([]byte, int, error) {
	u := c.baseURL + "/" + endpoint
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.cfg.AuthMode == config.AuthModeToken {
		req.Header.Set("X-Authorization", "Token "+c.cfg.Token)
	} else {
		req.Header.Set("X-Authorization", "Bearer "+c.currentSessionToken())
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, 0, err
	}
	return data, res.StatusCode, nil
}
