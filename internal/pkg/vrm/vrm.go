package vrm

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/anicoll/vrm-integration/internal/pkg/config"
	"github.com/anicoll/vrm-integration/internal/pkg/model"
	"go.uber.org/zap"
)

const (
	apiVersion = "v2"

	// The API never reports a TTL for session tokens; 24h matches the
	// observed portal behaviour.
	defaultSessionTTL = 24 * time.Hour

	// A session token this close to expiry is treated as expired.
	expiryBuffer = 60 * time.Second

	defaultRequestTimeout = 30 * time.Second
	defaultTokenCachePath = ".vrm_token_cache"
)

// ErrAuthentication wraps any login failure, network or non-2xx alike.
var ErrAuthentication = errors.New("vrm authentication failed")

// RequestError is returned for any non-2xx API response that is not
// recovered by the single 401 retry.
type RequestError struct {
	Method     string
	Endpoint   string
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("vrm request failed: %s %s returned status %d", e.Method, e.Endpoint, e.StatusCode)
}

// Client talks to the VRM API. It owns the session state for credentials
// mode and the memoized account lookup. Safe for use from a single
// collection cycle at a time.
type Client struct {
	cfg     *config.VrmConfig
	baseURL string
	client  *http.Client
	logger  *zap.Logger
	now     func() time.Time

	mu            sync.Mutex
	sessionToken  string
	sessionExpiry time.Time

	userMu sync.Mutex
	user   *model.User
}

func New(cfg *config.VrmConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.SessionTTL == 0 {
		cfg.SessionTTL = defaultSessionTTL
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.TokenCachePath == "" {
		cfg.TokenCachePath = defaultTokenCachePath
	}

	c := &Client{
		cfg:     cfg,
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/") + "/" + apiVersion,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
		logger:  zap.L(), // returns the global logger.
		now:     time.Now,
	}

	if cfg.AuthMode == config.AuthModeCredentials {
		c.loadCachedToken()
	}

	return c, nil
}
