package vrm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anicoll/vrm-integration/internal/pkg/config"
)

func tokenConfig(baseURL string) *config.VrmConfig {
	return &config.VrmConfig{
		AuthMode: config.AuthModeToken,
		Token:    "operator-token",
		BaseURL:  baseURL,
	}
}

func TestInstallations_MapsRecords(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/users/me":
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 42}})
		case "/v2/users/42/installations":
			json.NewEncoder(w).Encode(map[string]any{"records": []map[string]any{
				{"idSite": 101, "identifier": "aa:bb", "name": "Home", "timezone": "Europe/Prague"},
				{"idSite": 102, "identifier": "cc:dd", "name": "Cabin"},
			}})
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := New(tokenConfig(srv.URL))
	require.NoError(t, err)

	installations, err := c.Installations(context.Background())
	require.NoError(t, err)
	require.Len(t, installations, 2)
	assert.Equal(t, int64(101), installations[0].ID)
	assert.Equal(t, "aa:bb", installations[0].Identifier)
	assert.Equal(t, "Home", installations[0].Name)
	assert.Equal(t, "Europe/Prague", installations[0].Timezone)
	assert.Equal(t, "UTC", installations[1].Timezone, "missing timezone defaults to UTC")
}

func TestInstallations_NoCachingAcrossCalls(t *testing.T) {
	var userCalls, listCalls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/users/me":
			userCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 42}})
		case "/v2/users/42/installations":
			listCalls.Add(1)
			json.NewEncoder(w).Encode(map[string]any{"records": []map[string]any{}})
		}
	}))
	defer srv.Close()

	c, err := New(tokenConfig(srv.URL))
	require.NoError(t, err)

	_, err = c.Installations(context.Background())
	require.NoError(t, err)
	_, err = c.Installations(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int64(2), listCalls.Load(), "every call performs a live fetch")
	assert.Equal(t, int64(1), userCalls.Load(), "account lookup is memoized")
}

func TestInstallations_EmptyListIsValid(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v2/users/me":
			json.NewEncoder(w).Encode(map[string]any{"user": map[string]any{"id": 42}})
		case "/v2/users/42/installations":
			json.NewEncoder(w).Encode(map[string]any{"records": []any{}})
		}
	}))
	defer srv.Close()

	c, err := New(tokenConfig(srv.URL))
	require.NoError(t, err)

	installations, err := c.Installations(context.Background())
	require.NoError(t, err)
	assert.Empty(t, installations)
}
