package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHealthURL(t *testing.T) {
	cases := map[string]string{
		"http://localhost:5001/get_guess":      "http://localhost:5001/health",
		"http://agent:80/v1/get_guess?debug=1": "http://agent:80/v1/health",
		"http://agent":                         "http://agent/health",
	}
	for in, want := range cases {
		got, err := HealthURL(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got)
	}

	_, err := HealthURL("get_guess")
	require.Error(t, err)
}

func TestPing(t *testing.T) {
	ctx := context.Background()

	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "/health", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))
		t.Cleanup(srv.Close)
		require.NoError(t, New().Ping(ctx, srv.URL+"/get_guess"))
	})

	t.Run("no health route still reachable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(srv.Close)
		require.NoError(t, New().Ping(ctx, srv.URL+"/get_guess"))
	})

	t.Run("server error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))
		t.Cleanup(srv.Close)
		require.ErrorIs(t, New().Ping(ctx, srv.URL+"/get_guess"), ErrUnhealthy)
	})

	t.Run("closed port", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		endpoint := srv.URL + "/get_guess"
		srv.Close()
		require.Error(t, New().Ping(ctx, endpoint))
	})
}
