package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h *Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	h.Register(r)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestLiveness(t *testing.T) {
	rec := serve(t, New("test"), "/health/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alive")
}

func TestReadiness(t *testing.T) {
	t.Run("all checks up", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("database", func(context.Context) error { return nil })

		rec := serve(t, h, "/health/ready")
		require.Equal(t, http.StatusOK, rec.Code)
		var body ReadinessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "up", body.Checks["database"])
	})

	t.Run("failing check returns 503", func(t *testing.T) {
		h := New("test")
		h.RegisterCheck("redis", func(context.Context) error { return errors.New("connection refused") })

		rec := serve(t, h, "/health/ready")
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		var body ReadinessResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "not_ready", body.Status)
		assert.Equal(t, "down: connection refused", body.Checks["redis"])
	})
}

func TestReadinessRunsChecksConcurrently(t *testing.T) {
	h := New("test")
	release := make(chan struct{})
	// Each check waits for the other; sequential execution would time out.
	for _, name := range []string{"database", "redis"} {
		h.RegisterCheck(name, func(ctx context.Context) error {
			select {
			case release <- struct{}{}:
			case <-release:
			case <-ctx.Done():
				return ctx.Err()
			}
			return nil
		})
	}

	rec := serve(t, h, "/health/ready")
	require.Equal(t, http.StatusOK, rec.Code)
	var body ReadinessResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Len(t, body.LatencyMs, 2)
}

func TestStatusListsDependencies(t *testing.T) {
	h := New("production")
	h.RegisterCheck("redis", func(context.Context) error { return nil })
	h.RegisterCheck("database", func(context.Context) error { return nil })

	rec := serve(t, h, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	var body StatusResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "production", body.Environment)
	assert.Equal(t, []string{"database", "redis"}, body.Dependencies)
}
