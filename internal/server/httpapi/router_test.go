package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carTloyal123/shoppi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func up(context.Context) error   { return nil }
func down(context.Context) error { return errors.New("connection refused") }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "192.0.2.10:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz_AllUp(t *testing.T) {
	h := NewRouter(logging.Discard(), map[string]Check{"postgres": up, "redis": up}, 100)

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusOK, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, map[string]string{"postgres": "up", "redis": "up"}, body.Checks)
}

func TestHealthz_Degraded(t *testing.T) {
	h := NewRouter(logging.Discard(), map[string]Check{"postgres": up, "redis": down}, 100)

	rec := get(t, h, "/healthz")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body healthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Equal(t, "down", body.Checks["redis"])
	assert.Equal(t, "up", body.Checks["postgres"])
}

func TestRouter_SecurityHeaders(t *testing.T) {
	h := NewRouter(logging.Discard(), nil, 100)

	rec := get(t, h, "/version")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestRouter_RateLimited(t *testing.T) {
	h := NewRouter(logging.Discard(), map[string]Check{"postgres": up}, 2)

	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/healthz").Code)
	assert.Equal(t, http.StatusTooManyRequests, get(t, h, "/healthz").Code)
}

func TestRouter_NotFound(t *testing.T) {
	h := NewRouter(logging.Discard(), nil, 100)
	assert.Equal(t, http.StatusNotFound, get(t, h, "/nope").Code)
}

func TestServer_RunStopsOnCancel(t *testing.T) {
	s := NewServer("127.0.0.1:0", http.NotFoundHandler(), logging.Discard())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestServer_RunBadAddress(t *testing.T) {
	s := NewServer("bad-address", http.NotFoundHandler(), logging.Discard())
	assert.Error(t, s.Run(context.Background()))
}
