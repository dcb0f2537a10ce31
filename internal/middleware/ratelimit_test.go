package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedHandler(t *testing.T, max int, window time.Duration) (*miniredis.Miniredis, http.Handler) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	handler := RateLimit(client, max, window)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	return srv, handler
}

func limitedGet(h http.Handler, ip string) int {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":40000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimitBlocksOverMax(t *testing.T) {
	_, handler := newLimitedHandler(t, 2, time.Minute)

	assert.Equal(t, http.StatusOK, limitedGet(handler, "192.0.2.1"))
	assert.Equal(t, http.StatusOK, limitedGet(handler, "192.0.2.1"))
	assert.Equal(t, http.StatusTooManyRequests, limitedGet(handler, "192.0.2.1"))

	// clients are counted per IP
	assert.Equal(t, http.StatusOK, limitedGet(handler, "192.0.2.2"))
}

func TestRateLimitWindowIsFixed(t *testing.T) {
	srv, handler := newLimitedHandler(t, 1, time.Minute)

	require.Equal(t, http.StatusOK, limitedGet(handler, "192.0.2.1"))
	require.Equal(t, http.StatusTooManyRequests, limitedGet(handler, "192.0.2.1"))

	// a blocked retry halfway through must not push the window out
	srv.FastForward(30 * time.Second)
	require.Equal(t, http.StatusTooManyRequests, limitedGet(handler, "192.0.2.1"))

	srv.FastForward(31 * time.Second)
	assert.Equal(t, http.StatusOK, limitedGet(handler, "192.0.2.1"),
		"the window opened by the first request has elapsed")
}

func TestRateLimitFailsOpen(t *testing.T) {
	srv, handler := newLimitedHandler(t, 1, time.Minute)
	srv.Close()

	assert.Equal(t, http.StatusOK, limitedGet(handler, "192.0.2.1"))
	assert.Equal(t, http.StatusOK, limitedGet(handler, "192.0.2.1"))
}
