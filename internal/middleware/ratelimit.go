package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimit limits each client IP to max requests per fixed window, counted
// in Redis. The expiry is set only on the request that opens the window, so
// further requests never extend it. When Redis is unavailable the request is
// let through; the limiter protects the service, it is not an availability
// dependency.
func RateLimit(client *redis.Client, max int, window time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := "ratelimit:" + ClientIP(r)

			count, err := client.Incr(r.Context(), key).Result()
			if err != nil {
				logrus.WithError(err).Error("rate limit counter failed")
				next.ServeHTTP(w, r)
				return
			}
			if count == 1 {
				if err := client.Expire(r.Context(), key, window).Err(); err != nil {
					logrus.WithError(err).Error("rate limit expiry failed")
				}
			}

			if count > int64(max) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				json.NewEncoder(w).Encode(map[string]string{"error": "Too many requests"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ClientIP resolves the client address, preferring the first entry of the
// X-Forwarded-For proxy chain over the connection's remote address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
