package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Logging records one structured entry per request.
func Logging(log *logrus.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			entry := log.WithFields(logrus.Fields{
				"request_id":  uuid.NewString(),
				"status_code": sw.status,
				"latency_ms":  time.Since(start).Milliseconds(),
				"client_ip":   ClientIP(r),
				"method":      r.Method,
				"path":        r.URL.Path,
			})
			switch {
			case sw.status >= 500:
				entry.Error("server error")
			case sw.status >= 400:
				entry.Warn("client error")
			default:
				entry.Info("request handled")
			}
		})
	}
}
