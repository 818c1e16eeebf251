// Package monitoring holds the HTTP middleware that times admin requests,
// tags them with a request id and writes an access log line.
package monitoring

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"storefront-cms/pkg/logging"
	"storefront-cms/pkg/metrics"
)

// RequestIDHeader is read from and echoed on every response.
const RequestIDHeader = "X-Request-ID"

// ResponseWriter wrapper to capture status codes
type statusWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sw *statusWriter) WriteHeader(statusCode int) {
	if !sw.written {
		sw.statusCode = statusCode
		sw.written = true
	}
	sw.ResponseWriter.WriteHeader(statusCode)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.written = true
	return sw.ResponseWriter.Write(b)
}

// Middleware measures request duration into m.RequestDuration, counts 5xx
// responses in m.RequestsByFailure and logs one line per request.
func Middleware(m *metrics.Editor, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	log := logger.WithComponent("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			reqID := strings.TrimSpace(r.Header.Get(RequestIDHeader))
			if reqID == "" || len(reqID) > 64 {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)
			ctx := logging.WithRequestID(r.Context(), reqID)

			sw := &statusWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(sw, r.WithContext(ctx))

			dur := time.Since(start)
			if m != nil {
				m.RequestDuration.Observe(dur.Seconds())
				if sw.statusCode >= http.StatusInternalServerError {
					m.RequestsByFailure.Inc()
				}
			}
			fields := []logging.Field{
				logging.String("method", r.Method),
				logging.String("path", r.URL.Path),
				logging.Int("status", sw.statusCode),
				logging.Duration("duration", dur),
			}
			if sw.statusCode >= http.StatusInternalServerError {
				log.With(ctx).Warn("request failed", fields...)
				return
			}
			log.With(ctx).Debug("request", fields...)
		})
	}
}
