package mw

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/mic325hkg/CathayPriceChecker/internal/logger"
	"github.com/mic325hkg/CathayPriceChecker/internal/utils"
)

// statusWriter captures status code and bytes written.
type statusWriter struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status == 0 {
		w.status = code
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.status = http.StatusOK
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// accessFields collects fields handlers attach to the request's access line.
// chi's Timeout middleware may run the handler past the log call, hence the lock.
type accessFields struct {
	mu     sync.Mutex
	fields []logger.Field
}

type accessFieldsKey struct{}

// Annotate adds fields to the access log line of the request carrying ctx.
// It is a no-op outside the Log middleware.
func Annotate(ctx context.Context, fields ...logger.Field) {
	af, ok := ctx.Value(accessFieldsKey{}).(*accessFields)
	if !ok {
		return
	}
	af.mu.Lock()
	af.fields = append(af.fields, fields...)
	af.mu.Unlock()
}

// Log writes one line per request. 5xx responses log at error, 4xx at warn,
// and probe endpoints at debug.
func Log(loggerClient logger.Logger, trustProxy bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &statusWriter{ResponseWriter: w}
			af := &accessFields{}

			next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), accessFieldsKey{}, af)))

			if ww.status == 0 {
				ww.status = http.StatusOK
			}
			fields := []logger.Field{
				logger.String("method", r.Method),
				logger.String("path", r.URL.Path),
				logger.Int("status", ww.status),
				logger.Int("bytes", ww.bytes),
				logger.Duration("duration", time.Since(start)),
				logger.String("client_ip", utils.ClientIP(r, trustProxy)),
				logger.String("user_agent", r.UserAgent()),
				logger.String("request_id", middleware.GetReqID(r.Context())),
			}
			af.mu.Lock()
			fields = append(fields, af.fields...)
			af.mu.Unlock()

			switch {
			case ww.status >= http.StatusInternalServerError:
				loggerClient.Error("http_request", fields...)
			case ww.status >= http.StatusBadRequest:
				loggerClient.Warn("http_request", fields...)
			case isProbe(r.URL.Path):
				loggerClient.Debug("http_request", fields...)
			default:
				loggerClient.Info("http_request", fields...)
			}
		})
	}
}

func isProbe(path string) bool {
	return path == "/healthz" || path == "/readyz"
}
