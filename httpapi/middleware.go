package httpapi

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// requestLogger logs one structured line per request once the
// response is written.
func requestLogger(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				fields := []zap.Field{
					zap.String("http_method", r.Method),
					zap.String("uri", r.RequestURI),
					zap.String("remote_addr", r.RemoteAddr),
					zap.Int("status", ww.Status()),
					zap.Int("bytes_length", ww.BytesWritten()),
					zap.Duration("duration", time.Since(start)),
				}

				if reqID := middleware.GetReqID(r.Context()); reqID != "" {
					fields = append(fields, zap.String("req.id", reqID))
				}

				log.Info("request complete", fields...)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// recoverer recovers from panics, logs the panic and a backtrace,
// and returns an HTTP 500 if possible.
func recoverer(log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					log.Error(
						"request panic",
						zap.Any("panic", rvr),
						zap.ByteString("stack", debug.Stack()),
					)

					HandleError(log, &HTTPError{
						Code:    http.StatusInternalServerError,
						Message: http.StatusText(http.StatusInternalServerError),
					}, w, r)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
