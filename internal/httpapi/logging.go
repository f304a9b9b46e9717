package httpapi

import (
	"bytes"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const defaultMaxLogBytes = 512

// statusRecorder captures the status and, for error responses, the first
// maxLogBytes of the body.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	logBody      bytes.Buffer
	maxLogBytes  int
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if remaining := r.maxLogBytes - r.logBody.Len(); remaining > 0 {
		if len(p) > remaining {
			r.logBody.Write(p[:remaining])
			r.truncated = true
		} else {
			r.logBody.Write(p)
		}
	} else if len(p) > 0 {
		r.truncated = true
	}

	n, err := r.ResponseWriter.Write(p)
	r.bytesWritten += n
	return n, err
}

// requestLogger logs one structured line per request. Error bodies are
// attached so failed calls can be diagnosed from the log alone.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		fn := func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			recorder := &statusRecorder{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
				maxLogBytes:    defaultMaxLogBytes,
			}

			next.ServeHTTP(recorder, r)

			attrs := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", recorder.statusCode,
				"bytes", recorder.bytesWritten,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			}

			switch {
			case recorder.statusCode >= http.StatusInternalServerError:
				logger.Error("request failed", append(attrs, "body", recorder.logBody.String(), "truncated", recorder.truncated)...)
			case recorder.statusCode >= http.StatusBadRequest:
				logger.Warn("request rejected", append(attrs, "body", recorder.logBody.String(), "truncated", recorder.truncated)...)
			default:
				logger.Info("request served", attrs...)
			}
		}
		return http.HandlerFunc(fn)
	}
}
