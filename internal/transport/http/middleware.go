package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/mssola/useragent"

	"glimpse/pkg/requestcontext"
)

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// AccessLog emits one structured line per request with the resolved status,
// latency and the client's browser family.
func AccessLog(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := requestcontext.Now(r.Context())
			ww := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(ww, r)

			ctx := r.Context()
			ua := useragent.New(requestcontext.UserAgent(ctx))
			browser, _ := ua.Browser()
			logger.InfoContext(ctx, "request",
				"request_id", requestcontext.RequestID(ctx),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"client_ip", requestcontext.ClientIP(ctx),
				"browser", browser,
			)
		})
	}
}
