// Package requesttime pins a single "now" per HTTP request. Everything that
// needs the current time during the request reads the same instant, so log
// lines and issued tokens within one request never disagree.
package requesttime

import (
	"net/http"
	"time"

	"glimpse/pkg/requestcontext"
)

// Middleware stamps the request context with the arrival time.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
