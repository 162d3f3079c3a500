// Package guard gates every request before rendering. A request either
// carries a session token that verifies (signature and expiry) or it is
// redirected to /login; a cookie merely being present proves nothing, since
// anyone can set a cookie with the right name.
package guard

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"glimpse/internal/platform/metrics"
	"glimpse/internal/session"
	"glimpse/pkg/platform/httputil"
	"glimpse/pkg/requestcontext"
)

// SessionVerifier cryptographically verifies a session token and returns its
// read view. *session.Codec satisfies it.
type SessionVerifier interface {
	Decode(token string) (*session.Session, error)
}

// Public paths that never require a session.
var allowedExact = map[string]struct{}{
	"/login":       {},
	"/register":    {},
	"/healthz":     {},
	"/metrics":     {},
	"/favicon.ico": {},
}

var allowedPrefixes = []string{
	"/auth/callback",
	"/api/public/",
	"/static/",
}

// Guard is the route-guard middleware.
type Guard struct {
	verifier SessionVerifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New constructs the route guard.
func New(verifier SessionVerifier, logger *slog.Logger, m *metrics.Metrics) *Guard {
	return &Guard{verifier: verifier, logger: logger, metrics: m}
}

// Middleware decides allow/redirect before any handler runs. Verified
// sessions are injected into the request context for downstream handlers.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		sess, ok := g.verify(r)
		if !ok {
			g.metrics.GuardRedirects.Inc()
			// API callers get the JSON contract; pages get sent to the
			// login form with their origin preserved.
			if strings.HasPrefix(r.URL.Path, "/api/") {
				httputil.WriteDetail(w, http.StatusUnauthorized, "Not authenticated")
				return
			}
			redirectToLogin(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(requestcontext.WithSession(r.Context(), sess)))
	})
}

// verify fails closed: a missing cookie, a failed verification or a panicking
// verifier all read as "no session".
func (g *Guard) verify(r *http.Request) (sess *session.Session, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			g.logger.ErrorContext(r.Context(), "session verifier panicked", "panic", rec)
			sess, ok = nil, false
		}
	}()

	cookie, err := r.Cookie(session.SessionCookie)
	if err != nil {
		return nil, false
	}

	sess, err = g.verifier.Decode(cookie.Value)
	if err != nil {
		g.logger.DebugContext(r.Context(), "session rejected", "path", r.URL.Path, "error", err)
		return nil, false
	}
	return sess, true
}

func isPublic(path string) bool {
	if _, ok := allowedExact[path]; ok {
		return true
	}
	for _, prefix := range allowedPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	target := "/login?from=" + url.QueryEscape(r.URL.Path)
	http.Redirect(w, r, target, http.StatusFound)
}
