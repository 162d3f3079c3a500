package guard

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glimpse/internal/platform/metrics"
	"glimpse/internal/session"
	"glimpse/pkg/requestcontext"
)

type fakeVerifier struct {
	sess  *session.Session
	err   error
	panic bool
}

func (f *fakeVerifier) Decode(string) (*session.Session, error) {
	if f.panic {
		panic("verifier blew up")
	}
	return f.sess, f.err
}

func newGuard(v SessionVerifier) *Guard {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(v, logger, metrics.New(prometheus.NewRegistry()))
}

func serve(g *Guard, r *http.Request) (*httptest.ResponseRecorder, *session.Session) {
	var captured *session.Session
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = requestcontext.Session(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	w := httptest.NewRecorder()
	g.Middleware(next).ServeHTTP(w, r)
	return w, captured
}

func TestPublicPathsAlwaysAllow(t *testing.T) {
	paths := []string{
		"/login",
		"/register",
		"/healthz",
		"/metrics",
		"/favicon.ico",
		"/auth/callback",
		"/api/public/config",
		"/static/app.css",
	}

	// Even a panicking verifier must not matter on public paths.
	g := newGuard(&fakeVerifier{panic: true})

	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			w, _ := serve(g, httptest.NewRequest(http.MethodGet, path, nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestGuardRedirectsWithoutSession(t *testing.T) {
	g := newGuard(&fakeVerifier{err: errors.New("no session")})

	w, _ := serve(g, httptest.NewRequest(http.MethodGet, "/posts/42", nil))

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?from=%2Fposts%2F42", w.Header().Get("Location"))
}

func TestGuardFailsClosed(t *testing.T) {
	tests := []struct {
		name     string
		verifier *fakeVerifier
		cookie   bool
	}{
		{"missing cookie", &fakeVerifier{sess: &session.Session{UserID: "u1"}}, false},
		{"verification fails", &fakeVerifier{err: errors.New("tampered")}, true},
		{"verifier panics", &fakeVerifier{panic: true}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.cookie {
				r.AddCookie(&http.Cookie{Name: session.SessionCookie, Value: "whatever"})
			}

			w, captured := serve(newGuard(tt.verifier), r)

			assert.Equal(t, http.StatusFound, w.Code)
			assert.Nil(t, captured)
		})
	}
}

func TestGuardAllowsVerifiedSession(t *testing.T) {
	sess := &session.Session{UserID: "u1", Username: "alice", AccessToken: "A"}
	g := newGuard(&fakeVerifier{sess: sess})

	r := httptest.NewRequest(http.MethodGet, "/posts/42", nil)
	r.AddCookie(&http.Cookie{Name: session.SessionCookie, Value: "signed"})

	w, captured := serve(g, r)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, captured)
	assert.Equal(t, "u1", captured.UserID)
}

func TestGuardAnswersAPIWithJSON(t *testing.T) {
	g := newGuard(&fakeVerifier{err: errors.New("no session")})

	w, _ := serve(g, httptest.NewRequest(http.MethodPost, "/api/posts/1/likes", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"Not authenticated"}`, w.Body.String())
}

func TestGuardVerifiesSignatureNotPresence(t *testing.T) {
	// A cookie with the right name but an unverifiable value must redirect;
	// presence alone is forgeable.
	codec := session.NewCodec("real-secret", "glimpse", 0)
	g := newGuard(codec)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: session.SessionCookie, Value: "forged-by-attacker"})

	w, captured := serve(g, r)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Nil(t, captured)
}
