package session

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// replay copies the cookies written so far onto a fresh request, mimicking
// the browser sending them back.
func replay(t *testing.T, w *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range w.Result().Cookies() {
		if cookie.MaxAge >= 0 {
			r.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
		}
	}
	return r
}

func TestJarRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	jar := NewJar(w, httptest.NewRequest(http.MethodGet, "/", nil), false)

	jar.SetAccessToken("A", 900)
	jar.SetRefreshToken("R", 86400)

	readBack := NewJar(httptest.NewRecorder(), replay(t, w), false)
	assert.Equal(t, "A", readBack.AccessToken())
	assert.Equal(t, "R", readBack.RefreshToken())
}

func TestJarEnforcesSecurityAttributes(t *testing.T) {
	t.Run("production attributes", func(t *testing.T) {
		w := httptest.NewRecorder()
		jar := NewJar(w, httptest.NewRequest(http.MethodGet, "/", nil), false)
		jar.SetAccessToken("A", 900)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		c := cookies[0]
		assert.Equal(t, AccessCookie, c.Name)
		assert.True(t, c.HttpOnly)
		assert.True(t, c.Secure)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 900, c.MaxAge)
	})

	t.Run("local-insecure override drops only Secure", func(t *testing.T) {
		w := httptest.NewRecorder()
		jar := NewJar(w, httptest.NewRequest(http.MethodGet, "/", nil), true)
		jar.SetAccessToken("A", 900)

		c := w.Result().Cookies()[0]
		assert.False(t, c.Secure)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	})
}

func TestJarSetOneDoesNotImplyTheOther(t *testing.T) {
	w := httptest.NewRecorder()
	jar := NewJar(w, httptest.NewRequest(http.MethodGet, "/", nil), false)
	jar.SetAccessToken("A", 900)

	readBack := NewJar(httptest.NewRecorder(), replay(t, w), false)
	assert.Equal(t, "A", readBack.AccessToken())
	assert.Empty(t, readBack.RefreshToken())
}

func TestClearAuth(t *testing.T) {
	incoming := httptest.NewRequest(http.MethodGet, "/", nil)
	incoming.AddCookie(&http.Cookie{Name: AccessCookie, Value: "A"})
	// Refresh cookie deliberately absent: clear must still be total.

	w := httptest.NewRecorder()
	jar := NewJar(w, incoming, false)
	jar.ClearAuth()
	jar.ClearAuth() // idempotent

	expired := map[string]bool{}
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			expired[c.Name] = true
		}
	}
	assert.True(t, expired[AccessCookie])
	assert.True(t, expired[RefreshCookie])
	assert.True(t, expired[SessionCookie])

	readBack := NewJar(httptest.NewRecorder(), replay(t, w), false)
	assert.Empty(t, readBack.AccessToken())
	assert.Empty(t, readBack.RefreshToken())
}
