package session

import (
	"net/http"
)

// Cookie names owned by the auth flow.
const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"
	SessionCookie = "session"
)

// Jar reads and writes the auth cookies for one request/response pair.
// Every write enforces httpOnly, SameSite=Lax and Path=/; the Secure flag is
// dropped only under the explicit local-insecure override. Callers supply
// name, value and max-age and cannot weaken the rest.
type Jar struct {
	w        http.ResponseWriter
	r        *http.Request
	insecure bool
}

// NewJar binds a cookie jar to a request/response pair.
func NewJar(w http.ResponseWriter, r *http.Request, insecure bool) *Jar {
	return &Jar{w: w, r: r, insecure: insecure}
}

// Set writes a cookie with the enforced security attributes.
func (j *Jar) Set(name, value string, maxAge int) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   !j.insecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Get returns the named cookie's value, or "" when absent.
func (j *Jar) Get(name string) string {
	cookie, err := j.r.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Delete expires the named cookie. Deleting an absent cookie is a no-op.
func (j *Jar) Delete(name string) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   !j.insecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SetAccessToken stores the raw access token cookie.
func (j *Jar) SetAccessToken(value string, maxAge int) { j.Set(AccessCookie, value, maxAge) }

// SetRefreshToken stores the raw refresh token cookie. Setting one token
// cookie never implies setting the other.
func (j *Jar) SetRefreshToken(value string, maxAge int) { j.Set(RefreshCookie, value, maxAge) }

// AccessToken returns the raw access token cookie, or "".
func (j *Jar) AccessToken() string { return j.Get(AccessCookie) }

// RefreshToken returns the raw refresh token cookie, or "".
func (j *Jar) RefreshToken() string { return j.Get(RefreshCookie) }

// SetSession stores the signed session token.
func (j *Jar) SetSession(value string, maxAge int) { j.Set(SessionCookie, value, maxAge) }

// Session returns the signed session token, or "".
func (j *Jar) Session() string { return j.Get(SessionCookie) }

// ClearAuth removes every auth cookie regardless of which are present.
// Calling it twice is safe.
func (j *Jar) ClearAuth() {
	j.Delete(AccessCookie)
	j.Delete(RefreshCookie)
	j.Delete(SessionCookie)
}
