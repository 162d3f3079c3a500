package httptransport

import (
	"context"
	"net/http"
	"strings"

	"glimpse/internal/identity"
	"glimpse/internal/session"
	dErrors "glimpse/pkg/domain-errors"
)

type loginView struct {
	From  string
	Error string
}

type registerView struct {
	Error string
}

func (h *Handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "login", loginView{From: r.URL.Query().Get("from")})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "login", loginView{Error: "invalid form submission"})
		return
	}

	creds := identity.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	user, err := h.identity.Authorize(ctx, creds)
	if err != nil {
		status := dErrors.ToHTTPStatus(dErrors.CodeOf(err))
		h.render(w, r, status, "login", loginView{
			From:  r.PostFormValue("from"),
			Error: dErrors.MessageOf(err),
		})
		return
	}

	token, err := h.codec.Issue(user)
	if err != nil {
		h.logger.ErrorContext(ctx, "failed to issue session", "user_id", user.ID, "error", err)
		h.render(w, r, http.StatusInternalServerError, "login", loginView{Error: "login failed, try again"})
		return
	}

	jar := session.NewJar(w, r, h.cfg.InsecureCookies)
	jar.SetSession(token, int(h.cfg.SessionTTL.Seconds()))
	jar.SetAccessToken(user.AccessToken, int(h.cfg.AccessTokenTTL.Seconds()))
	jar.SetRefreshToken(user.RefreshToken, int(h.cfg.SessionTTL.Seconds()))

	h.metrics.Logins.Inc()
	http.Redirect(w, r, safeReturnPath(r.PostFormValue("from")), http.StatusSeeOther)
}

func (h *Handler) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "register", registerView{})
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.render(w, r, http.StatusBadRequest, "register", registerView{Error: "invalid form submission"})
		return
	}

	reg := identity.Registration{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}

	if err := h.identity.Register(r.Context(), reg); err != nil {
		status := dErrors.ToHTTPStatus(dErrors.CodeOf(err))
		h.render(w, r, status, "register", registerView{Error: dErrors.MessageOf(err)})
		return
	}

	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	session.NewJar(w, r, h.cfg.InsecureCookies).ClearAuth()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// handleRenewSession re-issues the session cookie using the refresh token
// embedded in the signed claims. A refused renewal logs the caller out.
func (h *Handler) handleRenewSession(w http.ResponseWriter, r *http.Request) {
	jar := session.NewJar(w, r, h.cfg.InsecureCookies)

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RefreshRequestTimeout)
	defer cancel()

	renewed, err := h.renewer.Renew(ctx, jar.Session())
	if err != nil {
		jar.ClearAuth()
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	jar.SetSession(renewed, int(h.cfg.SessionTTL.Seconds()))
	w.WriteHeader(http.StatusNoContent)
}

// safeReturnPath keeps post-login redirects on this origin.
func safeReturnPath(from string) string {
	if from == "" || !strings.HasPrefix(from, "/") || strings.HasPrefix(from, "//") {
		return "/"
	}
	return from
}
