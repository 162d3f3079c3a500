package httptransport

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"glimpse/internal/backend"
	"glimpse/pkg/platform/httputil"
	"glimpse/pkg/requestcontext"
)

// The local API mirrors the backend's post endpoints for browser-side
// mutations. Each handler re-derives the access token from the verified
// session and forwards the caller's cookies.

func (h *Handler) handleLike(w http.ResponseWriter, r *http.Request) {
	h.forwardLike(w, r, http.MethodPost)
}

func (h *Handler) handleUnlike(w http.ResponseWriter, r *http.Request) {
	h.forwardLike(w, r, http.MethodDelete)
}

func (h *Handler) forwardLike(w http.ResponseWriter, r *http.Request, method string) {
	ctx := r.Context()
	sess := requestcontext.Session(ctx)
	if sess == nil {
		httputil.WriteDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	postID := chi.URLParam(r, "postID")
	path := fmt.Sprintf("/api/v1/posts/%s/likes", postID)

	body, err := h.backend.Do(ctx, method, path, backend.Options{
		Header: authHeader(sess.AccessToken),
		From:   r,
		Route:  "/api/v1/posts/{id}/likes",
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "like forwarding failed", "post_id", postID, "error", err)
		httputil.WriteDetail(w, http.StatusInternalServerError, "Could not update like")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := requestcontext.Session(ctx)
	if sess == nil {
		httputil.WriteDetail(w, http.StatusUnauthorized, "Not authenticated")
		return
	}

	var payload struct {
		Text string `json:"text"`
	}
	if err := httputil.DecodeJSON(r, &payload); err != nil {
		httputil.WriteError(w, err)
		return
	}

	text := strings.TrimSpace(payload.Text)
	if text == "" {
		httputil.WriteDetail(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	postID := chi.URLParam(r, "postID")
	path := fmt.Sprintf("/api/v1/posts/%s/comments", postID)

	body, err := h.backend.Do(ctx, http.MethodPost, path, backend.Options{
		Body:   map[string]string{"text": text},
		Header: authHeader(sess.AccessToken),
		From:   r,
		Route:  "/api/v1/posts/{id}/comments",
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "comment forwarding failed", "post_id", postID, "error", err)
		httputil.WriteDetail(w, http.StatusInternalServerError, "Could not post comment")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_, _ = w.Write(body)
}

// authHeader builds the caller-supplied Cookie header carrying the session's
// access token. Ambient request cookies are appended after it by the proxy.
func authHeader(accessToken string) http.Header {
	header := http.Header{}
	header.Set("Cookie", "access_token="+accessToken)
	return header
}
