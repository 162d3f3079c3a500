package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"glimpse/internal/backend"
	"glimpse/internal/session"
	"glimpse/pkg/requestcontext"
)

type feedView struct {
	Viewer *session.Session
	Posts  []backend.Post
}

type postView struct {
	Viewer   *session.Session
	Post     *backend.Post
	Comments []backend.Comment
}

func (h *Handler) handleHomePage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	viewer := requestcontext.Session(ctx)

	view := feedView{
		Viewer: viewer,
		Posts:  h.backend.HomeFeed(ctx, r),
	}
	h.render(w, r, http.StatusOK, "feed", view)
}

func (h *Handler) handlePostPage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	postID := chi.URLParam(r, "postID")

	var view postView
	view.Viewer = requestcontext.Session(ctx)

	// Post and comments are independent reads; fetch them concurrently.
	// Both helpers degrade on failure, so the group never errors.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		view.Post = h.backend.Post(gctx, r, postID)
		return nil
	})
	g.Go(func() error {
		view.Comments = h.backend.PostComments(gctx, r, postID)
		return nil
	})
	_ = g.Wait()

	if view.Post == nil {
		h.render(w, r, http.StatusNotFound, "not_found", nil)
		return
	}
	h.render(w, r, http.StatusOK, "post", view)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	if err := h.renderer.Render(w, status, name, data); err != nil {
		h.logger.ErrorContext(r.Context(), "render failed", "page", name, "error", err)
	}
}
