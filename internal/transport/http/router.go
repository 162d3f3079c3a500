// Package httptransport is the thin HTTP layer. Handlers delegate to domain
// services so transport concerns stay isolated.
package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"glimpse/internal/backend"
	"glimpse/internal/guard"
	"glimpse/internal/identity"
	"glimpse/internal/platform/config"
	"glimpse/internal/platform/metrics"
	"glimpse/internal/session"
	"glimpse/pkg/platform/middleware/metadata"
	"glimpse/pkg/platform/middleware/requesttime"
)

// Handler carries the wired services for every route.
type Handler struct {
	cfg      *config.Config
	logger   *slog.Logger
	metrics  *metrics.Metrics
	identity *identity.Service
	codec    *session.Codec
	renewer  *session.Renewer
	backend  *backend.Client
	renderer Renderer
}

// NewHandler constructs the HTTP handler set.
func NewHandler(
	cfg *config.Config,
	logger *slog.Logger,
	m *metrics.Metrics,
	identitySvc *identity.Service,
	codec *session.Codec,
	renewer *session.Renewer,
	backendClient *backend.Client,
	renderer Renderer,
) *Handler {
	return &Handler{
		cfg:      cfg,
		logger:   logger,
		metrics:  m,
		identity: identitySvc,
		codec:    codec,
		renewer:  renewer,
		backend:  backendClient,
		renderer: renderer,
	}
}

// NewRouter wires middleware and routes. Middleware order matters: request
// time and metadata first so the access log sees both, guard last so every
// route below it is gated.
func NewRouter(h *Handler, g *guard.Guard, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()

	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(AccessLog(h.logger))
	r.Use(g.Middleware)

	r.Get("/healthz", handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	r.Get("/", h.handleHomePage)
	r.Get("/posts/{postID}", h.handlePostPage)

	r.Get("/login", h.handleLoginPage)
	r.Post("/login", h.handleLogin)
	r.Get("/register", h.handleRegisterPage)
	r.Post("/register", h.handleRegister)
	r.Post("/logout", h.handleLogout)
	r.Post("/auth/renew", h.handleRenewSession)

	r.Route("/api/posts/{postID}", func(r chi.Router) {
		r.Post("/likes", h.handleLike)
		r.Delete("/likes", h.handleUnlike)
		r.Post("/comments", h.handleCreateComment)
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
