package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"glimpse/internal/backend"
	"glimpse/internal/guard"
	"glimpse/internal/identity"
	"glimpse/internal/platform/config"
	"glimpse/internal/platform/httpserver"
	"glimpse/internal/platform/logger"
	"glimpse/internal/platform/metrics"
	"glimpse/internal/session"
	httptransport "glimpse/internal/transport/http"
)

// main wires high-level dependencies and keeps the server lifecycle small.
// Business logic lives in the internal services packages.
func main() {
	// .env is optional; real deployments configure through the environment.
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	identityClient := identity.NewClient(cfg.BackendBaseURL)
	identitySvc := identity.NewService(identityClient, identityClient, identityClient, log)

	codec := session.NewCodec(cfg.SessionSecret, "glimpse", cfg.SessionTTL)
	renewer := session.NewRenewer(codec, identityClient, log)

	backendClient := backend.NewClient(cfg.BackendBaseURL, log, m)
	routeGuard := guard.New(codec, log, m)

	handler := httptransport.NewHandler(cfg, log, m, identitySvc, codec, renewer, backendClient, httptransport.JSONRenderer{})
	router := httptransport.NewRouter(handler, routeGuard, registry)

	srv := httpserver.New(cfg.Addr, router)

	log.Info("starting glimpse", "addr", cfg.Addr, "backend", cfg.BackendBaseURL)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
}
