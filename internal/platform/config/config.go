// Package config builds the process-wide configuration. The struct is
// constructed once at startup and passed by reference into constructors;
// nothing reads the environment after that.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the edge tier needs to run.
type Config struct {
	Addr                  string
	BackendBaseURL        string
	SessionSecret         string
	SessionTTL            time.Duration
	AccessTokenTTL        time.Duration
	RefreshRequestTimeout time.Duration
	// InsecureCookies disables the Secure cookie attribute for local
	// development over plain HTTP. Never enable in production.
	InsecureCookies bool
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() *Config {
	addr := os.Getenv("GLIMPSE_ADDR")
	if addr == "" {
		addr = ":3000"
	}

	backendURL := os.Getenv("BACKEND_BASE_URL")
	if backendURL == "" {
		backendURL = "http://localhost:8000"
	}

	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		// Development fallback - must be overridden in production.
		secret = "dev-secret-key-change-in-production"
	}

	return &Config{
		Addr:                  addr,
		BackendBaseURL:        backendURL,
		SessionSecret:         secret,
		SessionTTL:            durationFromEnv("SESSION_TTL", 7*24*time.Hour),
		AccessTokenTTL:        durationFromEnv("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshRequestTimeout: durationFromEnv("REFRESH_REQUEST_TIMEOUT", 10*time.Second),
		InsecureCookies:       boolFromEnv("INSECURE_COOKIES"),
	}
}

func durationFromEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func boolFromEnv(key string) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	return err == nil && v
}
