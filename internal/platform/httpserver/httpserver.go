// Package httpserver owns the edge server's timeouts.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the edge HTTP server. Browsers hold connections open, so idle
// and write limits are generous; the header read stays tight.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
