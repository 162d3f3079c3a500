// Package httputil centralizes JSON envelope handling for the HTTP layer so
// every handler speaks the backend's {"detail": ...} dialect.
package httputil

import (
	"encoding/json"
	"log/slog"
	"net/http"

	dErrors "glimpse/pkg/domain-errors"
)

// WriteJSON encodes v with the given status. Encoding failures are ignored;
// by then the status line is already on the wire.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteDetail writes the {"detail": msg} envelope used by the backend API.
func WriteDetail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, map[string]string{"detail": msg})
}

// WriteError translates a domain error into its HTTP envelope. Internal
// errors are masked; everything else carries its message through.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	WriteDetail(w, dErrors.ToHTTPStatus(code), dErrors.MessageOf(err))
}

// DecodeJSON parses the request body into dst, reporting malformed payloads
// as validation failures.
func DecodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return dErrors.Wrap(err, dErrors.CodeValidation, "invalid request body")
	}
	return nil
}

// LogAndWriteError logs the failure with its request context and then writes
// the translated response.
func LogAndWriteError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(r.Context(), msg, "path", r.URL.Path, "error", err)
	WriteError(w, err)
}
