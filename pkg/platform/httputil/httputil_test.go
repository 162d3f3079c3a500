package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dErrors "glimpse/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error masks message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeInternal, "db failed"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if strings.Contains(body["detail"], "db failed") {
			t.Fatalf("internal detail leaked to the client: %q", body["detail"])
		}
	})

	t.Run("validation error carries its message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeValidation, "comment cannot be empty"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["detail"] != "comment cannot be empty" {
			t.Fatalf("expected validation message in detail, got %q", body["detail"])
		}
	})

	t.Run("session errors map to 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeSessionInvalid, "session expired"))

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})
}

func TestWriteDetail(t *testing.T) {
	w := httptest.NewRecorder()
	WriteDetail(w, http.StatusNotFound, "Post not found")

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("expected JSON content type, got %q", ct)
	}

	var body map[string]string
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["detail"] != "Post not found" {
		t.Fatalf("expected detail envelope, got %v", body)
	}
}

func TestDecodeJSON(t *testing.T) {
	t.Run("valid body decodes", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"text":"hi"}`))
		var dst struct {
			Text string `json:"text"`
		}
		if err := DecodeJSON(r, &dst); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if dst.Text != "hi" {
			t.Fatalf("expected decoded text, got %q", dst.Text)
		}
	})

	t.Run("malformed body is a validation error", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{`))
		var dst struct{}
		err := DecodeJSON(r, &dst)
		if err == nil {
			t.Fatal("expected error for malformed body")
		}
		if dErrors.CodeOf(err) != dErrors.CodeValidation {
			t.Fatalf("expected validation code, got %v", dErrors.CodeOf(err))
		}
	})
}
