package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"quizbank/pkg/domainerrors"
)

func TestWriteError(t *testing.T) {
	t.Run("domain error carries its code and message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, domainerrors.New(domainerrors.CodeNotFound, "question not found"))

		if w.Code != http.StatusNotFound {
			t.Fatalf("expected status %d, got %d", http.StatusNotFound, w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["error"] != string(domainerrors.CodeNotFound) {
			t.Fatalf("expected error code %q, got %q", domainerrors.CodeNotFound, body["error"])
		}
		if body["message"] != "question not found" {
			t.Fatalf("expected domain message, got %q", body["message"])
		}
	})

	t.Run("wrapped cause never reaches the body", func(t *testing.T) {
		w := httptest.NewRecorder()
		cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
		WriteError(w, domainerrors.Wrap(domainerrors.CodeUnavailable, "primary store unavailable", cause))

		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status %d, got %d", http.StatusServiceUnavailable, w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["message"] != "primary store unavailable" {
			t.Fatalf("expected sanitized message, got %q", body["message"])
		}
	})

	t.Run("non-domain error collapses to generic 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("dial tcp: connection refused"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["message"] != "internal server error" {
			t.Fatalf("expected generic message, got %q", body["message"])
		}
	})

	t.Run("unauthorized maps to 401", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, domainerrors.New(domainerrors.CodeUnauthorized, "administrative privilege required"))
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
		}
	})
}
