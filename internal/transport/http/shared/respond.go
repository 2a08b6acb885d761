// Package shared centralizes domain-error translation so handlers never leak
// store topology or credentials through response bodies.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	"quizbank/pkg/domainerrors"
)

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError maps a domain error to its HTTP status and a safe JSON body.
// Non-domain errors collapse to a generic 500.
func WriteError(w http.ResponseWriter, err error) {
	code := domainerrors.CodeOf(err)
	message := "internal server error"
	var de *domainerrors.Error
	if errors.As(err, &de) {
		message = de.Message
	}
	WriteJSON(w, statusOf(code), errorBody{Error: string(code), Message: message})
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusOf(code domainerrors.Code) int {
	switch code {
	case domainerrors.CodeInvalidInput, domainerrors.CodeBadRequest:
		return http.StatusBadRequest
	case domainerrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case domainerrors.CodeNotFound:
		return http.StatusNotFound
	case domainerrors.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
