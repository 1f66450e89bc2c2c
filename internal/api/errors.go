package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"photostrip/internal/failures"
)

// statusFor maps an error marker to an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, failures.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, failures.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, failures.ErrSequenceActive):
		return http.StatusConflict
	case errors.Is(err, failures.ErrSourceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, failures.ErrRender), errors.Is(err, failures.ErrPersistence):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// WriteFailure writes err as a JSON error body with its mapped status.
func WriteFailure(w http.ResponseWriter, err error) {
	details := failures.Details(err)
	if failures.Retryable(err) {
		w.Header().Set("Retry-After", "1")
	}
	WriteError(w, statusFor(err), details.Message, details.Kind)
}

// WriteError writes a JSON error body.
func WriteError(w http.ResponseWriter, status int, message, code string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message, Code: code})
}

// WriteJSON writes data as a JSON body.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
