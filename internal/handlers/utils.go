package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/binkeyit/storefront/internal/services"
)

type contextKey string

const contextSubjectKey contextKey = "sub"

// Response is the envelope every endpoint answers with. Exactly one of
// Error and Success is true.
type Response struct {
	Message string `json:"message"`
	Error   bool   `json:"error"`
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
}

func userIDFromContext(ctx context.Context) (string, error) {
	subject, ok := ctx.Value(contextSubjectKey).(string)
	if !ok || strings.TrimSpace(subject) == "" {
		return "", errors.New("missing subject")
	}
	return subject, nil
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, Response{Message: message, Success: true, Data: data})
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Response{Message: message, Error: true})
}

// writeServiceError maps service sentinel errors onto HTTP statuses. Anything
// unrecognized is an internal error and its detail stays out of the response.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrValidation):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrConflict):
		writeFailure(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAuth):
		writeFailure(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, services.ErrOTPExpired):
		writeFailure(w, http.StatusBadRequest, err.Error())
	// Missing records answer 400, not 404: the API treats an unknown email or
	// id as a bad request, matching the rest of the failure envelope.
	case errors.Is(err, services.ErrNotFound):
		writeFailure(w, http.StatusBadRequest, err.Error())
	default:
		writeFailure(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeFailure(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
