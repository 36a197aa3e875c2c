// Package api exposes the query surface over JSON HTTP routes. Transport
// concerns only: decoding, validation, permission-error mapping. All
// behavior lives in the service layer.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/tgoncalves/listly/internal/auth"
	"github.com/tgoncalves/listly/internal/service"
	"github.com/tgoncalves/listly/internal/storage"
)

// Handler bundles the services behind the HTTP routes.
type Handler struct {
	lists    *service.ListService
	auth     *service.AuthService
	validate *validator.Validate
}

// NewHandler creates the API handler.
func NewHandler(lists *service.ListService, authSvc *service.AuthService) *Handler {
	return &Handler{
		lists:    lists,
		auth:     authSvc,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

// writeError maps domain errors onto HTTP statuses. Precondition violations
// of the participant state machine are unprocessable input, not conflicts:
// the request was well-formed but the entity state rejects it.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorResponse{Error: err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, service.ErrAlreadyParticipant),
		errors.Is(err, service.ErrNotParticipant),
		errors.Is(err, service.ErrAlreadyAdmin),
		errors.Is(err, service.ErrMissingTitle),
		errors.Is(err, service.ErrMissingName),
		errors.Is(err, service.ErrNegativeThreshold),
		errors.Is(err, service.ErrNegativeValue),
		errors.Is(err, service.ErrBadQuantity),
		errors.Is(err, auth.ErrWeakPassword):
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrEmailExists):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrMissingToken):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error()})
	default:
		slog.Error("Unhandled error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

// decode unmarshals and validates the request body into v.
// Reports false after writing the error response itself.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return false
	}
	return true
}
