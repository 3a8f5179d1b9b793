package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/heartmarshall/slide-relay/internal/domain"
	"github.com/heartmarshall/slide-relay/internal/tunnel"
)

type errorResponse struct {
	Error   string              `json:"error"`
	Details []domain.FieldError `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// handleError maps service and tunnel errors to HTTP statuses. Anything
// unrecognized is logged and hidden behind a 500.
func handleError(log *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "validation failed", Details: ve.Errors})
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrConflict):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, tunnel.ErrAgentNotConnected):
		writeError(w, http.StatusServiceUnavailable, "agent not connected")
	case errors.Is(err, tunnel.ErrTimeout):
		writeError(w, http.StatusGatewayTimeout, "agent did not respond in time")
	case errors.Is(err, tunnel.ErrReplaced),
		errors.Is(err, tunnel.ErrDisconnected),
		errors.Is(err, tunnel.ErrShutdown),
		errors.Is(err, tunnel.ErrSendFailed),
		errors.Is(err, tunnel.ErrBadResponse):
		log.WarnContext(r.Context(), "tunnel request failed", slog.String("error", err.Error()))
		writeError(w, http.StatusBadGateway, "tunnel request failed")
	default:
		log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
