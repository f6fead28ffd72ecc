package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error  string `json:"error"`
	Reauth bool   `json:"reauth,omitempty"`
}

func writeJSON(w http.ResponseWriter, log *logger.Logger, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, log *logger.Logger, status int, msg string) {
	writeJSON(w, log, status, errorResponse{Error: msg})
}

// statusFor maps a usecase error to its HTTP status and client message.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrListingNotFound):
		return http.StatusNotFound, domain.ErrListingNotFound.Error()
	case errors.Is(err, domain.ErrBrandNotFound):
		return http.StatusNotFound, domain.ErrBrandNotFound.Error()
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrAuthExpired):
		return http.StatusUnauthorized, domain.ErrUnauthenticated.Error()
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.ErrForbidden.Error()
	case errors.Is(err, domain.ErrTogglePending):
		return http.StatusConflict, domain.ErrTogglePending.Error()
	case errors.Is(err, domain.ErrRemoteQuery):
		return http.StatusBadGateway, domain.ErrRemoteQuery.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

func writeDomainError(w http.ResponseWriter, log *logger.Logger, err error) {
	status, msg := statusFor(err)
	writeError(w, log, status, msg)
}
