package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"wellnest/internal/logger"
	"wellnest/internal/progression"
	"wellnest/internal/service"
	"wellnest/internal/store"
	"wellnest/internal/validation"
)

type errorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondWithError(w http.ResponseWriter, log *logger.Logger, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Error(logMsg, "status", status, "error", err)
	}

	writeJSON(w, status, errorResponse{Message: userMsg})
}

// respondWithServiceError maps a service error to its HTTP status. Errors
// without a mapping are logged and answered with 500.
func respondWithServiceError(w http.ResponseWriter, log *logger.Logger, logMsg string, err error) {
	var verr validation.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: verr.Message, Field: verr.Field})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Message: ErrNotFound})
	case errors.Is(err, progression.ErrInvalidAmount):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrInvalidPoints})
	case errors.Is(err, progression.ErrInsufficientPoints):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrNotEnoughPoints})
	case errors.Is(err, service.ErrUsernameTaken):
		writeJSON(w, http.StatusConflict, errorResponse{Message: ErrUsernameTaken})
	case errors.Is(err, service.ErrBadUsername):
		writeJSON(w, http.StatusBadRequest, errorResponse{Message: ErrBadUsername, Field: "username"})
	case errors.Is(err, service.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: ErrInvalidCredentials})
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, service.ErrSessionExpired):
		writeJSON(w, http.StatusUnauthorized, errorResponse{Message: ErrUnauthorized})
	default:
		respondWithError(w, log, http.StatusInternalServerError, ErrInternalServerError, logMsg, err)
	}
}

// decodeJSON reads a size-limited JSON body into dst
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	return json.NewDecoder(r.Body).Decode(dst)
}
