package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"fedkart/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code, code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Str("code", code).Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error to a response. Domain errors keep
// their code and message; anything else becomes a 500 with fallback as message.
func writeServiceError(w http.ResponseWriter, err error, fallback string, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Msg(fallback)
		writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, fallback, logger)
		return
	}

	writeError(w, statusFor(domainErr.Code), domainErr.Code, domainErr.Message, logger)
}

func statusFor(code string) int {
	switch code {
	case model.ErrCodeOrderNotFound, model.ErrCodeEventNotFound, model.ErrCodeRegistrationNotFound:
		return http.StatusNotFound
	case model.ErrCodeOrderNotOpen, model.ErrCodeAlreadyRegistered:
		return http.StatusConflict
	case model.ErrCodeInvalidJSON, model.ErrCodeMissingField, model.ErrCodeInvalidDiscount:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// uuidParam parses the named chi URL parameter.
func uuidParam(r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
