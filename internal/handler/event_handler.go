package handler

import (
	"net/http"
	"strconv"

	"fedkart/internal/model"
	"fedkart/internal/service"

	"github.com/rs/zerolog"
)

// EventHandler handles event catalogue HTTP requests.
type EventHandler struct {
	service service.EventService
	logger  zerolog.Logger
}

// NewEventHandler creates a new event handler.
func NewEventHandler(service service.EventService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.With().Str("handler", "event").Logger(),
	}
}

// List handles GET /api/events requests with pagination.
func (h *EventHandler) List(w http.ResponseWriter, r *http.Request) {
	limitStr := r.URL.Query().Get("limit")
	offsetStr := r.URL.Query().Get("offset")

	limit := 10 // default
	if limitStr != "" {
		var err error
		limit, err = strconv.Atoi(limitStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid limit parameter", h.logger)
			return
		}
	}

	offset := 0 // default
	if offsetStr != "" {
		var err error
		offset, err = strconv.Atoi(offsetStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid offset parameter", h.logger)
			return
		}
	}

	events, err := h.service.List(r.Context(), limit, offset)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve events", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, events)
}

// GetByID handles GET /api/events/{id} requests.
func (h *EventHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid event ID format", h.logger)
		return
	}

	event, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve event", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, event)
}
