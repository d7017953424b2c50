package handler

import (
	"encoding/json"
	"net/http"

	"fedkart/internal/model"
	"fedkart/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartHandler handles cart and order HTTP requests.
type CartHandler struct {
	service service.CartService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(service service.CartService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// Create handles POST /api/orders requests.
func (h *CartHandler) Create(w http.ResponseWriter, r *http.Request) {
	order, err := h.service.CreateCart(r.Context())
	if err != nil {
		writeServiceError(w, err, "failed to create cart", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *CartHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.GetOrder(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, "failed to retrieve order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// AddItem handles POST /api/orders/{id}/items requests.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	var req model.AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	order, err := h.service.AddItem(r.Context(), orderID, &req)
	if err != nil {
		writeServiceError(w, err, "failed to add item", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// RemoveItem handles DELETE /api/orders/{id}/items/{registrationId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	registrationID, ok := uuidParam(r, "registrationId")
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid registration ID format", h.logger)
		return
	}

	order, err := h.service.RemoveItem(r.Context(), orderID, registrationID)
	if err != nil {
		writeServiceError(w, err, "failed to remove item", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Recalculate handles POST /api/orders/{id}/discounts requests.
func (h *CartHandler) Recalculate(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Recalculate(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, "failed to recalculate discounts", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// Checkout handles POST /api/orders/{id}/checkout requests.
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	orderID, ok := h.orderID(w, r)
	if !ok {
		return
	}

	order, err := h.service.Checkout(r.Context(), orderID)
	if err != nil {
		writeServiceError(w, err, "failed to check out order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

func (h *CartHandler) orderID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, ok := uuidParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, model.ErrCodeMissingField, "invalid order ID format", h.logger)
	}
	return id, ok
}
