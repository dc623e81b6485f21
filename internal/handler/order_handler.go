package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"canteen-counter/internal/cart"
	"canteen-counter/internal/middleware"
	"canteen-counter/internal/model"
	"canteen-counter/internal/service"
)

// OrderHandler handles order-related HTTP requests.
type OrderHandler struct {
	service service.OrderService
	carts   *cart.Store
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, carts *cart.Store, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		carts:   carts,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// Place handles POST /api/orders requests: checkout of the session cart.
func (h *OrderHandler) Place(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.SessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "missing session", h.logger)
		return
	}

	var req model.PlaceOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	detail, err := h.service.PlaceOrder(r.Context(), h.carts.Get(sessionID), &req)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, detail)
}

// Track handles GET /api/orders/{id} requests.
func (h *OrderHandler) Track(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID", h.logger)
		return
	}

	detail, err := h.service.TrackOrder(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, detail)
}

// List handles GET /api/orders requests for the staff dashboard.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListActiveOrders(r.Context())
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if orders == nil {
		orders = []model.OrderDetail{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// Advance handles POST /api/orders/{id}/advance requests.
func (h *OrderHandler) Advance(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID", h.logger)
		return
	}

	order, err := h.service.Advance(r.Context(), id)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
