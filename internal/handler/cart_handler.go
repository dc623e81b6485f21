package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"canteen-counter/internal/cart"
	"canteen-counter/internal/middleware"
	"canteen-counter/internal/model"
	"canteen-counter/internal/service"
)

// CartHandler handles the session cart endpoints. Each request resolves the
// caller's cart from the session cookie; the cart itself never leaves the
// process.
type CartHandler struct {
	carts   *cart.Store
	catalog service.CatalogService
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts *cart.Store, catalog service.CatalogService, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalog,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// cartView is the cart response payload.
type cartView struct {
	Lines []model.CartLine `json:"lines"`
	Total decimal.Decimal  `json:"total"`
}

func (h *CartHandler) sessionCart(w http.ResponseWriter, r *http.Request) (*cart.Cart, bool) {
	sessionID := middleware.SessionID(r)
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "missing session", h.logger)
		return nil, false
	}
	return h.carts.Get(sessionID), true
}

func (h *CartHandler) writeCart(w http.ResponseWriter, c *cart.Cart) {
	writeJSON(w, http.StatusOK, cartView{Lines: c.Snapshot(), Total: c.Total()})
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}
	h.writeCart(w, c)
}

// addRequest is the payload for adding an item to the cart.
type addRequest struct {
	ItemID uuid.UUID `json:"itemId"`
}

// Add handles POST /api/cart/items requests. Adding an item already in the
// cart increments its quantity.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ItemID == uuid.Nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	item, err := h.catalog.GetItem(r.Context(), req.ItemID)
	if err != nil {
		writeDomainError(w, err, h.logger)
		return
	}
	if !item.Available {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "menu item is unavailable", h.logger)
		return
	}

	c.Add(*item)
	h.writeCart(w, c)
}

// Decrement handles POST /api/cart/items/{id}/decrement requests.
func (h *CartHandler) Decrement(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid item ID", h.logger)
		return
	}

	c.Decrement(id)
	h.writeCart(w, c)
}

// Remove handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid item ID", h.logger)
		return
	}

	c.Remove(id)
	h.writeCart(w, c)
}

// instructionsRequest is the payload for per-line special instructions.
type instructionsRequest struct {
	Text string `json:"text"`
}

// SetInstructions handles PUT /api/cart/items/{id}/instructions requests.
func (h *CartHandler) SetInstructions(w http.ResponseWriter, r *http.Request) {
	c, ok := h.sessionCart(w, r)
	if !ok {
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid item ID", h.logger)
		return
	}

	var req instructionsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	c.SetInstructions(id, req.Text)
	h.writeCart(w, c)
}
