package service

import (
	"context"

	"github.com/google/uuid"

	"canteen-counter/internal/cart"
	"canteen-counter/internal/model"
)

// CapabilityChecker reports whether the request context carries staff
// capability. The concrete check lives in the auth package; services only
// consume the fact.
type CapabilityChecker func(ctx context.Context) bool

// CatalogService defines operations on the menu catalog.
type CatalogService interface {
	// ListItems retrieves menu items, optionally filtered by category.
	ListItems(ctx context.Context, category string) ([]model.MenuItem, error)

	// GetItem retrieves a single menu item.
	GetItem(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)

	// Categories returns the distinct category tags in use.
	Categories(ctx context.Context) ([]string, error)

	// CreateItem adds a menu item. Staff only.
	CreateItem(ctx context.Context, req *model.MenuItemRequest) (*model.MenuItem, error)

	// UpdateItem replaces a menu item's fields. Staff only.
	UpdateItem(ctx context.Context, id uuid.UUID, req *model.MenuItemRequest) (*model.MenuItem, error)

	// DeleteItem removes a menu item. Staff only.
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

// OrderService defines the order lifecycle operations.
type OrderService interface {
	// PlaceOrder freezes the cart into a new pending order. The order and
	// all its lines persist atomically; the cart is cleared only after the
	// write succeeds.
	PlaceOrder(ctx context.Context, c *cart.Cart, req *model.PlaceOrderRequest) (*model.OrderDetail, error)

	// TrackOrder retrieves an order with its lines.
	TrackOrder(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)

	// ListActiveOrders retrieves all orders newest-first. Staff only.
	ListActiveOrders(ctx context.Context) ([]model.OrderDetail, error)

	// Advance moves an order to its next status. Staff only.
	Advance(ctx context.Context, id uuid.UUID) (*model.Order, error)
}

// AuthService authenticates staff and issues capability tokens.
type AuthService interface {
	// Login verifies credentials and returns a signed staff token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}
