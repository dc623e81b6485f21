package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"canteen-counter/internal/model"
)

// MenuRepository defines data access for menu items.
type MenuRepository interface {
	// List retrieves menu items ordered by category then name. An empty
	// category returns everything.
	List(ctx context.Context, category string) ([]model.MenuItem, error)

	// GetByID retrieves a single menu item, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.MenuItem, error)

	// Categories returns the distinct category tags in use.
	Categories(ctx context.Context) ([]string, error)

	// Create inserts a new menu item.
	Create(ctx context.Context, item *model.MenuItem) error

	// Update replaces a menu item's mutable fields. Returns
	// model.ErrMenuItemNotFound when the row does not exist.
	Update(ctx context.Context, item *model.MenuItem) error

	// Delete removes a menu item. Returns model.ErrMenuItemNotFound when
	// the row does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// OrderRepository defines data access for orders and their frozen lines.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// CreateOrder inserts a new order within the provided transaction.
	CreateOrder(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// CreateOrderLines inserts the order's lines within the provided
	// transaction.
	CreateOrderLines(ctx context.Context, tx pgx.Tx, lines []model.OrderLine) error

	// GetByID retrieves an order with its lines, nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.OrderDetail, error)

	// List retrieves all orders newest-first, each with its lines.
	List(ctx context.Context) ([]model.OrderDetail, error)

	// UpdateStatus sets an order's status and returns the updated row.
	// The single-row update is the only mutation orders ever receive.
	UpdateStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Order, error)
}

// StaffRepository defines data access for staff accounts.
type StaffRepository interface {
	// GetByEmail retrieves a staff user by email, nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.StaffUser, error)
}
