package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MenuItem represents a dish or drink on the counter's menu. The cart and
// order core treat it as read-only; only staff menu management mutates it.
type MenuItem struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Category  string          `json:"category" db:"category"`
	ImageURL  *string         `json:"imageUrl,omitempty" db:"image_url"`
	Available bool            `json:"available" db:"available"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time       `json:"updatedAt" db:"updated_at"`
}

// MenuItemRequest is the payload for creating or updating a menu item.
type MenuItemRequest struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Category  string          `json:"category"`
	ImageURL  *string         `json:"imageUrl,omitempty"`
	Available bool            `json:"available"`
}

// Validate checks the request fields and returns a domain error on the
// first violation.
func (r *MenuItemRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return ErrBlankItemName
	}
	if strings.TrimSpace(r.Category) == "" {
		return ErrBlankItemCategory
	}
	if r.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}
