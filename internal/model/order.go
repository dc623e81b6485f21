package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartLine is one merged entry in a customer's cart. Name and price are
// captured when the item is first added, so later menu edits never change
// what the customer saw.
type CartLine struct {
	ItemID       uuid.UUID       `json:"itemId"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Quantity     int             `json:"quantity"`
	Instructions string          `json:"instructions"`
}

// Subtotal returns price multiplied by quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a persisted checkout. Its lines are frozen at creation; only
// the status changes afterwards, and orders are never deleted.
type Order struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CustomerName    string    `json:"customerName" db:"customer_name"`
	CustomerContact string    `json:"customerContact" db:"customer_contact"`
	Status          Status    `json:"status" db:"status"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
}

// OrderLine is a frozen copy of a cart line, decoupled from the menu item
// it came from so catalog edits and deletions never touch history. LineNo
// preserves the cart's insertion order across reads.
type OrderLine struct {
	ID           uuid.UUID       `json:"-" db:"id"`
	OrderID      uuid.UUID       `json:"-" db:"order_id"`
	LineNo       int             `json:"-" db:"line_no"`
	ItemName     string          `json:"itemName" db:"item_name"`
	ItemPrice    decimal.Decimal `json:"itemPrice" db:"item_price"`
	Quantity     int             `json:"quantity" db:"quantity"`
	Instructions string          `json:"instructions,omitempty" db:"instructions"`
}

// OrderDetail bundles an order with its lines for API responses.
type OrderDetail struct {
	Order Order       `json:"order"`
	Lines []OrderLine `json:"lines"`
}

// Total returns the exact sum of line subtotals.
func (d *OrderDetail) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range d.Lines {
		total = total.Add(l.ItemPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}

// PlaceOrderRequest is the checkout payload.
type PlaceOrderRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerContact string `json:"customerContact"`
}
