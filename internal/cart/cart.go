package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"canteen-counter/internal/model"
)

// Cart aggregates a single customer's pre-checkout selections. It holds at
// most one line per menu item; adding an item that is already present merges
// into the existing line instead of duplicating it. A session can issue
// requests in parallel (two tabs, a double-clicked button), so every method
// takes the cart's own lock.
type Cart struct {
	mu    sync.Mutex
	lines []model.CartLine
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{}
}

// Add merges one unit of the given item into the cart. An existing line for
// the same item id gains quantity; otherwise a new line is created capturing
// the item's current name and price.
func (c *Cart) Add(item model.MenuItem) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == item.ID {
			c.lines[i].Quantity++
			return
		}
	}
	c.lines = append(c.lines, model.CartLine{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
	})
}

// Decrement reduces the matching line's quantity by one, removing the line
// when it reaches zero. A missing line is a no-op.
func (c *Cart) Decrement(itemID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID != itemID {
			continue
		}
		if c.lines[i].Quantity <= 1 {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
		} else {
			c.lines[i].Quantity--
		}
		return
	}
}

// Remove deletes the matching line regardless of quantity.
func (c *Cart) Remove(itemID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetInstructions replaces the freeform instructions on the matching line.
// A missing line is a no-op.
func (c *Cart) SetInstructions(itemID uuid.UUID, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Instructions = text
			return
		}
	}
}

// Quantity returns the current quantity for an item, zero if absent.
func (c *Cart) Quantity(itemID uuid.UUID) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			return c.lines[i].Quantity
		}
	}
	return 0
}

// Total computes the exact sum of price times quantity over all lines. It is
// recomputed on every call; nothing is cached.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Snapshot returns a copy of the lines in insertion order, suitable for
// freezing into an order. The cart itself is left untouched; Clear is a
// separate step taken only after the order has persisted.
func (c *Cart) Snapshot() []model.CartLine {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]model.CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lines) == 0
}

// Len returns the number of distinct lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.lines)
}
