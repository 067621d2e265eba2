package domain

import "github.com/google/uuid"

// Line references a catalog product by id. The cart never holds a product
// copy: prices and stock are always re-resolved through the catalog, so the
// catalog stays the single source of truth until checkout freezes a snapshot
// into an order.
type Line struct {
	ProductID string
	Quantity  int
}

// Cart is a per-user staging list of desired items. At most one line exists
// per product id; adding the same product again merges quantities.
type Cart struct {
	ID     uuid.UUID
	UserID string
	Lines  []Line
}

func NewCart(userID string) *Cart {
	return &Cart{ID: uuid.New(), UserID: userID}
}

// LineIndex returns the index of the line for productID, or -1.
func (c *Cart) LineIndex(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// ItemCount is the sum of all line quantities.
func (c *Cart) ItemCount() int {
	total := 0
	for _, l := range c.Lines {
		total += l.Quantity
	}
	return total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// Clone returns a copy whose line slice is detached from the original.
func (c *Cart) Clone() Cart {
	cp := *c
	cp.Lines = make([]Line, len(c.Lines))
	copy(cp.Lines, c.Lines)
	return cp
}
