// Package domain holds the order entity: an immutable line-item snapshot
// taken at creation time plus a status that only moves forward through the
// fulfillment state machine.
package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/shopcore/internal/pkg/apperr"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// Line is a frozen copy of (product id, name, unit price, quantity) taken
// when the order was created. Later catalog mutations do not touch it.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID              string
	UserID          string
	Lines           []Line
	Total           decimal.Decimal
	Status          Status
	CreatedAt       time.Time
	ShippingAddress string
}

// NewOrder copies the lines, fixes the total as the sum of line subtotals,
// and starts the order as Pending.
func NewOrder(id, userID string, lines []Line, shippingAddress string) *Order {
	cp := make([]Line, len(lines))
	copy(cp, lines)

	total := decimal.Zero
	for _, l := range cp {
		total = total.Add(l.Subtotal())
	}

	return &Order{
		ID:              id,
		UserID:          userID,
		Lines:           cp,
		Total:           total,
		Status:          StatusPending,
		CreatedAt:       time.Now().UTC(),
		ShippingAddress: shippingAddress,
	}
}

// Confirm moves Pending to Confirmed.
func (o *Order) Confirm() error {
	if o.Status != StatusPending {
		return apperr.Errorf(apperr.InvalidState, "only pending orders can be confirmed")
	}
	o.Status = StatusConfirmed
	return nil
}

// Ship moves Confirmed to Shipped.
func (o *Order) Ship() error {
	if o.Status != StatusConfirmed {
		return apperr.Errorf(apperr.InvalidState, "only confirmed orders can be shipped")
	}
	o.Status = StatusShipped
	return nil
}

// Deliver moves Shipped to Delivered, a terminal state.
func (o *Order) Deliver() error {
	if o.Status != StatusShipped {
		return apperr.Errorf(apperr.InvalidState, "only shipped orders can be delivered")
	}
	o.Status = StatusDelivered
	return nil
}

// Cancel is legal from Pending, Confirmed and Shipped. Delivered and
// Cancelled are terminal.
func (o *Order) Cancel() error {
	if o.Status == StatusDelivered || o.Status == StatusCancelled {
		return apperr.Errorf(apperr.InvalidState, "%s orders cannot be cancelled", o.Status)
	}
	o.Status = StatusCancelled
	return nil
}

// Clone returns a copy whose line slice is detached from the original, so
// readers never share mutable state with the store.
func (o *Order) Clone() Order {
	cp := *o
	cp.Lines = make([]Line, len(o.Lines))
	copy(cp.Lines, o.Lines)
	return cp
}
