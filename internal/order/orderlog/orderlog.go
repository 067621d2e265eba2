// Package orderlog defines the order status audit trail.
//
// Every status transition an order goes through (including creation, which
// is recorded as a transition into PENDING) is appended as one immutable
// entry. Orders are never deleted, and this log is the queryable history of
// how each one reached its current state. Each entry carries the trace and
// span ids active when it was written, so a row can be correlated with the
// distributed trace that produced it.
package orderlog

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/jcmexdev/shopcore/internal/order/domain"
)

// Entry is one row in the audit trail. From is empty for the creation entry.
type Entry struct {
	OrderID string
	From    domain.Status
	To      domain.Status
	TraceID string
	SpanID  string
	At      time.Time
}

// Repository is the port for appending entries. The order service depends on
// this abstraction, not on SQLite directly, so the implementation can be
// swapped (in-memory for tests, Postgres later).
type Repository interface {
	// Save appends one entry. The log is append-only, never upserted.
	Save(ctx context.Context, e *Entry) error
}

// Reader is the query side, implemented by stores that can list a single
// order's history in write order.
type Reader interface {
	ForOrder(ctx context.Context, orderID string) ([]Entry, error)
}

// NewEntry builds an entry stamped with the wall clock and with the trace
// and span ids of the active OpenTelemetry span in ctx, if any. Without an
// active span (unit tests, plain CLI use) both ids are empty strings.
func NewEntry(ctx context.Context, orderID string, from, to domain.Status) *Entry {
	e := &Entry{
		OrderID: orderID,
		From:    from,
		To:      to,
		At:      time.Now().UTC(),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		e.TraceID = sc.TraceID().String()
		e.SpanID = sc.SpanID().String()
	}
	return e
}
