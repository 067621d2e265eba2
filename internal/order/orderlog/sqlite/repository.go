// Package sqlite provides a SQLite-backed implementation of the order log.
//
// WAL mode is enabled on Open so readers never block the writer: the order
// service appends entries while the history endpoint may be reading.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jcmexdev/shopcore/internal/order/domain"
	"github.com/jcmexdev/shopcore/internal/order/orderlog"

	// Pure-Go SQLite driver, no CGO required.
	_ "modernc.org/sqlite"
)

// The table is append-only: one immutable row per status transition.
// SQLite has no native datetime type; timestamps are RFC3339 TEXT.
const schema = `
CREATE TABLE IF NOT EXISTS order_status_log (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id    TEXT NOT NULL,
    from_status TEXT NOT NULL DEFAULT '',
    to_status   TEXT NOT NULL,
    trace_id    TEXT NOT NULL DEFAULT '',
    span_id     TEXT NOT NULL DEFAULT '',
    changed_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_order_status_log_order_id
    ON order_status_log(order_id, id);

CREATE INDEX IF NOT EXISTS idx_order_status_log_trace_id
    ON order_status_log(trace_id);
`

// Repository implements orderlog.Repository and orderlog.Reader.
type Repository struct {
	db *sql.DB
}

var (
	_ orderlog.Repository = (*Repository)(nil)
	_ orderlog.Reader     = (*Repository)(nil)
)

// Open opens (or creates) the database at path and applies the schema.
// busy_timeout makes concurrent writers wait for the lock instead of
// failing immediately.
func Open(path string) (*Repository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("orderlog: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("orderlog: apply schema: %w", err)
	}
	return &Repository{db: db}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Save appends one entry.
func (r *Repository) Save(ctx context.Context, e *orderlog.Entry) error {
	const q = `
INSERT INTO order_status_log (order_id, from_status, to_status, trace_id, span_id, changed_at)
VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, q,
		e.OrderID,
		string(e.From),
		string(e.To),
		e.TraceID,
		e.SpanID,
		e.At.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("orderlog: save entry for %s: %w", e.OrderID, err)
	}
	return nil
}

// ForOrder lists the order's entries in the order they were written.
func (r *Repository) ForOrder(ctx context.Context, orderID string) ([]orderlog.Entry, error) {
	const q = `
SELECT order_id, from_status, to_status, trace_id, span_id, changed_at
FROM order_status_log
WHERE order_id = ?
ORDER BY id`

	rows, err := r.db.QueryContext(ctx, q, orderID)
	if err != nil {
		return nil, fmt.Errorf("orderlog: query %s: %w", orderID, err)
	}
	defer rows.Close()

	var out []orderlog.Entry
	for rows.Next() {
		var e orderlog.Entry
		var from, to, changedAt string
		if err := rows.Scan(&e.OrderID, &from, &to, &e.TraceID, &e.SpanID, &changedAt); err != nil {
			return nil, fmt.Errorf("orderlog: scan row: %w", err)
		}
		e.From = domain.Status(from)
		e.To = domain.Status(to)
		e.At, err = parseRFC3339(changedAt)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func parseRFC3339(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("orderlog: parse time %q: %w", s, err)
	}
	return t, nil
}
