package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/shopcore/internal/order/domain"
	"github.com/jcmexdev/shopcore/internal/order/orderlog"
)

func openTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "orders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSaveAndReadBack(t *testing.T) {
	ctx := context.Background()
	repo := openTestRepo(t)

	at := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	entries := []orderlog.Entry{
		{OrderID: "ORD000001", From: "", To: domain.StatusPending, TraceID: "4bf92f3577b34da6a3ce929d0e0e4736", SpanID: "00f067aa0ba902b7", At: at},
		{OrderID: "ORD000001", From: domain.StatusPending, To: domain.StatusConfirmed, At: at.Add(time.Minute)},
		{OrderID: "ORD000002", From: "", To: domain.StatusPending, At: at.Add(2 * time.Minute)},
	}
	for i := range entries {
		require.NoError(t, repo.Save(ctx, &entries[i]))
	}

	got, err := repo.ForOrder(ctx, "ORD000001")
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, domain.StatusPending, got[0].To)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", got[0].TraceID)
	assert.Equal(t, "00f067aa0ba902b7", got[0].SpanID)
	assert.True(t, got[0].At.Equal(at))
	assert.Equal(t, domain.StatusPending, got[1].From)
	assert.Equal(t, domain.StatusConfirmed, got[1].To)
}

func TestForOrderUnknownIDIsEmpty(t *testing.T) {
	repo := openTestRepo(t)

	got, err := repo.ForOrder(context.Background(), "ORD999999")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.db")

	repo, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), &orderlog.Entry{
		OrderID: "ORD000001", To: domain.StatusPending, At: time.Now().UTC(),
	}))
	require.NoError(t, repo.Close())

	// Reopening applies the schema again and keeps existing rows.
	repo, err = Open(path)
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.ForOrder(context.Background(), "ORD000001")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
