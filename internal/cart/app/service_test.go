package app

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogapp "github.com/jcmexdev/shopcore/internal/catalog/app"
	catalogdomain "github.com/jcmexdev/shopcore/internal/catalog/domain"
	"github.com/jcmexdev/shopcore/internal/pkg/apperr"
)

const user = "user-1"

func newServices(t *testing.T) (*catalogapp.Service, *Service) {
	t.Helper()
	catalog := catalogapp.NewService()
	require.NoError(t, catalogapp.Seed(context.Background(), catalog))
	return catalog, NewService(catalog)
}

func TestAddItemValidation(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	assert.True(t, apperr.IsInvalidArgument(carts.AddItem(ctx, user, "", 1)))
	assert.True(t, apperr.IsInvalidArgument(carts.AddItem(ctx, user, "P001", 0)))
	assert.True(t, apperr.IsInvalidArgument(carts.AddItem(ctx, user, "P001", -2)))
	assert.True(t, apperr.IsNotFound(carts.AddItem(ctx, user, "P999", 1)))
	assert.True(t, carts.IsEmpty(ctx, user))
}

func TestAddItemOutOfStock(t *testing.T) {
	catalog, carts := newServices(t)
	ctx := context.Background()

	require.NoError(t, catalog.SetStock(ctx, "P001", 0))

	err := carts.AddItem(ctx, user, "P001", 1)
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidState(err))
}

func TestAddItemExceedingStock(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	err := carts.AddItem(ctx, user, "P001", 11) // stock is 10
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))
}

func TestAddItemMergesLines(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	require.NoError(t, carts.AddItem(ctx, user, "P001", 3))
	require.NoError(t, carts.AddItem(ctx, user, "P001", 4))

	cart := carts.Cart(ctx, user)
	require.Len(t, cart.Lines, 1, "duplicate add must merge, never create a second line")
	assert.Equal(t, 7, cart.Lines[0].Quantity)
	assert.Equal(t, 7, carts.ItemCount(ctx, user))
}

func TestAddItemMergeCannotExceedStock(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	require.NoError(t, carts.AddItem(ctx, user, "P001", 6))
	err := carts.AddItem(ctx, user, "P001", 5) // 6+5 > 10
	require.Error(t, err)
	assert.True(t, apperr.IsInvalidArgument(err))

	cart := carts.Cart(ctx, user)
	require.Len(t, cart.Lines, 1)
	assert.Equal(t, 6, cart.Lines[0].Quantity, "failed merge must leave the line unchanged")
}

func TestRemoveItemIsNoOpWhenAbsent(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	assert.NoError(t, carts.RemoveItem(ctx, user, "P001"))

	require.NoError(t, carts.AddItem(ctx, user, "P001", 1))
	require.NoError(t, carts.RemoveItem(ctx, user, "P001"))
	assert.True(t, carts.IsEmpty(ctx, user))
}

func TestUpdateQuantity(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	require.NoError(t, carts.AddItem(ctx, user, "P001", 2))
	require.NoError(t, carts.UpdateQuantity(ctx, user, "P001", 9))
	assert.Equal(t, 9, carts.ItemCount(ctx, user))

	assert.True(t, apperr.IsInvalidArgument(carts.UpdateQuantity(ctx, user, "P001", 11)))
	assert.True(t, apperr.IsInvalidArgument(carts.UpdateQuantity(ctx, user, "P001", 0)))
	assert.True(t, apperr.IsNotFound(carts.UpdateQuantity(ctx, user, "P002", 1)))
}

func TestTotalUsesLivePrices(t *testing.T) {
	catalog, carts := newServices(t)
	ctx := context.Background()

	require.NoError(t, carts.AddItem(ctx, user, "P001", 2)) // 999.99 each

	total, err := carts.Total(ctx, user)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1999.98")), "got %s", total)

	// A price change is visible immediately: the cart holds no snapshot.
	require.NoError(t, catalog.Add(ctx, catalogdomain.Product{
		ID: "P001", Name: "Laptop", Description: "High-performance laptop",
		Price: decimal.RequireFromString("899.99"), Stock: 10, Category: "Electronics",
	}))

	total, err = carts.Total(ctx, user)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("1799.98")), "got %s", total)
}

func TestClear(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	require.NoError(t, carts.AddItem(ctx, user, "P001", 2))
	require.NoError(t, carts.AddItem(ctx, user, "P004", 1))
	carts.Clear(ctx, user)

	assert.True(t, carts.IsEmpty(ctx, user))
	assert.Equal(t, 0, carts.ItemCount(ctx, user))
}

func TestCartsAreIsolatedPerUser(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	require.NoError(t, carts.AddItem(ctx, "alice", "P001", 2))
	require.NoError(t, carts.AddItem(ctx, "bob", "P001", 3))

	assert.Equal(t, 2, carts.ItemCount(ctx, "alice"))
	assert.Equal(t, 3, carts.ItemCount(ctx, "bob"))
	assert.NotEqual(t, carts.Cart(ctx, "alice").ID, carts.Cart(ctx, "bob").ID)
}

func TestCartSnapshotIsDetached(t *testing.T) {
	_, carts := newServices(t)
	ctx := context.Background()

	require.NoError(t, carts.AddItem(ctx, user, "P001", 2))
	snapshot := carts.Cart(ctx, user)
	snapshot.Lines[0].Quantity = 99

	assert.Equal(t, 2, carts.ItemCount(ctx, user))
}
