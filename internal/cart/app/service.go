// Package app manages per-user shopping carts. Every mutation validates the
// requested quantity against live catalog stock; the cart itself stores only
// product ids and quantities.
package app

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	cartdomain "github.com/jcmexdev/shopcore/internal/cart/domain"
	catalogdomain "github.com/jcmexdev/shopcore/internal/catalog/domain"
	"github.com/jcmexdev/shopcore/internal/pkg/apperr"
)

// ProductSource resolves product snapshots by id. Satisfied by the catalog
// service.
type ProductSource interface {
	Product(ctx context.Context, id string) (catalogdomain.Product, error)
}

// Service owns the cart registry, one cart per user id, created on first use.
type Service struct {
	mu      sync.RWMutex
	catalog ProductSource
	carts   map[string]*cartdomain.Cart
}

func NewService(catalog ProductSource) *Service {
	return &Service{
		catalog: catalog,
		carts:   make(map[string]*cartdomain.Cart),
	}
}

// cartFor must be called with the write lock held.
func (s *Service) cartFor(userID string) *cartdomain.Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = cartdomain.NewCart(userID)
		s.carts[userID] = c
	}
	return c
}

// Cart returns a snapshot of the user's cart. A user without a cart gets an
// empty one.
func (s *Service) Cart(ctx context.Context, userID string) cartdomain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartFor(userID).Clone()
}

// AddItem puts quantity units of the product in the user's cart, merging
// into an existing line if one exists. The requested quantity (including an
// existing line's) must not exceed the product's current stock.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) error {
	if productID == "" {
		return apperr.Errorf(apperr.InvalidArgument, "product id is required")
	}
	if quantity <= 0 {
		return apperr.Errorf(apperr.InvalidArgument, "quantity must be positive")
	}

	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return err
	}
	if !p.InStock() {
		return apperr.Errorf(apperr.InvalidState, "product is out of stock: %s", p.Name)
	}
	if quantity > p.Stock {
		return apperr.Errorf(apperr.InvalidArgument, "requested quantity exceeds available stock")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(userID)
	if i := c.LineIndex(productID); i >= 0 {
		merged := c.Lines[i].Quantity + quantity
		if merged > p.Stock {
			return apperr.Errorf(apperr.InvalidArgument, "total quantity exceeds available stock")
		}
		c.Lines[i].Quantity = merged
		return nil
	}
	c.Lines = append(c.Lines, cartdomain.Line{ProductID: productID, Quantity: quantity})
	return nil
}

// RemoveItem drops the line for productID. Removing an absent line is a
// no-op, not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(userID)
	if i := c.LineIndex(productID); i >= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	}
	return nil
}

// UpdateQuantity replaces the line's quantity, validated against live stock.
func (s *Service) UpdateQuantity(ctx context.Context, userID, productID string, quantity int) error {
	if quantity <= 0 {
		return apperr.Errorf(apperr.InvalidArgument, "quantity must be positive")
	}

	p, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return err
	}
	if quantity > p.Stock {
		return apperr.Errorf(apperr.InvalidArgument, "requested quantity exceeds available stock")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.cartFor(userID)
	i := c.LineIndex(productID)
	if i < 0 {
		return apperr.Errorf(apperr.NotFound, "product not in cart: %s", productID)
	}
	c.Lines[i].Quantity = quantity
	return nil
}

// Clear empties the user's cart.
func (s *Service) Clear(ctx context.Context, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cartFor(userID).Lines = nil
}

// Total sums quantity times the product's current unit price over all lines.
// Prices are read live from the catalog, not from a snapshot.
func (s *Service) Total(ctx context.Context, userID string) (decimal.Decimal, error) {
	cart := s.Cart(ctx, userID)

	total := decimal.Zero
	for _, l := range cart.Lines {
		p, err := s.catalog.Product(ctx, l.ProductID)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total, nil
}

// ItemCount is the sum of line quantities in the user's cart.
func (s *Service) ItemCount(ctx context.Context, userID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartFor(userID).ItemCount()
}

func (s *Service) IsEmpty(ctx context.Context, userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cartFor(userID).IsEmpty()
}
