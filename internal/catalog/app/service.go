// Package app implements the catalog service: the authoritative store of
// products and their stock counters. All stock mutations go through the
// service's single lock, so a reservation can validate and debit every
// requested line without another caller interleaving.
package app

import (
	"context"
	"strings"
	"sync"

	"github.com/jcmexdev/shopcore/internal/catalog/domain"
	"github.com/jcmexdev/shopcore/internal/pkg/apperr"
)

// Reservation is one line of a stock reservation or release.
type Reservation struct {
	ProductID string
	Quantity  int
}

// Service owns the product store. The zero value is not usable; construct
// with NewService.
type Service struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	ids      []string // insertion order, so listings are stable
}

func NewService() *Service {
	return &Service{products: make(map[string]*domain.Product)}
}

// Add inserts the product, overwriting any existing product with the same id.
func (s *Service) Add(ctx context.Context, p domain.Product) error {
	if p.ID == "" {
		return apperr.Errorf(apperr.InvalidArgument, "product id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[p.ID]; !ok {
		s.ids = append(s.ids, p.ID)
	}
	cp := p
	s.products[p.ID] = &cp
	return nil
}

// Product returns a snapshot copy of the product with the given id.
func (s *Service) Product(ctx context.Context, id string) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return domain.Product{}, apperr.Errorf(apperr.NotFound, "product not found: %s", id)
	}
	return *p, nil
}

// List returns snapshots of every product in insertion order.
func (s *Service) List(ctx context.Context) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(domain.Product) bool { return true })
}

// ListByCategory matches the category case-insensitively. An unknown
// category yields an empty result, not an error.
func (s *Service) ListByCategory(ctx context.Context, category string) []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p domain.Product) bool {
		return strings.EqualFold(p.Category, category)
	})
}

// Search does a case-insensitive substring match over name and description.
func (s *Service) Search(ctx context.Context, keyword string) []domain.Product {
	kw := strings.ToLower(keyword)
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.collect(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), kw) ||
			strings.Contains(strings.ToLower(p.Description), kw)
	})
}

// collect must be called with at least the read lock held.
func (s *Service) collect(match func(domain.Product) bool) []domain.Product {
	out := make([]domain.Product, 0, len(s.ids))
	for _, id := range s.ids {
		if p := s.products[id]; match(*p) {
			out = append(out, *p)
		}
	}
	return out
}

// Available reports whether the product has at least quantity units in stock.
func (s *Service) Available(ctx context.Context, id string, quantity int) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, ok := s.products[id]
	if !ok {
		return false, apperr.Errorf(apperr.NotFound, "product not found: %s", id)
	}
	return p.Stock >= quantity, nil
}

// DebitStock decrements the product's stock counter.
func (s *Service) DebitStock(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return apperr.Errorf(apperr.NotFound, "product not found: %s", id)
	}
	if quantity < 0 {
		return apperr.Errorf(apperr.InvalidArgument, "quantity cannot be negative")
	}
	if quantity > p.Stock {
		return apperr.Errorf(apperr.InvalidArgument, "insufficient stock for %s: available %d, requested %d", id, p.Stock, quantity)
	}
	p.Stock -= quantity
	return nil
}

// CreditStock increments the product's stock counter.
func (s *Service) CreditStock(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return apperr.Errorf(apperr.NotFound, "product not found: %s", id)
	}
	if quantity < 0 {
		return apperr.Errorf(apperr.InvalidArgument, "quantity cannot be negative")
	}
	p.Stock += quantity
	return nil
}

// SetStock overwrites the stock counter, for administrative correction.
func (s *Service) SetStock(ctx context.Context, id string, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[id]
	if !ok {
		return apperr.Errorf(apperr.NotFound, "product not found: %s", id)
	}
	if quantity < 0 {
		return apperr.Errorf(apperr.InvalidArgument, "quantity cannot be negative")
	}
	p.Stock = quantity
	return nil
}

// Remove deletes the product from the catalog.
func (s *Service) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.products[id]; !ok {
		return apperr.Errorf(apperr.NotFound, "product not found: %s", id)
	}
	delete(s.products, id)
	for i, existing := range s.ids {
		if existing == id {
			s.ids = append(s.ids[:i], s.ids[i+1:]...)
			break
		}
	}
	return nil
}

// Reserve validates every requested line and then debits every line inside
// one lock acquisition. Two concurrent reservations against the same product
// therefore cannot both pass validation and jointly overdraw stock, and a
// failed reservation leaves every counter untouched.
//
// On success it returns a snapshot of each reserved product, taken under the
// same lock, in the order the lines were given.
func (s *Service) Reserve(ctx context.Context, lines []Reservation) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, apperr.Errorf(apperr.InvalidArgument, "reservation quantity must be positive")
		}
		p, ok := s.products[l.ProductID]
		if !ok {
			return nil, apperr.Errorf(apperr.NotFound, "product not found: %s", l.ProductID)
		}
		if p.Stock < l.Quantity {
			return nil, apperr.Errorf(apperr.InvalidState, "insufficient stock for product: %s", p.Name)
		}
	}

	snapshots := make([]domain.Product, 0, len(lines))
	for _, l := range lines {
		p := s.products[l.ProductID]
		p.Stock -= l.Quantity
		snapshots = append(snapshots, *p)
	}
	return snapshots, nil
}

// Release credits reserved quantities back, the compensation for Reserve.
// Products removed from the catalog since the reservation are skipped:
// there is no counter left to credit.
func (s *Service) Release(ctx context.Context, lines []Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range lines {
		if l.Quantity < 0 {
			return apperr.Errorf(apperr.InvalidArgument, "release quantity cannot be negative")
		}
	}
	for _, l := range lines {
		if p, ok := s.products[l.ProductID]; ok {
			p.Stock += l.Quantity
		}
	}
	return nil
}
