// Package app implements the order workflow: converting a validated cart
// into an order snapshot while debiting catalog stock, driving the order
// through its status state machine, and crediting stock back on
// cancellation.
package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	cartdomain "github.com/jcmexdev/shopcore/internal/cart/domain"
	catalogapp "github.com/jcmexdev/shopcore/internal/catalog/app"
	catalogdomain "github.com/jcmexdev/shopcore/internal/catalog/domain"
	"github.com/jcmexdev/shopcore/internal/order/domain"
	"github.com/jcmexdev/shopcore/internal/order/orderlog"
	"github.com/jcmexdev/shopcore/internal/pkg/apperr"
)

// Stock is the catalog port the workflow needs: atomic reservation of a set
// of lines and the compensating release. Satisfied by the catalog service.
type Stock interface {
	Reserve(ctx context.Context, lines []catalogapp.Reservation) ([]catalogdomain.Product, error)
	Release(ctx context.Context, lines []catalogapp.Reservation) error
}

// Service owns the order store and the id sequence. Orders are kept forever;
// they are the audit history of the shop.
type Service struct {
	mu      sync.RWMutex
	catalog Stock
	orders  map[string]*domain.Order
	ids     []string // insertion order
	nextSeq int

	// log may be nil, in which case status transitions are not persisted
	// to the audit trail.
	log orderlog.Repository
}

func NewService(catalog Stock, log orderlog.Repository) *Service {
	return &Service{
		catalog: catalog,
		orders:  make(map[string]*domain.Order),
		nextSeq: 1,
		log:     log,
	}
}

// Create turns the cart into a Pending order. It reserves stock for every
// cart line in one atomic catalog operation, so either all lines are debited
// or none are; the order snapshot is built from product state captured under
// that same reservation. The cart itself is left untouched — clearing it
// after checkout is the caller's convention.
func (s *Service) Create(ctx context.Context, cart cartdomain.Cart, shippingAddress string) (domain.Order, error) {
	if cart.IsEmpty() {
		return domain.Order{}, apperr.Errorf(apperr.InvalidArgument, "cannot create order from empty cart")
	}
	if strings.TrimSpace(shippingAddress) == "" {
		return domain.Order{}, apperr.Errorf(apperr.InvalidArgument, "shipping address is required")
	}

	reservations := make([]catalogapp.Reservation, len(cart.Lines))
	for i, l := range cart.Lines {
		reservations[i] = catalogapp.Reservation{ProductID: l.ProductID, Quantity: l.Quantity}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	products, err := s.catalog.Reserve(ctx, reservations)
	if err != nil {
		return domain.Order{}, err
	}

	lines := make([]domain.Line, len(cart.Lines))
	for i, l := range cart.Lines {
		lines[i] = domain.Line{
			ProductID: l.ProductID,
			Name:      products[i].Name,
			UnitPrice: products[i].Price,
			Quantity:  l.Quantity,
		}
	}

	id := fmt.Sprintf("ORD%06d", s.nextSeq)
	s.nextSeq++

	o := domain.NewOrder(id, cart.UserID, lines, strings.TrimSpace(shippingAddress))
	s.orders[id] = o
	s.ids = append(s.ids, id)

	s.logTransition(ctx, id, "", domain.StatusPending)
	return o.Clone(), nil
}

// Order returns a snapshot of the order with the given id.
func (s *Service) Order(ctx context.Context, id string) (domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, apperr.Errorf(apperr.NotFound, "order not found: %s", id)
	}
	return o.Clone(), nil
}

// OrdersForUser returns every order owned by userID, any status, in
// creation order.
func (s *Service) OrdersForUser(ctx context.Context, userID string) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Order
	for _, id := range s.ids {
		if o := s.orders[id]; o.UserID == userID {
			out = append(out, o.Clone())
		}
	}
	return out
}

// List returns every order in creation order.
func (s *Service) List(ctx context.Context) []domain.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Order, 0, len(s.ids))
	for _, id := range s.ids {
		out = append(out, s.orders[id].Clone())
	}
	return out
}

// Count reports how many orders exist, any status.
func (s *Service) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.orders)
}

// Confirm moves the order from Pending to Confirmed.
func (s *Service) Confirm(ctx context.Context, id string) (domain.Order, error) {
	return s.transition(ctx, id, (*domain.Order).Confirm)
}

// Ship moves the order from Confirmed to Shipped.
func (s *Service) Ship(ctx context.Context, id string) (domain.Order, error) {
	return s.transition(ctx, id, (*domain.Order).Ship)
}

// Deliver moves the order from Shipped to Delivered.
func (s *Service) Deliver(ctx context.Context, id string) (domain.Order, error) {
	return s.transition(ctx, id, (*domain.Order).Deliver)
}

// Cancel applies the cancel transition and credits the frozen snapshot
// quantities back to the catalog. The transition guard makes the credit
// happen exactly once: a second Cancel fails before any stock is touched.
func (s *Service) Cancel(ctx context.Context, id string) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, apperr.Errorf(apperr.NotFound, "order not found: %s", id)
	}

	from := o.Status
	if err := o.Cancel(); err != nil {
		return domain.Order{}, err
	}

	releases := make([]catalogapp.Reservation, len(o.Lines))
	for i, l := range o.Lines {
		releases[i] = catalogapp.Reservation{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	if err := s.catalog.Release(ctx, releases); err != nil {
		return domain.Order{}, err
	}

	s.logTransition(ctx, id, from, o.Status)
	return o.Clone(), nil
}

func (s *Service) transition(ctx context.Context, id string, apply func(*domain.Order) error) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return domain.Order{}, apperr.Errorf(apperr.NotFound, "order not found: %s", id)
	}

	from := o.Status
	if err := apply(o); err != nil {
		return domain.Order{}, err
	}

	s.logTransition(ctx, id, from, o.Status)
	return o.Clone(), nil
}

// logTransition appends to the audit trail. Failures do not fail the
// business operation; the store already reflects the transition.
func (s *Service) logTransition(ctx context.Context, id string, from, to domain.Status) {
	if s.log == nil {
		return
	}
	_ = s.log.Save(ctx, orderlog.NewEntry(ctx, id, from, to))
}
