package httpx

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	cartapp "github.com/jcmexdev/shopcore/internal/cart/app"
	catalogapp "github.com/jcmexdev/shopcore/internal/catalog/app"
	catalogdomain "github.com/jcmexdev/shopcore/internal/catalog/domain"
	orderapp "github.com/jcmexdev/shopcore/internal/order/app"
	orderdomain "github.com/jcmexdev/shopcore/internal/order/domain"
	"github.com/jcmexdev/shopcore/internal/order/orderlog"
	"github.com/jcmexdev/shopcore/internal/pkg/apperr"
	"github.com/jcmexdev/shopcore/internal/pkg/cache"
)

const listCacheTTL = 30 * time.Second

// Handler exposes the catalog, cart and order operations over HTTP.
type Handler struct {
	catalog *catalogapp.Service
	carts   *cartapp.Service
	orders  *orderapp.Service

	// history may be nil: the order history endpoint then reports the
	// feature as unavailable.
	history orderlog.Reader

	// cache may be nil: catalog reads are then always computed.
	cache cache.Cache
}

func NewHandler(
	catalog *catalogapp.Service,
	carts *cartapp.Service,
	orders *orderapp.Service,
	history orderlog.Reader,
	c cache.Cache,
) *Handler {
	return &Handler{
		catalog: catalog,
		carts:   carts,
		orders:  orders,
		history: history,
		cache:   c,
	}
}

// --- catalog ---

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	h.cachedList(w, r, h.cacheKey("products", "all"), func() any {
		return mapProducts(h.catalog.List(r.Context()))
	})
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.catalog.Product(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	h.cachedList(w, r, h.cacheKey("search", q), func() any {
		return mapProducts(h.catalog.Search(r.Context(), q))
	})
}

func (h *Handler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	category := chi.URLParam(r, "category")
	h.cachedList(w, r, h.cacheKey("category", category), func() any {
		return mapProducts(h.catalog.ListByCategory(r.Context(), category))
	})
}

func (h *Handler) AddProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_price", err.Error())
		return
	}
	if req.Stock < 0 {
		writeError(w, http.StatusBadRequest, "invalid_stock", "stock cannot be negative")
		return
	}

	p := catalogdomain.Product{
		ID:          req.ID,
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		Stock:       req.Stock,
		Category:    req.Category,
	}
	if err := h.catalog.Add(r.Context(), p); err != nil {
		writeDomainError(w, err)
		return
	}

	h.invalidateProducts(r)
	writeJSON(w, http.StatusCreated, mapProduct(p))
}

func (h *Handler) UpdateStock(w http.ResponseWriter, r *http.Request) {
	var req StockUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.catalog.SetStock(r.Context(), id, req.Stock); err != nil {
		writeDomainError(w, err)
		return
	}

	h.invalidateProducts(r)
	p, err := h.catalog.Product(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapProduct(p))
}

func (h *Handler) RemoveProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Remove(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	h.invalidateProducts(r)
	w.WriteHeader(http.StatusNoContent)
}

// --- cart ---

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	total, err := h.carts.Total(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapCart(r, userID, total))
}

func (h *Handler) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req CartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.carts.AddItem(r.Context(), userID, req.ProductID, req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}

	total, err := h.carts.Total(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapCart(r, userID, total))
}

func (h *Handler) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	var req QuantityUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	userID := chi.URLParam(r, "userID")
	if err := h.carts.UpdateQuantity(r.Context(), userID, chi.URLParam(r, "productID"), req.Quantity); err != nil {
		writeDomainError(w, err)
		return
	}

	total, err := h.carts.Total(r.Context(), userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, h.mapCart(r, userID, total))
}

func (h *Handler) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.carts.RemoveItem(r.Context(), userID, chi.URLParam(r, "productID")); err != nil {
		writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.carts.Clear(r.Context(), chi.URLParam(r, "userID"))
	w.WriteHeader(http.StatusNoContent)
}

// --- orders ---

// Checkout creates an order from the user's cart and clears the cart on
// success, the post-checkout convention.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	userID := chi.URLParam(r, "userID")
	cart := h.carts.Cart(r.Context(), userID)

	order, err := h.orders.Create(r.Context(), cart, req.ShippingAddress)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	h.carts.Clear(r.Context(), userID)
	slog.InfoContext(r.Context(), "order created",
		"order_id", order.ID, "user_id", userID, "total", order.Total.String())

	writeJSON(w, http.StatusCreated, mapOrder(order))
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.Order(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, mapOrders(h.orders.List(r.Context())))
}

func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	orders := h.orders.OrdersForUser(r.Context(), chi.URLParam(r, "userID"))
	writeJSON(w, http.StatusOK, mapOrders(orders))
}

func (h *Handler) ConfirmOrder(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.orders.Confirm)
}

func (h *Handler) ShipOrder(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.orders.Ship)
}

func (h *Handler) DeliverOrder(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.orders.Deliver)
}

func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.orders.Cancel)
}

func (h *Handler) OrderHistory(w http.ResponseWriter, r *http.Request) {
	if h.history == nil {
		writeError(w, http.StatusNotFound, "history_unavailable", "order history is not enabled")
		return
	}

	id := chi.URLParam(r, "id")
	if _, err := h.orders.Order(r.Context(), id); err != nil {
		writeDomainError(w, err)
		return
	}

	entries, err := h.history.ForOrder(r.Context(), id)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "history_error", err.Error())
		return
	}

	out := make([]OrderHistoryEntryResponse, len(entries))
	for i, e := range entries {
		out[i] = OrderHistoryEntryResponse{
			From:      string(e.From),
			To:        string(e.To),
			TraceID:   e.TraceID,
			ChangedAt: e.At.Format(time.RFC3339Nano),
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) applyTransition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, id string) (orderdomain.Order, error)) {
	o, err := op(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, mapOrder(o))
}

// --- helpers ---

// cachedList serves the response from the cache when possible, otherwise
// computes it and stores the rendered JSON with a short TTL.
func (h *Handler) cachedList(w http.ResponseWriter, r *http.Request, key string, compute func() any) {
	if h.cache != nil {
		if cached, err := h.cache.Get(r.Context(), key); err == nil && cached != "" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(cached))
			return
		}
	}

	v := compute()
	body, err := json.Marshal(v)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "encoding_error", err.Error())
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), key, string(body), listCacheTTL); err != nil {
			slog.WarnContext(r.Context(), "cache set failed", "key", key, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func (h *Handler) cacheKey(operation, key string) string {
	if h.cache == nil {
		return operation + ":" + key
	}
	return h.cache.GenerateKey(operation, key)
}

// invalidateProducts drops the full-listing cache entry after an admin
// write. Search and category keys are left to expire by TTL.
func (h *Handler) invalidateProducts(r *http.Request) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Del(r.Context(), h.cacheKey("products", "all")); err != nil {
		slog.WarnContext(r.Context(), "cache invalidation failed", "error", err)
	}
}

func (h *Handler) mapCart(r *http.Request, userID string, total decimal.Decimal) CartResponse {
	cart := h.carts.Cart(r.Context(), userID)

	items := make([]CartLineResponse, len(cart.Lines))
	for i, l := range cart.Lines {
		items[i] = CartLineResponse{ProductID: l.ProductID, Quantity: l.Quantity}
	}
	return CartResponse{
		CartID:    cart.ID.String(),
		UserID:    cart.UserID,
		Items:     items,
		ItemCount: cart.ItemCount(),
		Total:     total.String(),
	}
}

func mapProduct(p catalogdomain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price.String(),
		Stock:       p.Stock,
		Category:    p.Category,
	}
}

func mapProducts(products []catalogdomain.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = mapProduct(p)
	}
	return out
}

func mapOrder(o orderdomain.Order) OrderResponse {
	items := make([]OrderLineResponse, len(o.Lines))
	for i, l := range o.Lines {
		items[i] = OrderLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice.String(),
			Quantity:  l.Quantity,
			Subtotal:  l.Subtotal().String(),
		}
	}
	return OrderResponse{
		ID:              o.ID,
		UserID:          o.UserID,
		Status:          string(o.Status),
		Total:           o.Total.String(),
		ShippingAddress: o.ShippingAddress,
		Items:           items,
		CreatedAt:       o.CreatedAt.Format(time.RFC3339),
	}
}

func mapOrders(orders []orderdomain.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i, o := range orders {
		out[i] = mapOrder(o)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

// writeDomainError maps the error taxonomy onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	status := http.StatusInternalServerError
	switch kind {
	case apperr.InvalidArgument:
		status = http.StatusBadRequest
	case apperr.NotFound:
		status = http.StatusNotFound
	case apperr.InvalidState:
		status = http.StatusConflict
	}
	writeError(w, status, kind.String(), err.Error())
}
