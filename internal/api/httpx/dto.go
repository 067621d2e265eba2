package httpx

// Decimal amounts are rendered as strings so clients never round-trip money
// through floats.

type ProductRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

type ProductResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
	Category    string `json:"category"`
}

type StockUpdateRequest struct {
	Stock int `json:"stock"`
}

type CartItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type QuantityUpdateRequest struct {
	Quantity int `json:"quantity"`
}

type CartLineResponse struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type CartResponse struct {
	CartID    string             `json:"cart_id"`
	UserID    string             `json:"user_id"`
	Items     []CartLineResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     string             `json:"total"`
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
}

type OrderLineResponse struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Subtotal  string `json:"subtotal"`
}

type OrderResponse struct {
	ID              string              `json:"id"`
	UserID          string              `json:"user_id"`
	Status          string              `json:"status"`
	Total           string              `json:"total"`
	ShippingAddress string              `json:"shipping_address"`
	Items           []OrderLineResponse `json:"items"`
	CreatedAt       string              `json:"created_at"`
}

type OrderHistoryEntryResponse struct {
	From      string `json:"from,omitempty"`
	To        string `json:"to"`
	TraceID   string `json:"trace_id,omitempty"`
	ChangedAt string `json:"changed_at"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
