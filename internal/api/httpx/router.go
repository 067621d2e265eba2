package httpx

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(EchoRequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Route("/products", func(r chi.Router) {
		r.Get("/", handler.ListProducts)
		r.Post("/", handler.AddProduct)
		r.Get("/search", handler.SearchProducts)
		r.Get("/category/{category}", handler.ListProductsByCategory)
		r.Get("/{id}", handler.GetProduct)
		r.Put("/{id}/stock", handler.UpdateStock)
		r.Delete("/{id}", handler.RemoveProduct)
	})

	r.Route("/carts/{userID}", func(r chi.Router) {
		r.Get("/", handler.GetCart)
		r.Delete("/", handler.ClearCart)
		r.Post("/items", handler.AddCartItem)
		r.Put("/items/{productID}", handler.UpdateCartItem)
		r.Delete("/items/{productID}", handler.RemoveCartItem)
	})

	r.Post("/checkout/{userID}", handler.Checkout)

	r.Route("/orders", func(r chi.Router) {
		r.Get("/", handler.ListOrders)
		r.Get("/{id}", handler.GetOrder)
		r.Get("/{id}/history", handler.OrderHistory)
		r.Post("/{id}/confirm", handler.ConfirmOrder)
		r.Post("/{id}/ship", handler.ShipOrder)
		r.Post("/{id}/deliver", handler.DeliverOrder)
		r.Post("/{id}/cancel", handler.CancelOrder)
	})

	r.Get("/users/{userID}/orders", handler.ListUserOrders)

	return r
}
