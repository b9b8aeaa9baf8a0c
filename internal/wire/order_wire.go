package wire

import (
	"movie-theater/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireOrder(r chi.Router, orderHandler *adaptor.OrderHandler, g *guards) {
	r.Get("/api/payment-methods", orderHandler.GetPaymentMethods)

	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/quote", orderHandler.Quote)

		// ==================== PROTECTED ROUTES (require auth) ====================
		r.Group(func(r chi.Router) {
			r.Use(g.auth)

			r.Post("/", orderHandler.PlaceOrder)
			r.Get("/", orderHandler.GetMyOrders)
			r.Get("/{id}", orderHandler.GetOrder)
		})
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/orders", func(r chi.Router) {
		r.Use(g.auth, g.staff)

		r.Get("/", orderHandler.GetAllOrders)
		r.Put("/{id}/status", orderHandler.UpdateOrderStatus)
	})
}
