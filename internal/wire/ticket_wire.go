package wire

import (
	"movie-theater/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTicket(r chi.Router, ticketHandler *adaptor.TicketHandler, g *guards) {
	r.Route("/api/tickets", func(r chi.Router) {
		r.Use(g.auth)

		r.Post("/", ticketHandler.PurchaseTickets)
		r.Get("/", ticketHandler.GetMyTickets)
		r.Get("/{id}", ticketHandler.GetTicket)
		r.Get("/{id}/qr", ticketHandler.GetTicketQR)
		r.Put("/{id}/cancel", ticketHandler.CancelTicket)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/tickets", func(r chi.Router) {
		r.Use(g.auth, g.staff)

		r.Get("/", ticketHandler.GetAllTickets)
		r.Put("/{id}/redeem", ticketHandler.RedeemTicket)
	})
}
