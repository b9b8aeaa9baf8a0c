package wire

import (
	"movie-theater/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireSeat(r chi.Router, seatHandler *adaptor.SeatHandler, g *guards) {
	r.Route("/api/seats", func(r chi.Router) {
		r.With(g.optional).Get("/", seatHandler.GetSeatMap)

		r.Group(func(r chi.Router) {
			r.Use(g.auth)

			r.Post("/hold", seatHandler.HoldSeats)
			r.Delete("/hold", seatHandler.ReleaseHold)
			r.With(g.staff).Put("/{id}", seatHandler.UpdateSeatStatus)
		})
	})
}
