package wire

import (
	"movie-theater/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireShowtime(r chi.Router, showtimeHandler *adaptor.ShowtimeHandler, g *guards) {
	r.Route("/api/showtimes", func(r chi.Router) {
		r.Get("/", showtimeHandler.GetShowtimes)
		r.Get("/{id}", showtimeHandler.GetShowtimeByID)

		r.Group(func(r chi.Router) {
			r.Use(g.auth, g.staff)

			r.Post("/", showtimeHandler.CreateShowtime)
			r.Put("/{id}", showtimeHandler.UpdateShowtime)
			r.Delete("/{id}", showtimeHandler.DeleteShowtime)
		})
	})
}
