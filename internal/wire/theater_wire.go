package wire

import (
	"movie-theater/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireTheater(r chi.Router, theaterHandler *adaptor.TheaterHandler, g *guards) {
	r.Route("/api/theaters", func(r chi.Router) {
		r.Get("/", theaterHandler.GetTheaters)
		r.Get("/{id}", theaterHandler.GetTheaterByID)

		r.Group(func(r chi.Router) {
			r.Use(g.auth, g.staff)

			r.Post("/", theaterHandler.CreateTheater)
			r.Put("/{id}", theaterHandler.UpdateTheater)
			r.Delete("/{id}", theaterHandler.DeleteTheater)
		})
	})
}
