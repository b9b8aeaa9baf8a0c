package wire

import (
	"movie-theater/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireFood(r chi.Router, foodHandler *adaptor.FoodHandler, g *guards) {
	r.Route("/api/fooditem", func(r chi.Router) {
		r.Get("/", foodHandler.GetFoodItems)
		r.Get("/{id}", foodHandler.GetFoodItemByID)

		r.Group(func(r chi.Router) {
			r.Use(g.auth, g.staff)

			r.Post("/", foodHandler.CreateFoodItem)
			r.Put("/{id}", foodHandler.UpdateFoodItem)
			r.Delete("/{id}", foodHandler.DeleteFoodItem)
		})
	})
}
