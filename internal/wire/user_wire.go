package wire

import (
	"movie-theater/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireUser(r chi.Router, userHandler *adaptor.UserHandler, g *guards) {
	// ==================== PROTECTED USER ROUTES ====================
	r.Route("/api/user", func(r chi.Router) {
		r.Use(g.auth)

		r.Get("/profile", userHandler.GetProfile)
		r.Put("/profile", userHandler.UpdateProfile)
		r.Put("/preferences", userHandler.UpdatePreferences)
	})

	// ==================== ADMIN ROUTES ====================
	r.Route("/api/admin/users", func(r chi.Router) {
		r.Use(g.auth, g.admin)

		r.Get("/", userHandler.GetAllUsers)
		r.Put("/{id}/roles", userHandler.UpdateRoles)
		r.Delete("/{id}", userHandler.DeleteUser)
	})
}
