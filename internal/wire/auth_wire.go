package wire

import (
	"movie-theater/internal/adaptor"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, g *guards) {
	r.Route("/api/authentication", func(r chi.Router) {
		// ==================== PUBLIC ROUTES ====================
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
		r.Post("/send-otp", authHandler.SendOTP)
		r.Post("/verify-email", authHandler.VerifyEmail)
		r.Post("/reset-password", authHandler.ResetPassword)

		// ==================== PROTECTED ROUTES ====================
		r.With(g.auth).Post("/logout", authHandler.Logout)
	})
}
