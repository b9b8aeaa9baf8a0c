package wire

import (
	"net/http"

	"movie-theater/internal/adaptor"
	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/usecase"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/middleware"
	"movie-theater/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired HTTP router
type App struct {
	Router *chi.Mux
}

// guards are the access middlewares shared by every feature.
type guards struct {
	auth     func(http.Handler) http.Handler
	optional func(http.Handler) http.Handler
	staff    func(http.Handler) http.Handler
	admin    func(http.Handler) http.Handler
}

func newGuards(sessions middleware.SessionFinder, config *utils.Config, logger *zap.Logger) *guards {
	return &guards{
		auth:     middleware.AuthSession(config.JWT.Secret, sessions, logger),
		optional: middleware.OptionalAuth(config.JWT.Secret, sessions, logger),
		staff:    middleware.RequireRole(logger, string(entity.RoleStaff), string(entity.RoleAdmin)),
		admin:    middleware.RequireRole(logger, string(entity.RoleAdmin)),
	}
}

// Wiring builds services, handlers and routes.
func Wiring(repo *repository.Repository, deps usecase.Dependencies, limiter cache.Limiter, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, deps, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, newGuards(repo.Session, config, logger), limiter, logger)

	return &App{
		Router: router,
	}
}

func setupRouter(handler *adaptor.Handler, g *guards, limiter cache.Limiter, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())
	r.Use(middleware.RateLimit(limiter, logger))

	wireAuth(r, handler.Auth, g)
	wireUser(r, handler.User, g)
	wireMovie(r, handler.Movie, g)
	wireTheater(r, handler.Theater, g)
	wireShowtime(r, handler.Showtime, g)
	wireSeat(r, handler.Seat, g)
	wireTicket(r, handler.Ticket, g)
	wireFood(r, handler.Food, g)
	wireOrder(r, handler.Order, g)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", nil)
	})

	return r
}
