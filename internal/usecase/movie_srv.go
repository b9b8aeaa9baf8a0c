package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const movieCachePattern = "movies:*"

type MovieService interface {
	GetMovies(ctx context.Context, req *request.PaginatedRequest, filter repository.MovieFilter) (*response.PaginatedResponse[response.MovieResponse], error)
	GetMovieByID(ctx context.Context, movieID string) (*response.MovieDetailResponse, error)
	CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error)
	UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error)
	DeleteMovie(ctx context.Context, movieID string) error
}

type movieService struct {
	repo  *repository.Repository
	cache cache.Service
	ttl   time.Duration
	log   *zap.Logger
}

func NewMovieService(
	repo *repository.Repository,
	cacheService cache.Service,
	config *utils.Config,
	log *zap.Logger,
) MovieService {
	return &movieService{
		repo:  repo,
		cache: cacheService,
		ttl:   config.Redis.CacheTTL(),
		log:   log.With(zap.String("service", "movie")),
	}
}

func (s *movieService) GetMovies(ctx context.Context, req *request.PaginatedRequest, filter repository.MovieFilter) (*response.PaginatedResponse[response.MovieResponse], error) {
	if filter.ReleaseStatus != "" {
		if _, err := parseReleaseStatus(filter.ReleaseStatus); err != nil {
			return nil, err
		}
	}

	key := fmt.Sprintf("movies:list:%d:%d:%s:%s", req.Page, req.Limit(), filter.ReleaseStatus, filter.Query)

	var result response.PaginatedResponse[response.MovieResponse]
	err := s.cache.GetOrSet(ctx, key, s.ttl, func() (interface{}, error) {
		movies, err := s.repo.Movie.FindAll(ctx, filter, req.Limit(), req.Offset())
		if err != nil {
			s.log.Error("Failed to get movies",
				zap.Error(err),
				zap.Int("page", req.Page),
				zap.Int("per_page", req.PerPage),
				zap.String("release_status", filter.ReleaseStatus),
			)
			return nil, fmt.Errorf("get movies: %w", err)
		}

		total, err := s.repo.Movie.CountAll(ctx, filter)
		if err != nil {
			s.log.Error("Failed to count movies", zap.Error(err))
			return nil, fmt.Errorf("count movies: %w", err)
		}

		items := response.Map(movies, response.MovieToResponse)
		return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
	}, &result)
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *movieService) GetMovieByID(ctx context.Context, movieID string) (*response.MovieDetailResponse, error) {
	id, err := parseID(movieID, "movie")
	if err != nil {
		s.log.Warn("Invalid movie ID format", zap.String("movie_id", movieID))
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get movie by ID", zap.Error(err), zap.String("movie_id", movieID))
		return nil, fmt.Errorf("get movie by id: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie not found")
	}

	now := time.Now()
	showtimes, err := s.repo.Showtime.FindAll(ctx, repository.ShowtimeFilter{
		MovieID: id,
		From:    &now,
	})
	if err != nil {
		s.log.Warn("Failed to get showtimes for movie", zap.Error(err), zap.String("movie_id", movieID))
	}

	detail := response.MovieToDetailResponse(movie, showtimes)
	return &detail, nil
}

func (s *movieService) CreateMovie(ctx context.Context, req *request.MovieRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create movie validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	releaseDate, err := time.Parse("2006-01-02", req.ReleaseDate)
	if err != nil {
		return nil, fmt.Errorf("invalid release date: %w", err)
	}

	releaseStatus, err := parseReleaseStatus(req.ReleaseStatus)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	movie := &entity.Movie{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Title:             req.Title,
		Description:       req.Description,
		ImageURL:          req.ImageURL,
		ReleaseDate:       releaseDate,
		DurationInMinutes: req.DurationInMinutes,
		ReleaseStatus:     releaseStatus,
	}

	if err := s.repo.Movie.Create(ctx, movie); err != nil {
		s.log.Error("Failed to create movie", zap.Error(err), zap.String("title", req.Title))
		return nil, fmt.Errorf("create movie: %w", err)
	}
	s.invalidate(ctx)

	s.log.Info("Movie created",
		zap.String("movie_id", movie.ID.String()),
		zap.String("title", movie.Title),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, req *request.MovieUpdateRequest) (*response.MovieResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID(movieID, "movie")
	if err != nil {
		return nil, err
	}

	movie, err := s.repo.Movie.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie not found")
	}

	updated := false

	if req.Title != nil && *req.Title != movie.Title {
		movie.Title = *req.Title
		updated = true
	}
	if req.Description != nil {
		movie.Description = req.Description
		updated = true
	}
	if req.ImageURL != nil {
		movie.ImageURL = req.ImageURL
		updated = true
	}
	if req.ReleaseDate != nil {
		releaseDate, err := time.Parse("2006-01-02", *req.ReleaseDate)
		if err != nil {
			return nil, fmt.Errorf("invalid release date: %w", err)
		}
		movie.ReleaseDate = releaseDate
		updated = true
	}
	if req.DurationInMinutes != nil && *req.DurationInMinutes != movie.DurationInMinutes {
		movie.DurationInMinutes = *req.DurationInMinutes
		updated = true
	}
	if req.ReleaseStatus != nil {
		releaseStatus, err := parseReleaseStatus(*req.ReleaseStatus)
		if err != nil {
			return nil, err
		}
		movie.ReleaseStatus = releaseStatus
		updated = true
	}

	if updated {
		movie.UpdatedAt = time.Now()
		if err := s.repo.Movie.Update(ctx, movie); err != nil {
			s.log.Error("Failed to update movie", zap.Error(err), zap.String("movie_id", movieID))
			return nil, fmt.Errorf("update movie: %w", err)
		}
		s.invalidate(ctx)
	}

	s.log.Info("Movie updated",
		zap.String("movie_id", movieID),
		zap.Bool("was_updated", updated),
	)

	resp := response.MovieToResponse(movie)
	return &resp, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	id, err := parseID(movieID, "movie")
	if err != nil {
		return err
	}

	if err := s.repo.Movie.Delete(ctx, id); err != nil {
		s.log.Warn("Failed to delete movie", zap.Error(err), zap.String("movie_id", movieID))
		return err
	}
	s.invalidate(ctx)

	s.log.Info("Movie deleted", zap.String("movie_id", movieID))
	return nil
}

func (s *movieService) invalidate(ctx context.Context) {
	if err := s.cache.DeletePattern(ctx, movieCachePattern); err != nil {
		s.log.Warn("Failed to invalidate movie cache", zap.Error(err))
	}
}

func parseReleaseStatus(value string) (entity.ReleaseStatus, error) {
	switch value {
	case string(entity.ReleaseStatusNowPlaying):
		return entity.ReleaseStatusNowPlaying, nil
	case string(entity.ReleaseStatusComingSoon):
		return entity.ReleaseStatusComingSoon, nil
	default:
		return "", fmt.Errorf("invalid release status: %s", value)
	}
}
