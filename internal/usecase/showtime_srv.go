package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/domain/seatmap"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ShowtimeQuery filters the public showtime list. Empty fields match all.
type ShowtimeQuery struct {
	MovieID   string
	TheaterID string
	Date      string
}

type ShowtimeService interface {
	GetShowtimes(ctx context.Context, query ShowtimeQuery) ([]response.ShowtimeResponse, error)
	GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error)
	CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error)
	UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeUpdateRequest) (*response.ShowtimeResponse, error)
	DeleteShowtime(ctx context.Context, showtimeID string) error
}

type showtimeService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewShowtimeService(repo *repository.Repository, log *zap.Logger) ShowtimeService {
	return &showtimeService{
		repo: repo,
		log:  log.With(zap.String("service", "showtime")),
	}
}

func (s *showtimeService) GetShowtimes(ctx context.Context, query ShowtimeQuery) ([]response.ShowtimeResponse, error) {
	var filter repository.ShowtimeFilter
	var err error

	if query.MovieID != "" {
		if filter.MovieID, err = parseID(query.MovieID, "movie"); err != nil {
			return nil, err
		}
	}
	if query.TheaterID != "" {
		if filter.TheaterID, err = parseID(query.TheaterID, "theater"); err != nil {
			return nil, err
		}
	}
	if query.Date != "" {
		day, err := time.ParseInLocation("2006-01-02", query.Date, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("invalid date, expected YYYY-MM-DD")
		}
		next := day.AddDate(0, 0, 1)
		filter.From = &day
		filter.To = &next
	}

	showtimes, err := s.repo.Showtime.FindAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to get showtimes", zap.Error(err))
		return nil, fmt.Errorf("get showtimes: %w", err)
	}

	return response.Map(showtimes, response.ShowtimeToResponse), nil
}

func (s *showtimeService) GetShowtimeByID(ctx context.Context, showtimeID string) (*response.ShowtimeResponse, error) {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, id)
}

func (s *showtimeService) CreateShowtime(ctx context.Context, req *request.ShowtimeRequest) (*response.ShowtimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create showtime validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	movieID, err := parseID(req.MovieID, "movie")
	if err != nil {
		return nil, err
	}
	theaterID, err := parseID(req.TheaterID, "theater")
	if err != nil {
		return nil, err
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid starts_at: %w", err)
	}

	movie, err := s.repo.Movie.FindByID(ctx, movieID)
	if err != nil {
		return nil, fmt.Errorf("find movie: %w", err)
	}
	if movie == nil {
		return nil, fmt.Errorf("movie not found")
	}

	theater, err := s.repo.Theater.FindByID(ctx, theaterID)
	if err != nil {
		return nil, fmt.Errorf("find theater: %w", err)
	}
	if theater == nil {
		return nil, fmt.Errorf("theater not found")
	}

	now := time.Now()
	showtime := &entity.Showtime{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		MovieID:     movieID,
		TheaterID:   theaterID,
		Auditorium:  req.Auditorium,
		StartsAt:    startsAt,
		Price:       utils.RoundMoney(req.Price),
		SeatRows:    req.Rows,
		SeatsPerRow: req.SeatsPerRow,
	}

	seats := buildSeatGrid(showtime, now)
	if err := s.repo.Showtime.CreateWithSeats(ctx, showtime, seats); err != nil {
		s.log.Error("Failed to create showtime", zap.Error(err), zap.String("movie_id", req.MovieID))
		return nil, fmt.Errorf("create showtime: %w", err)
	}

	s.log.Info("Showtime created",
		zap.String("showtime_id", showtime.ID.String()),
		zap.String("movie", movie.Title),
		zap.String("theater", theater.Name),
		zap.Int("seats", len(seats)),
	)

	resp := response.ShowtimeToResponse(&repository.ShowtimeDetail{
		Showtime:       *showtime,
		MovieTitle:     movie.Title,
		TheaterName:    theater.Name,
		AvailableSeats: len(seats),
	})
	return &resp, nil
}

func (s *showtimeService) UpdateShowtime(ctx context.Context, showtimeID string, req *request.ShowtimeUpdateRequest) (*response.ShowtimeResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find showtime: %w", err)
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime not found")
	}

	if req.Auditorium != nil {
		showtime.Auditorium = *req.Auditorium
	}
	if req.StartsAt != nil {
		startsAt, err := time.Parse(time.RFC3339, *req.StartsAt)
		if err != nil {
			return nil, fmt.Errorf("invalid starts_at: %w", err)
		}
		showtime.StartsAt = startsAt
	}
	if req.Price != nil {
		showtime.Price = utils.RoundMoney(*req.Price)
	}

	showtime.UpdatedAt = time.Now()
	if err := s.repo.Showtime.Update(ctx, showtime); err != nil {
		s.log.Error("Failed to update showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
		return nil, err
	}

	return s.detail(ctx, id)
}

func (s *showtimeService) DeleteShowtime(ctx context.Context, showtimeID string) error {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return err
	}

	active, err := s.repo.Ticket.CountActiveByShowtime(ctx, id)
	if err != nil {
		s.log.Error("Failed to count active tickets", zap.Error(err), zap.String("showtime_id", showtimeID))
		return fmt.Errorf("count tickets: %w", err)
	}
	if active > 0 {
		return fmt.Errorf("cannot delete showtime with %d active tickets", active)
	}

	if err := s.repo.Showtime.Delete(ctx, id); err != nil {
		s.log.Warn("Failed to delete showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
		return err
	}

	s.log.Info("Showtime deleted", zap.String("showtime_id", showtimeID))
	return nil
}

func (s *showtimeService) detail(ctx context.Context, id uuid.UUID) (*response.ShowtimeResponse, error) {
	detail, err := s.repo.Showtime.FindDetailByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get showtime", zap.Error(err), zap.String("showtime_id", id.String()))
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if detail == nil {
		return nil, fmt.Errorf("showtime not found")
	}

	resp := response.ShowtimeToResponse(detail)
	return &resp, nil
}

// buildSeatGrid lays out rows A.. with seats numbered from 1.
func buildSeatGrid(showtime *entity.Showtime, now time.Time) []*entity.Seat {
	seats := make([]*entity.Seat, 0, showtime.SeatRows*showtime.SeatsPerRow)
	for r := 0; r < showtime.SeatRows; r++ {
		row := seatmap.RowLabel(r)
		for n := 1; n <= showtime.SeatsPerRow; n++ {
			seats = append(seats, &entity.Seat{
				BaseNoDelete: entity.BaseNoDelete{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				ShowtimeID: showtime.ID,
				RowLabel:   row,
				SeatNumber: n,
				Label:      seatmap.SeatLabel(row, n),
				Status:     entity.SeatStatusAvailable,
			})
		}
	}
	return seats
}
