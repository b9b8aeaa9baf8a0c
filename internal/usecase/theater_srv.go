package usecase

import (
	"context"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/geo"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TheaterService interface {
	// GetTheaters lists every theater. When lat and lng form a valid
	// coordinate the list is ordered nearest first with distances attached.
	GetTheaters(ctx context.Context, lat, lng *float64) ([]response.TheaterResponse, error)
	GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterResponse, error)
	CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error)
	UpdateTheater(ctx context.Context, theaterID string, req *request.TheaterUpdateRequest) (*response.TheaterResponse, error)
	DeleteTheater(ctx context.Context, theaterID string) error
}

type theaterService struct {
	theaterRepo repository.TheaterRepository
	log         *zap.Logger
}

func NewTheaterService(theaterRepo repository.TheaterRepository, log *zap.Logger) TheaterService {
	return &theaterService{
		theaterRepo: theaterRepo,
		log:         log.With(zap.String("service", "theater")),
	}
}

func (s *theaterService) GetTheaters(ctx context.Context, lat, lng *float64) ([]response.TheaterResponse, error) {
	theaters, err := s.theaterRepo.FindAll(ctx)
	if err != nil {
		s.log.Error("Failed to get theaters", zap.Error(err))
		return nil, fmt.Errorf("get theaters: %w", err)
	}

	if lat == nil || lng == nil {
		return response.Map(theaters, response.TheaterToResponse), nil
	}

	origin := geo.Point{Latitude: *lat, Longitude: *lng}
	if !origin.Valid() {
		s.log.Debug("Ignoring invalid origin", zap.Float64("lat", *lat), zap.Float64("lng", *lng))
		return response.Map(theaters, response.TheaterToResponse), nil
	}

	ranked := geo.SortByDistance(origin, theaters)
	items := make([]response.TheaterResponse, 0, len(ranked))
	for _, r := range ranked {
		items = append(items, response.TheaterToResponse(r.Item).WithDistance(r.DistanceKm))
	}
	return items, nil
}

func (s *theaterService) GetTheaterByID(ctx context.Context, theaterID string) (*response.TheaterResponse, error) {
	id, err := parseID(theaterID, "theater")
	if err != nil {
		return nil, err
	}

	theater, err := s.theaterRepo.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get theater", zap.Error(err), zap.String("theater_id", theaterID))
		return nil, fmt.Errorf("get theater: %w", err)
	}
	if theater == nil {
		return nil, fmt.Errorf("theater not found")
	}

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func (s *theaterService) CreateTheater(ctx context.Context, req *request.TheaterRequest) (*response.TheaterResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create theater validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	now := time.Now()
	theater := &entity.Theater{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:      req.Name,
		Address:   req.Address,
		Latitude:  *req.Latitude,
		Longitude: *req.Longitude,
		Amenities: req.Amenities,
	}
	if theater.Amenities == nil {
		theater.Amenities = []string{}
	}

	if err := s.theaterRepo.Create(ctx, theater); err != nil {
		s.log.Error("Failed to create theater", zap.Error(err), zap.String("name", req.Name))
		return nil, fmt.Errorf("create theater: %w", err)
	}

	s.log.Info("Theater created", zap.String("theater_id", theater.ID.String()), zap.String("name", theater.Name))

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func (s *theaterService) UpdateTheater(ctx context.Context, theaterID string, req *request.TheaterUpdateRequest) (*response.TheaterResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID(theaterID, "theater")
	if err != nil {
		return nil, err
	}

	theater, err := s.theaterRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find theater: %w", err)
	}
	if theater == nil {
		return nil, fmt.Errorf("theater not found")
	}

	if req.Name != nil {
		theater.Name = *req.Name
	}
	if req.Address != nil {
		theater.Address = *req.Address
	}
	if req.Latitude != nil {
		theater.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		theater.Longitude = *req.Longitude
	}
	if req.Amenities != nil {
		theater.Amenities = req.Amenities
	}

	theater.UpdatedAt = time.Now()
	if err := s.theaterRepo.Update(ctx, theater); err != nil {
		s.log.Error("Failed to update theater", zap.Error(err), zap.String("theater_id", theaterID))
		return nil, err
	}

	resp := response.TheaterToResponse(theater)
	return &resp, nil
}

func (s *theaterService) DeleteTheater(ctx context.Context, theaterID string) error {
	id, err := parseID(theaterID, "theater")
	if err != nil {
		return err
	}

	if err := s.theaterRepo.Delete(ctx, id); err != nil {
		s.log.Warn("Failed to delete theater", zap.Error(err), zap.String("theater_id", theaterID))
		return err
	}

	s.log.Info("Theater deleted", zap.String("theater_id", theaterID))
	return nil
}
