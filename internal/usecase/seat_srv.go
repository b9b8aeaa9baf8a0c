package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/domain/seatmap"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type SeatService interface {
	// GetSeatMap reports seats held by other customers as occupied and
	// seats held by callerID as selected. callerID may be uuid.Nil.
	GetSeatMap(ctx context.Context, showtimeID string, callerID uuid.UUID) (*response.SeatMapResponse, error)
	HoldSeats(ctx context.Context, callerID uuid.UUID, req *request.HoldSeatsRequest) (*response.SeatHoldResponse, error)
	ReleaseHold(ctx context.Context, callerID uuid.UUID, req *request.ReleaseHoldRequest) error
	UpdateSeatStatus(ctx context.Context, seatID string, req *request.UpdateSeatStatusRequest) (*response.SeatResponse, error)
}

type seatService struct {
	repo       *repository.Repository
	holds      cache.HoldStore
	holdTTL    time.Duration
	maxTickets int
	log        *zap.Logger
}

func NewSeatService(repo *repository.Repository, holds cache.HoldStore, config *utils.Config, log *zap.Logger) SeatService {
	return &seatService{
		repo:       repo,
		holds:      holds,
		holdTTL:    config.Booking.SeatHoldTTL(),
		maxTickets: config.Booking.MaxTicketsPerPurchase,
		log:        log.With(zap.String("service", "seat")),
	}
}

func (s *seatService) GetSeatMap(ctx context.Context, showtimeID string, callerID uuid.UUID) (*response.SeatMapResponse, error) {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}

	showtime, err := s.repo.Showtime.FindByID(ctx, id)
	if err != nil {
		s.log.Error("Failed to get showtime", zap.Error(err), zap.String("showtime_id", showtimeID))
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime not found")
	}

	seats, err := s.repo.Seat.FindByShowtime(ctx, id)
	if err != nil {
		s.log.Error("Failed to get seats", zap.Error(err), zap.String("showtime_id", showtimeID))
		return nil, fmt.Errorf("get seats: %w", err)
	}

	holders := lookupHolders(ctx, s.holds, s.log, id, seats)

	items := make([]response.SeatResponse, 0, len(seats))
	for _, seat := range seats {
		status := seatmap.Available
		holder, held := holders[seat.ID]
		switch {
		case seat.Status == entity.SeatStatusOccupied:
			status = seatmap.Occupied
		case held && holder == callerID && callerID != uuid.Nil:
			status = seatmap.Selected
		case held:
			status = seatmap.Occupied
		}
		items = append(items, seatToResponse(seat, status))
	}

	return &response.SeatMapResponse{
		ShowtimeID:  showtime.ID.String(),
		Rows:        showtime.SeatRows,
		SeatsPerRow: showtime.SeatsPerRow,
		Seats:       items,
	}, nil
}

func (s *seatService) HoldSeats(ctx context.Context, callerID uuid.UUID, req *request.HoldSeatsRequest) (*response.SeatHoldResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}
	if req.TicketCount > s.maxTickets {
		return nil, fmt.Errorf("validation failed: ticket_count: Maximum is %d", s.maxTickets)
	}

	showtime, err := findOpenShowtime(ctx, s.repo.Showtime, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	seatIDs, err := parseIDs(req.SeatIDs, "seat")
	if err != nil {
		return nil, err
	}

	grid, err := selectSeats(ctx, s.repo.Seat, s.holds, s.log, showtime.ID, callerID, seatIDs, req.TicketCount)
	if err != nil {
		return nil, err
	}
	selected := grid.Selected()

	expiresAt := time.Now().Add(s.holdTTL)
	if err := s.holds.Hold(ctx, showtime.ID, callerID, seatIDs, s.holdTTL); err != nil {
		s.log.Warn("Failed to hold seats",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
			zap.String("user_id", callerID.String()),
		)
		return nil, err
	}

	resp := &response.SeatHoldResponse{
		ShowtimeID: showtime.ID.String(),
		SeatIDs:    make([]string, 0, len(selected)),
		Labels:     make([]string, 0, len(selected)),
		Remaining:  grid.Remaining(),
		Full:       grid.Full(),
		ExpiresAt:  expiresAt,
	}
	for _, seat := range selected {
		resp.SeatIDs = append(resp.SeatIDs, seat.ID.String())
		resp.Labels = append(resp.Labels, seat.Label)
	}

	s.log.Info("Seats held",
		zap.String("showtime_id", showtime.ID.String()),
		zap.String("user_id", callerID.String()),
		zap.Strings("seats", resp.Labels),
	)

	return resp, nil
}

func (s *seatService) ReleaseHold(ctx context.Context, callerID uuid.UUID, req *request.ReleaseHoldRequest) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return validationError(errs)
	}

	showtimeID, err := parseID(req.ShowtimeID, "showtime")
	if err != nil {
		return err
	}

	released, err := s.holds.Release(ctx, showtimeID, callerID)
	if err != nil {
		s.log.Error("Failed to release holds", zap.Error(err), zap.String("showtime_id", req.ShowtimeID))
		return fmt.Errorf("release holds: %w", err)
	}

	s.log.Info("Seat holds released",
		zap.String("showtime_id", req.ShowtimeID),
		zap.String("user_id", callerID.String()),
		zap.Int("count", released),
	)
	return nil
}

func (s *seatService) UpdateSeatStatus(ctx context.Context, seatID string, req *request.UpdateSeatStatusRequest) (*response.SeatResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID(seatID, "seat")
	if err != nil {
		return nil, err
	}

	seat, err := s.repo.Seat.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find seat: %w", err)
	}
	if seat == nil {
		return nil, fmt.Errorf("seat not found")
	}

	status := entity.SeatStatus(req.Status)
	if err := s.repo.Seat.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrSeatTicketed) {
			return nil, err
		}
		s.log.Error("Failed to update seat status", zap.Error(err), zap.String("seat_id", seatID))
		return nil, err
	}
	seat.Status = status

	s.log.Info("Seat status updated",
		zap.String("seat_id", seatID),
		zap.String("label", seat.Label),
		zap.String("status", req.Status),
	)

	resp := seatToResponse(seat, seatmap.Status(status))
	return &resp, nil
}

// ==================== HELPER METHODS ====================

// findOpenShowtime loads a showtime that still accepts bookings.
func findOpenShowtime(ctx context.Context, showtimes repository.ShowtimeRepository, showtimeID string) (*entity.Showtime, error) {
	id, err := parseID(showtimeID, "showtime")
	if err != nil {
		return nil, err
	}

	showtime, err := showtimes.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get showtime: %w", err)
	}
	if showtime == nil {
		return nil, fmt.Errorf("showtime not found")
	}
	if !showtime.StartsAt.After(time.Now()) {
		return nil, fmt.Errorf("showtime has already started")
	}
	return showtime, nil
}

// selectSeats runs the selection grid over a showtime's seats with the
// given cap and returns it with seatIDs selected. Seats occupied or held
// by someone other than callerID cannot be selected.
func selectSeats(
	ctx context.Context,
	seatRepo repository.SeatRepository,
	holds cache.HoldStore,
	log *zap.Logger,
	showtimeID, callerID uuid.UUID,
	seatIDs []uuid.UUID,
	limit int,
) (*seatmap.Grid, error) {
	seats, err := seatRepo.FindByShowtime(ctx, showtimeID)
	if err != nil {
		return nil, fmt.Errorf("get seats: %w", err)
	}

	holders := lookupHolders(ctx, holds, log, showtimeID, seats)

	gridSeats := make([]seatmap.Seat, 0, len(seats))
	for _, seat := range seats {
		status := seatmap.Available
		if holder, held := holders[seat.ID]; seat.Status == entity.SeatStatusOccupied || (held && holder != callerID) {
			status = seatmap.Occupied
		}
		gridSeats = append(gridSeats, seatmap.Seat{
			ID:     seat.ID,
			Row:    seat.RowLabel,
			Number: seat.SeatNumber,
			Label:  seat.Label,
			Status: status,
		})
	}

	grid, err := seatmap.New(gridSeats, limit)
	if err != nil {
		return nil, err
	}
	if err := grid.SelectAll(seatIDs); err != nil {
		return nil, err
	}
	return grid, nil
}

func lookupHolders(ctx context.Context, holds cache.HoldStore, log *zap.Logger, showtimeID uuid.UUID, seats []*entity.Seat) map[uuid.UUID]uuid.UUID {
	ids := make([]uuid.UUID, 0, len(seats))
	for _, seat := range seats {
		ids = append(ids, seat.ID)
	}

	holders, err := holds.Holders(ctx, showtimeID, ids)
	if err != nil {
		log.Warn("Failed to read seat holds", zap.Error(err), zap.String("showtime_id", showtimeID.String()))
		return nil
	}
	return holders
}

func parseIDs(values []string, name string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, value := range values {
		id, err := parseID(value, name)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func seatToResponse(seat *entity.Seat, status seatmap.Status) response.SeatResponse {
	return response.SeatResponse{
		ID:         seat.ID.String(),
		ShowtimeID: seat.ShowtimeID.String(),
		Row:        seat.RowLabel,
		Number:     seat.SeatNumber,
		Label:      seat.Label,
		Status:     string(status),
	}
}
