package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/cache"
	"movie-theater/pkg/messaging"
	"movie-theater/pkg/payment"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

// QRCodeSize is the edge length in pixels of ticket QR images.
const QRCodeSize = 256

type TicketService interface {
	PurchaseTickets(ctx context.Context, callerID uuid.UUID, req *request.PurchaseTicketRequest) (*response.TicketResponse, error)
	GetMyTickets(ctx context.Context, callerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error)
	GetTicket(ctx context.Context, caller Caller, ticketID string) (*response.TicketResponse, error)
	// GetTicketQR renders the ticket code as a PNG.
	GetTicketQR(ctx context.Context, callerID uuid.UUID, ticketID string) ([]byte, error)
	CancelTicket(ctx context.Context, caller Caller, ticketID string) (*response.TicketResponse, error)
	GetAllTickets(ctx context.Context, req *request.PaginatedRequest, showtimeID string) (*response.PaginatedResponse[response.TicketResponse], error)
	RedeemTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error)
}

type ticketService struct {
	repo       *repository.Repository
	holds      cache.HoldStore
	payments   payment.Provider
	publisher  messaging.Publisher
	maxTickets int
	log        *zap.Logger
}

func NewTicketService(repo *repository.Repository, deps Dependencies, config *utils.Config, log *zap.Logger) TicketService {
	return &ticketService{
		repo:       repo,
		holds:      deps.Holds,
		payments:   deps.Payments,
		publisher:  deps.Publisher,
		maxTickets: config.Booking.MaxTicketsPerPurchase,
		log:        log.With(zap.String("service", "ticket")),
	}
}

func (s *ticketService) PurchaseTickets(ctx context.Context, callerID uuid.UUID, req *request.PurchaseTicketRequest) (*response.TicketResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Purchase validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}
	if len(req.SeatIDs) > s.maxTickets {
		return nil, fmt.Errorf("validation failed: seat_ids: Maximum is %d", s.maxTickets)
	}

	method, err := activePaymentMethod(ctx, s.repo.PaymentMethod, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	showtime, err := findOpenShowtime(ctx, s.repo.Showtime, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	seatIDs, err := parseIDs(req.SeatIDs, "seat")
	if err != nil {
		return nil, err
	}

	grid, err := selectSeats(ctx, s.repo.Seat, s.holds, s.log, showtime.ID, callerID, seatIDs, len(seatIDs))
	if err != nil {
		s.log.Warn("Seat selection rejected",
			zap.Error(err),
			zap.String("showtime_id", showtime.ID.String()),
			zap.String("user_id", callerID.String()),
		)
		return nil, err
	}
	selected := grid.Selected()

	now := time.Now()
	ticket := &entity.Ticket{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:          utils.GenerateTicketCode(now),
		UserID:        callerID,
		ShowtimeID:    showtime.ID,
		TotalPrice:    utils.RoundMoney(showtime.Price * float64(len(selected))),
		PaymentMethod: method.Code,
		Status:        entity.TicketStatusActive,
	}

	receipt, err := s.payments.Charge(ctx, payment.Charge{
		Method:    method.Code,
		Amount:    ticket.TotalPrice,
		Reference: ticket.Code,
	})
	if err != nil {
		s.log.Warn("Ticket payment failed", zap.Error(err), zap.String("code", ticket.Code))
		return nil, err
	}
	ticket.TransactionID = &receipt.TransactionID

	if err := s.repo.Ticket.Purchase(ctx, ticket, seatIDs); err != nil {
		if refundErr := s.payments.Refund(ctx, receipt.TransactionID, receipt.Amount); refundErr != nil {
			s.log.Error("Failed to refund after purchase failure",
				zap.Error(refundErr),
				zap.String("transaction_id", receipt.TransactionID),
			)
		}
		if errors.Is(err, repository.ErrSeatsUnavailable) {
			return nil, err
		}
		s.log.Error("Failed to store ticket", zap.Error(err), zap.String("code", ticket.Code))
		return nil, fmt.Errorf("purchase tickets: %w", err)
	}

	if _, err := s.holds.Release(ctx, showtime.ID, callerID); err != nil {
		s.log.Warn("Failed to release holds after purchase", zap.Error(err))
	}

	labels := make([]string, 0, len(selected))
	for _, seat := range selected {
		labels = append(labels, seat.Label)
	}

	s.publish(ctx, messaging.EventTicketPurchased, ticket, map[string]any{
		"seats": labels,
	})

	s.log.Info("Tickets purchased",
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("user_id", callerID.String()),
		zap.Strings("seats", labels),
		zap.Float64("total", ticket.TotalPrice),
	)

	return s.summary(ctx, ticket.ID)
}

func (s *ticketService) GetMyTickets(ctx context.Context, callerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.TicketResponse], error) {
	return s.list(ctx, req, repository.TicketFilter{UserID: callerID})
}

func (s *ticketService) GetAllTickets(ctx context.Context, req *request.PaginatedRequest, showtimeID string) (*response.PaginatedResponse[response.TicketResponse], error) {
	var filter repository.TicketFilter
	if showtimeID != "" {
		id, err := parseID(showtimeID, "showtime")
		if err != nil {
			return nil, err
		}
		filter.ShowtimeID = id
	}
	return s.list(ctx, req, filter)
}

func (s *ticketService) GetTicket(ctx context.Context, caller Caller, ticketID string) (*response.TicketResponse, error) {
	id, err := parseID(ticketID, "ticket")
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.Ticket.FindSummaryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket not found")
	}
	if ticket.UserID != caller.ID && !caller.IsStaff() {
		return nil, fmt.Errorf("ticket not found")
	}

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

func (s *ticketService) GetTicketQR(ctx context.Context, callerID uuid.UUID, ticketID string) ([]byte, error) {
	id, err := parseID(ticketID, "ticket")
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil || ticket.UserID != callerID {
		return nil, fmt.Errorf("ticket not found")
	}

	png, err := qrcode.Encode(ticket.Code, qrcode.Medium, QRCodeSize)
	if err != nil {
		s.log.Error("Failed to render QR code", zap.Error(err), zap.String("ticket_id", ticketID))
		return nil, fmt.Errorf("render qr code: %w", err)
	}
	return png, nil
}

func (s *ticketService) CancelTicket(ctx context.Context, caller Caller, ticketID string) (*response.TicketResponse, error) {
	id, err := parseID(ticketID, "ticket")
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket not found")
	}

	staff := caller.IsStaff()
	if ticket.UserID != caller.ID && !staff {
		return nil, fmt.Errorf("ticket not found")
	}
	if ticket.Status != entity.TicketStatusActive {
		return nil, repository.ErrTicketNotActive
	}

	if !staff {
		showtime, err := s.repo.Showtime.FindByID(ctx, ticket.ShowtimeID)
		if err != nil {
			return nil, fmt.Errorf("get showtime: %w", err)
		}
		if showtime != nil && !showtime.StartsAt.After(time.Now()) {
			return nil, fmt.Errorf("cannot cancel a ticket after the showtime has started")
		}
	}

	if err := s.repo.Ticket.Cancel(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTicketNotActive) {
			return nil, err
		}
		s.log.Error("Failed to cancel ticket", zap.Error(err), zap.String("ticket_id", ticketID))
		return nil, fmt.Errorf("cancel ticket: %w", err)
	}

	if ticket.TransactionID != nil {
		if err := s.payments.Refund(ctx, *ticket.TransactionID, ticket.TotalPrice); err != nil {
			s.log.Error("Failed to refund cancelled ticket",
				zap.Error(err),
				zap.String("ticket_id", ticketID),
				zap.String("transaction_id", *ticket.TransactionID),
			)
		}
	}

	ticket.Status = entity.TicketStatusCancelled
	s.publish(ctx, messaging.EventTicketCancelled, ticket, map[string]any{
		"cancelled_by": caller.ID,
	})

	s.log.Info("Ticket cancelled",
		zap.String("ticket_id", ticketID),
		zap.String("by", caller.ID.String()),
		zap.Bool("staff", staff),
	)

	return s.summary(ctx, id)
}

func (s *ticketService) RedeemTicket(ctx context.Context, ticketID string) (*response.TicketResponse, error) {
	id, err := parseID(ticketID, "ticket")
	if err != nil {
		return nil, err
	}

	ticket, err := s.repo.Ticket.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket not found")
	}

	if err := s.repo.Ticket.UpdateStatus(ctx, id, entity.TicketStatusActive, entity.TicketStatusUsed); err != nil {
		if errors.Is(err, repository.ErrTicketNotActive) {
			return nil, err
		}
		s.log.Error("Failed to redeem ticket", zap.Error(err), zap.String("ticket_id", ticketID))
		return nil, fmt.Errorf("redeem ticket: %w", err)
	}

	ticket.Status = entity.TicketStatusUsed
	s.publish(ctx, messaging.EventTicketRedeemed, ticket, nil)

	s.log.Info("Ticket redeemed", zap.String("ticket_id", ticketID), zap.String("code", ticket.Code))

	return s.summary(ctx, id)
}

// ==================== HELPER METHODS ====================

func (s *ticketService) list(ctx context.Context, req *request.PaginatedRequest, filter repository.TicketFilter) (*response.PaginatedResponse[response.TicketResponse], error) {
	tickets, err := s.repo.Ticket.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get tickets", zap.Error(err))
		return nil, fmt.Errorf("get tickets: %w", err)
	}

	total, err := s.repo.Ticket.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count tickets", zap.Error(err))
		return nil, fmt.Errorf("count tickets: %w", err)
	}

	items := response.Map(tickets, response.TicketToResponse)
	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *ticketService) summary(ctx context.Context, id uuid.UUID) (*response.TicketResponse, error) {
	ticket, err := s.repo.Ticket.FindSummaryByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil {
		return nil, fmt.Errorf("ticket not found")
	}

	resp := response.TicketToResponse(ticket)
	return &resp, nil
}

// publish is best effort; the purchase is already committed.
func (s *ticketService) publish(ctx context.Context, eventType string, ticket *entity.Ticket, extra map[string]any) {
	payload := map[string]any{
		"ticket_id":   ticket.ID,
		"code":        ticket.Code,
		"user_id":     ticket.UserID,
		"showtime_id": ticket.ShowtimeID,
		"total_price": ticket.TotalPrice,
		"status":      ticket.Status,
	}
	for k, v := range extra {
		payload[k] = v
	}

	if err := s.publisher.Publish(ctx, eventType, ticket.ID.String(), payload); err != nil {
		s.log.Warn("Failed to publish ticket event",
			zap.Error(err),
			zap.String("event", eventType),
			zap.String("ticket_id", ticket.ID.String()),
		)
	}
}

func activePaymentMethod(ctx context.Context, methods repository.PaymentMethodRepository, code string) (*entity.PaymentMethod, error) {
	method, err := methods.FindByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("find payment method: %w", err)
	}
	if method == nil || !method.IsActive {
		return nil, fmt.Errorf("invalid payment method: %s", code)
	}
	return method, nil
}
