package usecase

import (
	"context"
	"fmt"
	"slices"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/domain/cart"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"
	"movie-theater/pkg/messaging"
	"movie-theater/pkg/payment"
	"movie-theater/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type OrderService interface {
	// Quote prices a cart without persisting anything.
	Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error)
	PlaceOrder(ctx context.Context, callerID uuid.UUID, req *request.PlaceOrderRequest) (*response.OrderResponse, error)
	GetMyOrders(ctx context.Context, callerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error)
	GetOrder(ctx context.Context, caller Caller, orderID string) (*response.OrderResponse, error)
	GetAllOrders(ctx context.Context, req *request.PaginatedRequest, status string) (*response.PaginatedResponse[response.OrderResponse], error)
	UpdateOrderStatus(ctx context.Context, orderID string, req *request.UpdateOrderStatusRequest) (*response.OrderResponse, error)
	GetPaymentMethods(ctx context.Context) ([]response.PaymentMethodResponse, error)
}

type orderService struct {
	repo      *repository.Repository
	payments  payment.Provider
	publisher messaging.Publisher
	log       *zap.Logger
}

func NewOrderService(repo *repository.Repository, payments payment.Provider, publisher messaging.Publisher, log *zap.Logger) OrderService {
	return &orderService{
		repo:      repo,
		payments:  payments,
		publisher: publisher,
		log:       log.With(zap.String("service", "order")),
	}
}

func (s *orderService) Quote(ctx context.Context, req *request.QuoteRequest) (*response.QuoteResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	c, err := s.buildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	return quoteFromCart(c), nil
}

func (s *orderService) PlaceOrder(ctx context.Context, callerID uuid.UUID, req *request.PlaceOrderRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Place order validation failed", zap.Any("errors", errs))
		return nil, validationError(errs)
	}

	c, err := s.buildCart(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	var ticketID *uuid.UUID
	if req.TicketID != nil {
		id, err := s.checkTicketSeat(ctx, callerID, *req.TicketID, req.SeatLabel)
		if err != nil {
			return nil, err
		}
		ticketID = &id
	}

	method, err := activePaymentMethod(ctx, s.repo.PaymentMethod, req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	order := &entity.Order{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Code:          utils.GenerateOrderCode(now),
		UserID:        callerID,
		TicketID:      ticketID,
		SeatLabel:     req.SeatLabel,
		PaymentMethod: method.Code,
		Total:         c.Total(),
		Status:        entity.OrderStatusPending,
	}
	for _, line := range c.Lines() {
		order.Items = append(order.Items, entity.OrderItem{
			BaseSimple: entity.BaseSimple{
				ID:        uuid.New(),
				CreatedAt: now,
			},
			OrderID:    order.ID,
			FoodItemID: line.Product.ID,
			Name:       line.Product.Name,
			UnitPrice:  line.Product.Price,
			Quantity:   line.Quantity,
			Subtotal:   line.Subtotal(),
		})
	}

	receipt, err := s.payments.Charge(ctx, payment.Charge{
		Method:    method.Code,
		Amount:    order.Total,
		Reference: order.Code,
	})
	if err != nil {
		s.log.Warn("Order payment failed", zap.Error(err), zap.String("code", order.Code))
		return nil, err
	}
	order.TransactionID = &receipt.TransactionID
	order.Status = entity.OrderStatusPaid

	if err := s.repo.Order.Create(ctx, order); err != nil {
		if refundErr := s.payments.Refund(ctx, receipt.TransactionID, receipt.Amount); refundErr != nil {
			s.log.Error("Failed to refund after order failure",
				zap.Error(refundErr),
				zap.String("transaction_id", receipt.TransactionID),
			)
		}
		s.log.Error("Failed to store order", zap.Error(err), zap.String("code", order.Code))
		return nil, fmt.Errorf("place order: %w", err)
	}

	s.publish(ctx, messaging.EventOrderPlaced, order)

	s.log.Info("Order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", callerID.String()),
		zap.Int("items", c.Count()),
		zap.Float64("total", order.Total),
	)

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetMyOrders(ctx context.Context, callerID uuid.UUID, req *request.PaginatedRequest) (*response.PaginatedResponse[response.OrderResponse], error) {
	return s.list(ctx, req, repository.OrderFilter{UserID: callerID})
}

func (s *orderService) GetAllOrders(ctx context.Context, req *request.PaginatedRequest, status string) (*response.PaginatedResponse[response.OrderResponse], error) {
	if status != "" && !validOrderStatus(entity.OrderStatus(status)) {
		return nil, fmt.Errorf("invalid order status: %s", status)
	}
	return s.list(ctx, req, repository.OrderFilter{Status: status})
}

func (s *orderService) GetOrder(ctx context.Context, caller Caller, orderID string) (*response.OrderResponse, error) {
	id, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil || (order.UserID != caller.ID && !caller.IsStaff()) {
		return nil, fmt.Errorf("order not found")
	}

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) UpdateOrderStatus(ctx context.Context, orderID string, req *request.UpdateOrderStatusRequest) (*response.OrderResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, validationError(errs)
	}

	id, err := parseID(orderID, "order")
	if err != nil {
		return nil, err
	}

	order, err := s.repo.Order.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order == nil {
		return nil, fmt.Errorf("order not found")
	}

	next := entity.OrderStatus(req.Status)
	if !order.Status.CanTransition(next) {
		return nil, fmt.Errorf("cannot change order status from %s to %s", order.Status, next)
	}

	if err := s.repo.Order.UpdateStatus(ctx, id, order.Status, next); err != nil {
		s.log.Warn("Failed to update order status", zap.Error(err), zap.String("order_id", orderID))
		return nil, err
	}

	if next == entity.OrderStatusCancelled && order.TransactionID != nil {
		if err := s.payments.Refund(ctx, *order.TransactionID, order.Total); err != nil {
			s.log.Error("Failed to refund cancelled order",
				zap.Error(err),
				zap.String("order_id", orderID),
			)
		}
	}

	previous := order.Status
	order.Status = next
	order.UpdatedAt = time.Now()
	s.publish(ctx, messaging.EventOrderStatus, order)

	s.log.Info("Order status updated",
		zap.String("order_id", orderID),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)

	resp := response.OrderToResponse(order)
	return &resp, nil
}

func (s *orderService) GetPaymentMethods(ctx context.Context) ([]response.PaymentMethodResponse, error) {
	methods, err := s.repo.PaymentMethod.FindAllActive(ctx)
	if err != nil {
		s.log.Error("Failed to get payment methods", zap.Error(err))
		return nil, fmt.Errorf("get payment methods: %w", err)
	}
	return response.Map(methods, response.PaymentMethodToResponse), nil
}

// ==================== HELPER METHODS ====================

// buildCart resolves requested items against the menu. Every item must
// exist and be available.
func (s *orderService) buildCart(ctx context.Context, items []request.OrderItemRequest) (*cart.Cart, error) {
	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id, err := parseID(item.FoodItemID, "food item")
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	found, err := s.repo.FoodItem.FindByIDs(ctx, ids)
	if err != nil {
		s.log.Error("Failed to load food items", zap.Error(err))
		return nil, fmt.Errorf("get food items: %w", err)
	}
	menu := make(map[uuid.UUID]*entity.FoodItem, len(found))
	for _, item := range found {
		menu[item.ID] = item
	}

	c := cart.New()
	for i, item := range items {
		food, ok := menu[ids[i]]
		if !ok {
			return nil, fmt.Errorf("food item not found: %s", item.FoodItemID)
		}
		if !food.IsAvailable {
			return nil, fmt.Errorf("%s is unavailable", food.Name)
		}
		product := cart.Product{ID: food.ID, Name: food.Name, Price: food.Price}
		if err := c.Add(product, item.Quantity); err != nil {
			return nil, err
		}
	}

	return c, nil
}

// checkTicketSeat confirms the caller holds an active ticket for the seat
// the order will be delivered to.
func (s *orderService) checkTicketSeat(ctx context.Context, callerID uuid.UUID, ticketID, seatLabel string) (uuid.UUID, error) {
	id, err := parseID(ticketID, "ticket")
	if err != nil {
		return uuid.Nil, err
	}

	ticket, err := s.repo.Ticket.FindSummaryByID(ctx, id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("get ticket: %w", err)
	}
	if ticket == nil || ticket.UserID != callerID {
		return uuid.Nil, fmt.Errorf("ticket not found")
	}
	if ticket.Status != entity.TicketStatusActive {
		return uuid.Nil, repository.ErrTicketNotActive
	}
	if !slices.Contains(ticket.SeatLabels, seatLabel) {
		return uuid.Nil, fmt.Errorf("invalid seat_label: %s is not on this ticket", seatLabel)
	}
	return id, nil
}

func (s *orderService) list(ctx context.Context, req *request.PaginatedRequest, filter repository.OrderFilter) (*response.PaginatedResponse[response.OrderResponse], error) {
	orders, err := s.repo.Order.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		s.log.Error("Failed to get orders", zap.Error(err))
		return nil, fmt.Errorf("get orders: %w", err)
	}

	total, err := s.repo.Order.CountAll(ctx, filter)
	if err != nil {
		s.log.Error("Failed to count orders", zap.Error(err))
		return nil, fmt.Errorf("count orders: %w", err)
	}

	items := response.Map(orders, response.OrderToResponse)
	return response.NewPaginatedResponse(items, req.Page, req.Limit(), total), nil
}

func (s *orderService) publish(ctx context.Context, eventType string, order *entity.Order) {
	payload := map[string]any{
		"order_id":   order.ID,
		"code":       order.Code,
		"user_id":    order.UserID,
		"ticket_id":  order.TicketID,
		"seat_label": order.SeatLabel,
		"total":      order.Total,
		"status":     order.Status,
		"items":      len(order.Items),
	}
	if err := s.publisher.Publish(ctx, eventType, order.ID.String(), payload); err != nil {
		s.log.Warn("Failed to publish order event",
			zap.Error(err),
			zap.String("event", eventType),
			zap.String("order_id", order.ID.String()),
		)
	}
}

func quoteFromCart(c *cart.Cart) *response.QuoteResponse {
	lines := c.Lines()
	items := make([]response.OrderLineResponse, 0, len(lines))
	for _, line := range lines {
		items = append(items, response.OrderLineResponse{
			FoodItemID: line.Product.ID.String(),
			Name:       line.Product.Name,
			UnitPrice:  line.Product.Price,
			Quantity:   line.Quantity,
			Subtotal:   line.Subtotal(),
		})
	}
	return &response.QuoteResponse{
		Items:     items,
		ItemCount: c.Count(),
		Total:     c.Total(),
	}
}

func validOrderStatus(status entity.OrderStatus) bool {
	switch status {
	case entity.OrderStatusPending, entity.OrderStatusPaid, entity.OrderStatusPreparing,
		entity.OrderStatusDelivered, entity.OrderStatusCancelled:
		return true
	}
	return false
}
