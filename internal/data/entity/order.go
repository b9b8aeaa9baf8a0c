package entity

import (
	"github.com/google/uuid"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusPaid, OrderStatusCancelled},
	OrderStatusPaid:      {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	BaseNoDelete
	Code          string      `db:"code"`
	UserID        uuid.UUID   `db:"user_id"`
	TicketID      *uuid.UUID  `db:"ticket_id"`
	SeatLabel     string      `db:"seat_label"`
	PaymentMethod string      `db:"payment_method"`
	Total         float64     `db:"total"`
	Status        OrderStatus `db:"status"`
	TransactionID *string     `db:"transaction_id"`
	Items         []OrderItem `db:"-"`
}

type OrderItem struct {
	BaseSimple
	OrderID    uuid.UUID `db:"order_id"`
	FoodItemID uuid.UUID `db:"food_item_id"`
	Name       string    `db:"name"`
	UnitPrice  float64   `db:"unit_price"`
	Quantity   int       `db:"quantity"`
	Subtotal   float64   `db:"subtotal"`
}
