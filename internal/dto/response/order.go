package response

import (
	"time"

	"movie-theater/internal/data/entity"
)

type OrderLineResponse struct {
	FoodItemID string  `json:"food_item_id"`
	Name       string  `json:"name"`
	UnitPrice  float64 `json:"unit_price"`
	Quantity   int     `json:"quantity"`
	Subtotal   float64 `json:"subtotal"`
}

type QuoteResponse struct {
	Items     []OrderLineResponse `json:"items"`
	ItemCount int                 `json:"item_count"`
	Total     float64             `json:"total"`
}

type OrderResponse struct {
	ID            string              `json:"id"`
	Code          string              `json:"code"`
	TicketID      *string             `json:"ticket_id,omitempty"`
	SeatLabel     string              `json:"seat_label"`
	PaymentMethod string              `json:"payment_method"`
	Items         []OrderLineResponse `json:"items"`
	Total         float64             `json:"total"`
	Status        string              `json:"status"`
	TransactionID *string             `json:"transaction_id,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

func OrderToResponse(order *entity.Order) OrderResponse {
	var ticketID *string
	if order.TicketID != nil {
		id := order.TicketID.String()
		ticketID = &id
	}

	items := make([]OrderLineResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderLineResponse{
			FoodItemID: item.FoodItemID.String(),
			Name:       item.Name,
			UnitPrice:  item.UnitPrice,
			Quantity:   item.Quantity,
			Subtotal:   item.Subtotal,
		})
	}

	return OrderResponse{
		ID:            order.ID.String(),
		Code:          order.Code,
		TicketID:      ticketID,
		SeatLabel:     order.SeatLabel,
		PaymentMethod: order.PaymentMethod,
		Items:         items,
		Total:         order.Total,
		Status:        string(order.Status),
		TransactionID: order.TransactionID,
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}
}

type PaymentMethodResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

func PaymentMethodToResponse(method *entity.PaymentMethod) PaymentMethodResponse {
	return PaymentMethodResponse{
		Code: method.Code,
		Name: method.Name,
	}
}
