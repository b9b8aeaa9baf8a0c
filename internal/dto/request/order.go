package request

type OrderItemRequest struct {
	FoodItemID string `json:"food_item_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"required,min=1,max=20"`
}

type QuoteRequest struct {
	Items []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

type PlaceOrderRequest struct {
	Items         []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
	TicketID      *string            `json:"ticket_id,omitempty" validate:"omitempty,uuid"`
	SeatLabel     string             `json:"seat_label" validate:"required,max=8"`
	PaymentMethod string             `json:"payment_method" validate:"required,max=32"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid preparing delivered cancelled"`
}
