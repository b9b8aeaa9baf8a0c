package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

const (
	EventTicketPurchased = "ticket.purchased"
	EventTicketCancelled = "ticket.cancelled"
	EventTicketRedeemed  = "ticket.redeemed"
	EventOrderPlaced     = "order.placed"
	EventOrderStatus     = "order.status_changed"
	EventOTPRequested    = "user.otp_requested"
)

// Event is the envelope written to the bus. Key is used for partitioning so
// events of one aggregate stay ordered.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

func NewEvent(eventType, key string, payload interface{}) (*Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Event{
		ID:         uuid.New(),
		Type:       eventType,
		Key:        key,
		OccurredAt: time.Now().UTC(),
		Payload:    data,
	}, nil
}
