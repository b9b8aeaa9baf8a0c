package response

import "time"

type SeatResponse struct {
	ID         string `json:"id"`
	ShowtimeID string `json:"showtime_id"`
	Row        string `json:"row"`
	Number     int    `json:"number"`
	Label      string `json:"label"`
	Status     string `json:"status"`
}

type SeatMapResponse struct {
	ShowtimeID  string         `json:"showtime_id"`
	Rows        int            `json:"rows"`
	SeatsPerRow int            `json:"seats_per_row"`
	Seats       []SeatResponse `json:"seats"`
}

type SeatHoldResponse struct {
	ShowtimeID string    `json:"showtime_id"`
	SeatIDs    []string  `json:"seat_ids"`
	Labels     []string  `json:"labels"`
	Remaining  int       `json:"remaining"`
	Full       bool      `json:"full"`
	ExpiresAt  time.Time `json:"expires_at"`
}
