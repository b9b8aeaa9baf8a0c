package request

type ShowtimeRequest struct {
	MovieID     string  `json:"movie_id" validate:"required,uuid"`
	TheaterID   string  `json:"theater_id" validate:"required,uuid"`
	Auditorium  string  `json:"auditorium" validate:"required,min=1,max=50"`
	StartsAt    string  `json:"starts_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Rows        int     `json:"rows" validate:"required,min=1,max=26"`
	SeatsPerRow int     `json:"seats_per_row" validate:"required,min=1,max=30"`
}

type ShowtimeUpdateRequest struct {
	Auditorium *string  `json:"auditorium,omitempty" validate:"omitempty,min=1,max=50"`
	StartsAt   *string  `json:"starts_at,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
	Price      *float64 `json:"price,omitempty" validate:"omitempty,gt=0"`
}
