package response

import (
	"time"

	"movie-theater/internal/data/repository"
)

type ShowtimeResponse struct {
	ID             string    `json:"id"`
	MovieID        string    `json:"movie_id"`
	MovieTitle     string    `json:"movie_title"`
	TheaterID      string    `json:"theater_id"`
	TheaterName    string    `json:"theater_name"`
	Auditorium     string    `json:"auditorium"`
	StartsAt       time.Time `json:"starts_at"`
	Date           string    `json:"date"`
	Time           string    `json:"time"`
	Price          float64   `json:"price"`
	Rows           int       `json:"rows"`
	SeatsPerRow    int       `json:"seats_per_row"`
	AvailableSeats int       `json:"available_seats"`
}

func ShowtimeToResponse(showtime *repository.ShowtimeDetail) ShowtimeResponse {
	return ShowtimeResponse{
		ID:             showtime.ID.String(),
		MovieID:        showtime.MovieID.String(),
		MovieTitle:     showtime.MovieTitle,
		TheaterID:      showtime.TheaterID.String(),
		TheaterName:    showtime.TheaterName,
		Auditorium:     showtime.Auditorium,
		StartsAt:       showtime.StartsAt,
		Date:           showtime.StartsAt.Format("2006-01-02"),
		Time:           showtime.StartsAt.Format("15:04"),
		Price:          showtime.Price,
		Rows:           showtime.SeatRows,
		SeatsPerRow:    showtime.SeatsPerRow,
		AvailableSeats: showtime.AvailableSeats,
	}
}
