package response

import (
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
)

type MovieResponse struct {
	ID                string    `json:"id"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	ImageURL          *string   `json:"image_url,omitempty"`
	DurationInMinutes int       `json:"duration_in_minutes"`
	ReleaseDate       string    `json:"release_date"`
	ReleaseStatus     string    `json:"release_status"`
	CreatedAt         time.Time `json:"created_at"`
}

type MovieDetailResponse struct {
	MovieResponse
	UpdatedAt time.Time          `json:"updated_at"`
	Showtimes []ShowtimeResponse `json:"showtimes"`
}

func MovieToResponse(movie *entity.Movie) MovieResponse {
	return MovieResponse{
		ID:                movie.ID.String(),
		Title:             movie.Title,
		Description:       movie.Description,
		ImageURL:          movie.ImageURL,
		DurationInMinutes: movie.DurationInMinutes,
		ReleaseDate:       movie.ReleaseDate.Format("2006-01-02"),
		ReleaseStatus:     string(movie.ReleaseStatus),
		CreatedAt:         movie.CreatedAt,
	}
}

func MovieToDetailResponse(movie *entity.Movie, showtimes []*repository.ShowtimeDetail) MovieDetailResponse {
	return MovieDetailResponse{
		MovieResponse: MovieToResponse(movie),
		UpdatedAt:     movie.UpdatedAt,
		Showtimes:     Map(showtimes, ShowtimeToResponse),
	}
}
