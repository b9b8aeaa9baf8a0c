package usecase

import (
	"context"
	"strings"
	"testing"
	"time"

	"movie-theater/internal/data/entity"
	"movie-theater/internal/data/repository"
	"movie-theater/internal/dto/request"
	"movie-theater/internal/dto/response"

	"github.com/google/uuid"
)

func ptr[T any](v T) *T { return &v }

func TestMovieListIsCachedUntilWrite(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	pagination := &request.PaginatedRequest{Page: 1, PerPage: 10}

	created, err := f.svc.Movie.CreateMovie(ctx, &request.MovieRequest{
		Title:             "Dune",
		ReleaseDate:       "2026-03-01",
		DurationInMinutes: 155,
		ReleaseStatus:     "now_playing",
	})
	if err != nil {
		t.Fatalf("CreateMovie() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		list, err := f.svc.Movie.GetMovies(ctx, pagination, repository.MovieFilter{})
		if err != nil {
			t.Fatalf("GetMovies() error = %v", err)
		}
		if len(list.Data) != 1 || list.Data[0].Title != "Dune" {
			t.Fatalf("GetMovies() = %+v", list.Data)
		}
	}
	if f.cache.fetches != 1 {
		t.Errorf("fetches = %d, want 1", f.cache.fetches)
	}

	invalidations := f.cache.invalidations
	if _, err := f.svc.Movie.UpdateMovie(ctx, created.ID, &request.MovieUpdateRequest{Title: ptr("Dune: Part Two")}); err != nil {
		t.Fatalf("UpdateMovie() error = %v", err)
	}
	if f.cache.invalidations != invalidations+1 {
		t.Error("update did not invalidate the movie cache")
	}

	list, err := f.svc.Movie.GetMovies(ctx, pagination, repository.MovieFilter{})
	if err != nil {
		t.Fatalf("GetMovies() error = %v", err)
	}
	if list.Data[0].Title != "Dune: Part Two" {
		t.Errorf("title after update = %q", list.Data[0].Title)
	}
}

func TestGetMoviesRejectsUnknownReleaseStatus(t *testing.T) {
	f := newFixture()
	_, err := f.svc.Movie.GetMovies(context.Background(), &request.PaginatedRequest{Page: 1, PerPage: 10}, repository.MovieFilter{ReleaseStatus: "archived"})
	if err == nil || !strings.Contains(err.Error(), "invalid release status") {
		t.Fatalf("GetMovies() error = %v", err)
	}
}

func TestMovieDetailIncludesUpcomingShowtimes(t *testing.T) {
	f := newFixture()
	upcoming := f.addShowtime(2, 2, 10, 2*time.Hour)
	past := &entity.Showtime{
		Base:      entity.Base{ID: uuid.New()},
		MovieID:   upcoming.MovieID,
		TheaterID: upcoming.TheaterID,
		StartsAt:  time.Now().Add(-2 * time.Hour),
	}
	f.store.showtimes[past.ID] = past

	detail, err := f.svc.Movie.GetMovieByID(context.Background(), upcoming.MovieID.String())
	if err != nil {
		t.Fatalf("GetMovieByID() error = %v", err)
	}
	if len(detail.Showtimes) != 1 || detail.Showtimes[0].ID != upcoming.ID.String() {
		t.Errorf("showtimes = %+v, want only the upcoming one", detail.Showtimes)
	}
	if detail.Showtimes[0].AvailableSeats != 4 {
		t.Errorf("available seats = %d, want 4", detail.Showtimes[0].AvailableSeats)
	}

	if _, err := f.svc.Movie.GetMovieByID(context.Background(), uuid.NewString()); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("unknown movie error = %v", err)
	}
}

func TestTheatersSortedByDistance(t *testing.T) {
	f := newFixture()
	for _, th := range []struct {
		name     string
		lat, lng float64
	}{
		{"Far", 40.0, -75.0},
		{"Near", 37.78, -122.42},
		{"Middle", 34.05, -118.24},
	} {
		f.store.theaters = append(f.store.theaters, &entity.Theater{
			Base: entity.Base{ID: uuid.New()}, Name: th.name, Latitude: th.lat, Longitude: th.lng,
		})
	}

	tests := []struct {
		name      string
		lat, lng  *float64
		want      []string
		distances bool
	}{
		{"no origin keeps repository order", nil, nil, []string{"Far", "Near", "Middle"}, false},
		{"origin sorts nearest first", ptr(37.77), ptr(-122.41), []string{"Near", "Middle", "Far"}, true},
		{"invalid origin ignored", ptr(120.0), ptr(10.0), []string{"Far", "Near", "Middle"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.svc.Theater.GetTheaters(context.Background(), tt.lat, tt.lng)
			if err != nil {
				t.Fatalf("GetTheaters() error = %v", err)
			}
			for i, name := range tt.want {
				if got[i].Name != name {
					t.Fatalf("order = %v, want %v", names(got), tt.want)
				}
				if (got[i].DistanceKm != nil) != tt.distances {
					t.Errorf("%s distance_km present = %v, want %v", name, got[i].DistanceKm != nil, tt.distances)
				}
			}
			if tt.distances && *got[0].DistanceKm > 2 {
				t.Errorf("nearest distance = %v km", *got[0].DistanceKm)
			}
		})
	}
}

func names(items []response.TheaterResponse) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.Name)
	}
	return out
}

func TestCreateShowtimeBuildsSeatGrid(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	movie := &entity.Movie{Base: entity.Base{ID: uuid.New()}, Title: "Arrival"}
	theater := &entity.Theater{Base: entity.Base{ID: uuid.New()}, Name: "Uptown"}
	f.store.movies[movie.ID] = movie
	f.store.theaters = append(f.store.theaters, theater)

	resp, err := f.svc.Showtime.CreateShowtime(ctx, &request.ShowtimeRequest{
		MovieID:     movie.ID.String(),
		TheaterID:   theater.ID.String(),
		Auditorium:  "3",
		StartsAt:    "2026-12-24T19:30:00Z",
		Price:       12.5,
		Rows:        3,
		SeatsPerRow: 4,
	})
	if err != nil {
		t.Fatalf("CreateShowtime() error = %v", err)
	}
	if resp.AvailableSeats != 12 || resp.MovieTitle != "Arrival" || resp.Date != "2026-12-24" || resp.Time != "19:30" {
		t.Errorf("CreateShowtime() = %+v", resp)
	}

	seats, _ := f.repo.Seat.FindByShowtime(ctx, uuid.MustParse(resp.ID))
	if len(seats) != 12 {
		t.Fatalf("seats = %d, want 12", len(seats))
	}
	if seats[0].Label != "A1" || seats[len(seats)-1].Label != "C4" {
		t.Errorf("labels = %s..%s, want A1..C4", seats[0].Label, seats[len(seats)-1].Label)
	}

	_, err = f.svc.Showtime.CreateShowtime(ctx, &request.ShowtimeRequest{
		MovieID:     uuid.NewString(),
		TheaterID:   theater.ID.String(),
		Auditorium:  "3",
		StartsAt:    "2026-12-24T19:30:00Z",
		Price:       12.5,
		Rows:        3,
		SeatsPerRow: 4,
	})
	if err == nil || !strings.Contains(err.Error(), "movie not found") {
		t.Errorf("unknown movie error = %v", err)
	}

	_, err = f.svc.Showtime.CreateShowtime(ctx, &request.ShowtimeRequest{
		MovieID:     movie.ID.String(),
		TheaterID:   theater.ID.String(),
		Auditorium:  "3",
		StartsAt:    "tomorrow",
		Price:       0,
		Rows:        27,
		SeatsPerRow: 4,
	})
	if err == nil || !strings.Contains(err.Error(), "validation failed") {
		t.Errorf("invalid request error = %v", err)
	}
}

func TestGetShowtimesByDate(t *testing.T) {
	f := newFixture()
	st := f.addShowtime(1, 1, 10, 0)
	st.StartsAt = time.Date(2026, 5, 1, 20, 0, 0, 0, time.UTC)

	got, err := f.svc.Showtime.GetShowtimes(context.Background(), ShowtimeQuery{Date: "2026-05-01"})
	if err != nil || len(got) != 1 {
		t.Fatalf("GetShowtimes(2026-05-01) = %v, %v", got, err)
	}

	got, err = f.svc.Showtime.GetShowtimes(context.Background(), ShowtimeQuery{Date: "2026-05-02"})
	if err != nil || len(got) != 0 {
		t.Fatalf("GetShowtimes(2026-05-02) = %v, %v", got, err)
	}

	if _, err := f.svc.Showtime.GetShowtimes(context.Background(), ShowtimeQuery{Date: "05/01/2026"}); err == nil {
		t.Error("malformed date accepted")
	}
}

func TestDeleteShowtimeRefusedWithActiveTickets(t *testing.T) {
	f := newFixture()
	st := f.addShowtime(1, 2, 10, time.Hour)
	f.store.tickets[uuid.New()] = &entity.Ticket{ShowtimeID: st.ID, Status: entity.TicketStatusActive}

	err := f.svc.Showtime.DeleteShowtime(context.Background(), st.ID.String())
	if err == nil || !strings.Contains(err.Error(), "cannot delete") {
		t.Fatalf("DeleteShowtime() error = %v", err)
	}

	for _, ticket := range f.store.tickets {
		ticket.Status = entity.TicketStatusCancelled
	}
	if err := f.svc.Showtime.DeleteShowtime(context.Background(), st.ID.String()); err != nil {
		t.Fatalf("DeleteShowtime() error = %v", err)
	}
}

func TestFoodItems(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	popcorn, err := f.svc.Food.CreateFoodItem(ctx, &request.FoodItemRequest{Name: "Popcorn", Price: 6.499, Category: "snack"})
	if err != nil {
		t.Fatalf("CreateFoodItem() error = %v", err)
	}
	if popcorn.Price != 6.5 || !popcorn.IsAvailable {
		t.Errorf("CreateFoodItem() = %+v", popcorn)
	}
	if _, err := f.svc.Food.CreateFoodItem(ctx, &request.FoodItemRequest{Name: "Soda", Price: 3, Category: "drink"}); err != nil {
		t.Fatalf("CreateFoodItem() error = %v", err)
	}

	drinks, err := f.svc.Food.GetFoodItems(ctx, "drink")
	if err != nil || len(drinks) != 1 || drinks[0].Name != "Soda" {
		t.Fatalf("GetFoodItems(drink) = %v, %v", drinks, err)
	}
	if _, err := f.svc.Food.GetFoodItems(ctx, "pizza"); err == nil {
		t.Error("unknown category accepted")
	}

	updated, err := f.svc.Food.UpdateFoodItem(ctx, popcorn.ID, &request.FoodItemUpdateRequest{IsAvailable: ptr(false)})
	if err != nil || updated.IsAvailable {
		t.Fatalf("UpdateFoodItem() = %+v, %v", updated, err)
	}

	if _, err := f.svc.Food.CreateFoodItem(ctx, &request.FoodItemRequest{Name: "Free", Price: 0, Category: "snack"}); err == nil {
		t.Error("zero price accepted")
	}
}
