package response

import (
	"math"

	"movie-theater/internal/data/entity"
)

type TheaterResponse struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Address    string   `json:"address"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Amenities  []string `json:"amenities"`
	DistanceKm *float64 `json:"distance_km,omitempty"`
}

func TheaterToResponse(theater *entity.Theater) TheaterResponse {
	amenities := theater.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return TheaterResponse{
		ID:        theater.ID.String(),
		Name:      theater.Name,
		Address:   theater.Address,
		Latitude:  theater.Latitude,
		Longitude: theater.Longitude,
		Amenities: amenities,
	}
}

// WithDistance attaches the distance rounded to 0.1 km.
func (r TheaterResponse) WithDistance(km float64) TheaterResponse {
	rounded := math.Round(km*10) / 10
	r.DistanceKm = &rounded
	return r
}
