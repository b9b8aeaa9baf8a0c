// Package geo orders theaters by great-circle distance from a caller.
package geo

import (
	"math"
	"sort"
)

// EarthRadiusKm is the mean earth radius used by Distance.
const EarthRadiusKm = 6371.0

type Point struct {
	Latitude  float64
	Longitude float64
}

// Valid reports whether p is a usable coordinate pair.
func (p Point) Valid() bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// Distance returns the haversine distance between a and b in kilometres.
func Distance(a, b Point) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLng := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * EarthRadiusKm * math.Asin(math.Min(1, math.Sqrt(h)))
}

// Located is anything with a position.
type Located interface {
	Position() Point
}

// Ranked pairs an item with its distance from the origin.
type Ranked[T Located] struct {
	Item       T
	DistanceKm float64
}

// SortByDistance returns items ordered nearest first. Ties keep input order.
func SortByDistance[T Located](origin Point, items []T) []Ranked[T] {
	ranked := make([]Ranked[T], len(items))
	for i, item := range items {
		ranked[i] = Ranked[T]{Item: item, DistanceKm: Distance(origin, item.Position())}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	return ranked
}

func radians(deg float64) float64 {
	return deg * math.Pi / 180
}
