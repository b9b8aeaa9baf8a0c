package geo

import (
	"math"
	"testing"
)

type place struct {
	name string
	at   Point
}

func (p place) Position() Point { return p.at }

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{"same point", Point{40.7128, -74.0060}, Point{40.7128, -74.0060}, 0, 1e-9},
		{"one degree of longitude at the equator", Point{0, 0}, Point{0, 1}, 111.195, 0.01},
		{"new york to los angeles", Point{40.7128, -74.0060}, Point{34.0522, -118.2437}, 3935.7, 5},
		{"antipodes", Point{0, 0}, Point{0, 180}, math.Pi * EarthRadiusKm, 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.a, tt.b)
			if math.Abs(got-tt.want) > tt.tol {
				t.Fatalf("Distance = %.3f, want %.3f ± %.3f", got, tt.want, tt.tol)
			}
			if back := Distance(tt.b, tt.a); math.Abs(back-got) > 1e-9 {
				t.Fatalf("Distance not symmetric: %.6f vs %.6f", got, back)
			}
		})
	}
}

func TestSortByDistance(t *testing.T) {
	origin := Point{40.7580, -73.9855} // Times Square
	places := []place{
		{"brooklyn", Point{40.6782, -73.9442}},
		{"boston", Point{42.3601, -71.0589}},
		{"midtown", Point{40.7549, -73.9840}},
	}

	ranked := SortByDistance(origin, places)

	wantOrder := []string{"midtown", "brooklyn", "boston"}
	for i, name := range wantOrder {
		if ranked[i].Item.name != name {
			t.Fatalf("position %d = %s, want %s", i, ranked[i].Item.name, name)
		}
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].DistanceKm < ranked[i-1].DistanceKm {
			t.Fatalf("distances not ascending at %d: %v", i, ranked)
		}
	}
}

func TestSortByDistanceKeepsInputOrderOnTies(t *testing.T) {
	same := Point{10, 10}
	places := []place{{"first", same}, {"second", same}, {"third", same}}

	ranked := SortByDistance(Point{0, 0}, places)
	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].Item.name != want {
			t.Fatalf("position %d = %s, want %s", i, ranked[i].Item.name, want)
		}
	}
}

func TestPointValid(t *testing.T) {
	tests := []struct {
		p    Point
		want bool
	}{
		{Point{0, 0}, true},
		{Point{90, 180}, true},
		{Point{-90, -180}, true},
		{Point{90.1, 0}, false},
		{Point{0, -180.5}, false},
	}
	for _, tt := range tests {
		if got := tt.p.Valid(); got != tt.want {
			t.Errorf("%v.Valid() = %v, want %v", tt.p, got, tt.want)
		}
	}
}
