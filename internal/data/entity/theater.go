package entity

import "movie-theater/pkg/geo"

type Theater struct {
	Base
	Name      string   `db:"name"`
	Address   string   `db:"address"`
	Latitude  float64  `db:"latitude"`
	Longitude float64  `db:"longitude"`
	Amenities []string `db:"amenities"`
}

func (t *Theater) Position() geo.Point {
	return geo.Point{Latitude: t.Latitude, Longitude: t.Longitude}
}
