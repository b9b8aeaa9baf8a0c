package entity

import (
	"time"
)

type ReleaseStatus string

const (
	ReleaseStatusNowPlaying ReleaseStatus = "now_playing"
	ReleaseStatusComingSoon ReleaseStatus = "coming_soon"
)

type Movie struct {
	Base
	Title             string        `db:"title"`
	Description       *string       `db:"description"`
	ImageURL          *string       `db:"image_url"`
	DurationInMinutes int           `db:"duration_in_minutes"`
	ReleaseDate       time.Time     `db:"release_date"`
	ReleaseStatus     ReleaseStatus `db:"release_status"`
}
