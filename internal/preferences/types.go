package preferences

import "time"

// Rating is the explicit feedback value stored for a (user, item) pair.
type Rating int

const (
	RatingDislike   Rating = -1
	RatingSeen      Rating = 0
	RatingLike      Rating = 1
	RatingRequested Rating = 2
)

// Valid reports whether the rating is one of the known values.
func (r Rating) Valid() bool {
	switch r {
	case RatingDislike, RatingSeen, RatingLike, RatingRequested:
		return true
	}
	return false
}

// Preference is one feedback row. A user has at most one active row per
// TMDB id; rating again replaces the previous value.
type Preference struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	TmdbID    int64     `json:"tmdbId"`
	MediaType string    `json:"mediaType"`
	Rating    Rating    `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}
