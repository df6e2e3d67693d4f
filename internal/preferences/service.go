// Package preferences stores explicit user feedback (like, dislike,
// seen, requested) and exposes the projections the recommendation
// pipeline reads: likes, dislikes, and the full rated-identifier
// exclusion set.
package preferences

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rs/zerolog"
)

var ErrInvalidRating = errors.New("invalid rating value")

// Service provides feedback storage and projections.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new preferences service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "preferences").Logger(),
	}
}

// Rate records feedback for an item, replacing any previous rating so
// that at most one active row exists per (user, tmdb id).
func (s *Service) Rate(ctx context.Context, userID, tmdbID int64, mediaType string, rating Rating) error {
	if !rating.Valid() {
		return ErrInvalidRating
	}
	if mediaType == "" {
		mediaType = "movie"
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, tmdb_id, media_type, rating)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(user_id, tmdb_id) DO UPDATE SET
			media_type = excluded.media_type,
			rating = excluded.rating,
			created_at = CURRENT_TIMESTAMP
	`, userID, tmdbID, mediaType, int(rating))
	if err != nil {
		return err
	}

	s.logger.Debug().Int64("userId", userID).Int64("tmdbId", tmdbID).Int("rating", int(rating)).Msg("Feedback stored")
	return nil
}

// Unrate removes feedback for an item, making it eligible for
// recommendation again.
func (s *Service) Unrate(ctx context.Context, userID, tmdbID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM user_preferences WHERE user_id = ? AND tmdb_id = ?`, userID, tmdbID)
	return err
}

// Likes returns the user's liked items.
func (s *Service) Likes(ctx context.Context, userID int64) ([]Preference, error) {
	return s.byRating(ctx, userID, RatingLike)
}

// Dislikes returns the user's disliked items.
func (s *Service) Dislikes(ctx context.Context, userID int64) ([]Preference, error) {
	return s.byRating(ctx, userID, RatingDislike)
}

// RatedIDs returns the set of all identifiers with any feedback row,
// regardless of sign. Items in this set are never re-suggested.
func (s *Service) RatedIDs(ctx context.Context, userID int64) (map[int64]struct{}, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tmdb_id FROM user_preferences WHERE user_id = ?`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make(map[int64]struct{})
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

func (s *Service) byRating(ctx context.Context, userID int64, rating Rating) ([]Preference, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, tmdb_id, media_type, rating, created_at
		FROM user_preferences
		WHERE user_id = ? AND rating = ?
		ORDER BY created_at DESC, id DESC
	`, userID, int(rating))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Preference
	for rows.Next() {
		var p Preference
		var ratingValue int
		if err := rows.Scan(&p.ID, &p.UserID, &p.TmdbID, &p.MediaType, &ratingValue, &p.CreatedAt); err != nil {
			return nil, err
		}
		p.Rating = Rating(ratingValue)
		result = append(result, p)
	}
	return result, rows.Err()
}
