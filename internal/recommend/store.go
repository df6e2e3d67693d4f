package recommend

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// Store persists recommendation cache entries. Entries are append-only:
// generation always inserts, never updates, and reads take the most
// recent entry. Older entries are retained as history.
type Store struct {
	db *sql.DB
}

// NewStore creates a new cache store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Append persists a new cache entry for the user.
func (s *Store) Append(ctx context.Context, userID int64, payload Payload) (*CacheEntry, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize payload: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO recommendation_cache (user_id, recommendations)
		VALUES (?, ?)
	`, userID, string(data))
	if err != nil {
		return nil, err
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	return s.getByID(ctx, id)
}

// Latest returns the most recent cache entry for the user, or nil when
// none exists.
func (s *Store) Latest(ctx context.Context, userID int64) (*CacheEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, recommendations, created_at
		FROM recommendation_cache
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`, userID)

	entry, err := scanEntry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return entry, nil
}

func (s *Store) getByID(ctx context.Context, id int64) (*CacheEntry, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, user_id, recommendations, created_at
		FROM recommendation_cache
		WHERE id = ?
	`, id)
	return scanEntry(row)
}

func scanEntry(row *sql.Row) (*CacheEntry, error) {
	var entry CacheEntry
	var raw string

	if err := row.Scan(&entry.ID, &entry.UserID, &raw, &entry.CreatedAt); err != nil {
		return nil, err
	}

	// A corrupt stored blob degrades to empty lanes like any other
	// unparseable payload.
	entry.Payload = ParsePayload(raw)
	return &entry, nil
}
