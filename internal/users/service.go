// Package users manages Sagarr accounts and their Tautulli identity
// mappings.
package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrUsernameTaken = errors.New("username is already taken")
)

// Service provides user management functionality.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new users service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "users").Logger(),
	}
}

const userColumns = `id, username, COALESCE(email, ''), COALESCE(thumb, ''), password_hash, is_admin, plex_id, tautulli_user_id, created_at`

// Create creates a new user.
func (s *Service) Create(ctx context.Context, input CreateInput) (*User, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (username, email, password_hash, is_admin, plex_id)
		VALUES (?, ?, ?, ?, ?)
	`, input.Username, input.Email, input.PasswordHash, input.IsAdmin, input.PlexID)
	if err != nil {
		// sqlite reports unique violations as generic errors; surface a
		// stable sentinel for the common case.
		if existing, lookupErr := s.GetByUsername(ctx, input.Username); lookupErr == nil && existing != nil {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	s.logger.Info().Int64("userId", id).Str("username", input.Username).Msg("User created")
	return s.GetByID(ctx, id)
}

// GetByID returns a user by id.
func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// GetByUsername returns a user by username.
func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

// List returns all users ordered by creation time.
func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

// ListMapped returns all users with a Tautulli identity mapping. The
// scheduled refresh sweep iterates this set.
func (s *Service) ListMapped(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE tautulli_user_id IS NOT NULL ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}

// Count returns the number of users.
func (s *Service) Count(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

// SetTautulliMapping sets or clears a user's Tautulli identity.
func (s *Service) SetTautulliMapping(ctx context.Context, userID int64, tautulliUserID *int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET tautulli_user_id = ? WHERE id = ?`, tautulliUserID, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}

	s.logger.Info().Int64("userId", userID).Msg("Tautulli mapping updated")
	return nil
}

// GetSettings returns the user's settings blob. Invalid stored JSON
// degrades to defaults.
func (s *Service) GetSettings(ctx context.Context, userID int64) (Settings, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, `SELECT settings FROM users WHERE id = ?`, userID).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Settings{}, ErrNotFound
		}
		return Settings{}, err
	}

	var settings Settings
	if err := json.Unmarshal([]byte(raw), &settings); err != nil {
		return Settings{}, nil //nolint:nilerr // Invalid JSON, use defaults
	}
	return settings, nil
}

// UpdateSettings merges the given settings into the stored blob.
func (s *Service) UpdateSettings(ctx context.Context, userID int64, input Settings) (Settings, error) {
	current, err := s.GetSettings(ctx, userID)
	if err != nil {
		return Settings{}, err
	}

	if input.DateCutoff != "" {
		current.DateCutoff = input.DateCutoff
	}

	data, err := json.Marshal(current)
	if err != nil {
		return Settings{}, err
	}

	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET settings = ? WHERE id = ?`, string(data), userID); err != nil {
		return Settings{}, err
	}

	return current, nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanUser.
type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*User, error) {
	var user User
	var plexID, tautulliID sql.NullInt64

	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Thumb,
		&user.passwordHash,
		&user.IsAdmin,
		&plexID,
		&tautulliID,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if plexID.Valid {
		user.PlexID = &plexID.Int64
	}
	if tautulliID.Valid {
		user.TautulliUserID = &tautulliID.Int64
	}

	return &user, nil
}
