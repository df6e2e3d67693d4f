// Package settings stores runtime-editable external service credentials
// in the settings table. Clients read them per call so admin changes
// take effect on the next request without a restart.
package settings

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/config"
)

const masked = "***"

// Service provides access to runtime service settings.
type Service struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewService creates a new settings service.
func NewService(db *sql.DB, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		logger: logger.With().Str("component", "settings").Logger(),
	}
}

// Get returns the value for a key, or "" when unset.
func (s *Service) Get(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

// Set upserts the value for a key.
func (s *Service) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// Seed copies config seed values into the settings table for keys that
// have no stored value yet, and generates the Plex client identifier on
// first run.
func (s *Service) Seed(ctx context.Context, cfg *config.Config) error {
	seeds := map[string]string{
		KeyTautulliURL:       cfg.Tautulli.URL,
		KeyTautulliAPIKey:    cfg.Tautulli.APIKey,
		KeyOverseerrURL:      cfg.Overseerr.URL,
		KeyOverseerrAPIKey:   cfg.Overseerr.APIKey,
		KeyTMDBAPIKey:        cfg.TMDB.APIKey,
		KeyAIProvider:        cfg.AI.Provider,
		KeyAIAPIKey:          cfg.AI.APIKey,
		KeyAIBaseURL:         cfg.AI.BaseURL,
		KeyAIModel:           cfg.AI.Model,
		KeyAIFallbackKind:    cfg.AI.FallbackKind,
		KeyAIFallbackAPIKey:  cfg.AI.FallbackAPIKey,
		KeyAIFallbackBaseURL: cfg.AI.FallbackBaseURL,
		KeyAIFallbackModel:   cfg.AI.FallbackModel,
		KeyPlexClientID:      uuid.NewString(),
	}

	for key, value := range seeds {
		if value == "" {
			continue
		}
		existing, err := s.Get(ctx, key)
		if err != nil {
			return err
		}
		if existing != "" {
			continue
		}
		if err := s.Set(ctx, key, value); err != nil {
			return err
		}
	}

	return nil
}

// Tautulli returns the current Tautulli connection settings.
func (s *Service) Tautulli(ctx context.Context) (Tautulli, error) {
	url, err := s.Get(ctx, KeyTautulliURL)
	if err != nil {
		return Tautulli{}, err
	}
	key, err := s.Get(ctx, KeyTautulliAPIKey)
	if err != nil {
		return Tautulli{}, err
	}
	return Tautulli{URL: url, APIKey: key}, nil
}

// Overseerr returns the current Overseerr connection settings.
func (s *Service) Overseerr(ctx context.Context) (Overseerr, error) {
	url, err := s.Get(ctx, KeyOverseerrURL)
	if err != nil {
		return Overseerr{}, err
	}
	key, err := s.Get(ctx, KeyOverseerrAPIKey)
	if err != nil {
		return Overseerr{}, err
	}
	return Overseerr{URL: url, APIKey: key}, nil
}

// TMDBAPIKey returns the current TMDB API key.
func (s *Service) TMDBAPIKey(ctx context.Context) (string, error) {
	return s.Get(ctx, KeyTMDBAPIKey)
}

// AI returns the current generative backend settings.
func (s *Service) AI(ctx context.Context) (AI, error) {
	var ai AI
	var err error

	read := func(key string) string {
		if err != nil {
			return ""
		}
		var v string
		v, err = s.Get(ctx, key)
		return v
	}

	ai.Provider = read(KeyAIProvider)
	ai.APIKey = read(KeyAIAPIKey)
	ai.BaseURL = read(KeyAIBaseURL)
	ai.Model = read(KeyAIModel)
	ai.FallbackKind = read(KeyAIFallbackKind)
	ai.FallbackAPIKey = read(KeyAIFallbackAPIKey)
	ai.FallbackBaseURL = read(KeyAIFallbackBaseURL)
	ai.FallbackModel = read(KeyAIFallbackModel)
	if err != nil {
		return AI{}, err
	}

	if ai.Provider == "" {
		ai.Provider = ProviderKindOpenAI
	}
	return ai, nil
}

// Snapshot returns all service settings with secrets masked for the admin UI.
func (s *Service) Snapshot(ctx context.Context) (Snapshot, error) {
	tautulli, err := s.Tautulli(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	overseerr, err := s.Overseerr(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	tmdbKey, err := s.TMDBAPIKey(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	ai, err := s.AI(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	return Snapshot{
		TautulliURL:       tautulli.URL,
		TautulliAPIKey:    maskSecret(tautulli.APIKey),
		OverseerrURL:      overseerr.URL,
		OverseerrAPIKey:   maskSecret(overseerr.APIKey),
		TMDBAPIKey:        maskSecret(tmdbKey),
		AIProvider:        ai.Provider,
		AIAPIKey:          maskSecret(ai.APIKey),
		AIBaseURL:         ai.BaseURL,
		AIModel:           ai.Model,
		AIFallbackKind:    ai.FallbackKind,
		AIFallbackAPIKey:  maskSecret(ai.FallbackAPIKey),
		AIFallbackBaseURL: ai.FallbackBaseURL,
		AIFallbackModel:   ai.FallbackModel,
	}, nil
}

// Update applies admin settings changes, skipping nil, empty and masked values.
func (s *Service) Update(ctx context.Context, input UpdateInput) error {
	updates := map[string]*string{
		KeyTautulliURL:       input.TautulliURL,
		KeyTautulliAPIKey:    input.TautulliAPIKey,
		KeyOverseerrURL:      input.OverseerrURL,
		KeyOverseerrAPIKey:   input.OverseerrAPIKey,
		KeyTMDBAPIKey:        input.TMDBAPIKey,
		KeyAIProvider:        input.AIProvider,
		KeyAIAPIKey:          input.AIAPIKey,
		KeyAIBaseURL:         input.AIBaseURL,
		KeyAIModel:           input.AIModel,
		KeyAIFallbackKind:    input.AIFallbackKind,
		KeyAIFallbackAPIKey:  input.AIFallbackAPIKey,
		KeyAIFallbackBaseURL: input.AIFallbackBaseURL,
		KeyAIFallbackModel:   input.AIFallbackModel,
	}

	for key, value := range updates {
		if value == nil || *value == "" || *value == masked {
			continue
		}
		if err := s.Set(ctx, key, *value); err != nil {
			return err
		}
	}

	s.logger.Info().Msg("Service settings updated")
	return nil
}

func maskSecret(value string) string {
	if value == "" {
		return ""
	}
	return masked
}
