// Package recommend implements the recommendation pipeline: history
// aggregation, AI generation with failover, output normalization,
// append-only caching, and read-time enrichment with exclusion
// filtering.
package recommend

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/ai"
	"github.com/HansKDev/sagarr/internal/preferences"
	"github.com/HansKDev/sagarr/internal/settings"
	"github.com/HansKDev/sagarr/internal/tautulli"
	"github.com/HansKDev/sagarr/internal/users"
)

// ErrNotMapped marks a user without a Tautulli identity mapping. This
// is a configuration problem, not a pipeline failure.
var ErrNotMapped = errors.New("user has no Tautulli mapping")

// HistoryProvider supplies watch history for a mapped identity.
type HistoryProvider interface {
	GetUserHistory(ctx context.Context, userID int64, limit int) ([]tautulli.HistoryRecord, error)
}

// Broadcaster pushes pipeline events to connected clients.
type Broadcaster interface {
	Broadcast(msgType string, payload interface{})
}

// ChainFactory builds the generation backend chain from current AI
// settings. Settings are read per generation so credential changes
// apply without restart.
type ChainFactory func(cfg settings.AI, logger zerolog.Logger) ai.Provider

// Service orchestrates the recommendation pipeline.
type Service struct {
	users       *users.Service
	preferences *preferences.Service
	settings    *settings.Service
	history     HistoryProvider
	store       *Store
	enricher    *enricher
	hub         Broadcaster
	newChain    ChainFactory
	logger      zerolog.Logger
}

// NewService creates a new recommendation service.
func NewService(
	usersService *users.Service,
	preferencesService *preferences.Service,
	settingsService *settings.Service,
	history HistoryProvider,
	metadata MetadataProvider,
	store *Store,
	hub Broadcaster,
	logger zerolog.Logger,
) *Service {
	log := logger.With().Str("component", "recommend").Logger()
	return &Service{
		users:       usersService,
		preferences: preferencesService,
		settings:    settingsService,
		history:     history,
		store:       store,
		enricher:    &enricher{metadata: metadata, logger: log},
		hub:         hub,
		newChain: func(cfg settings.AI, l zerolog.Logger) ai.Provider {
			return ai.NewChainFromSettings(cfg, l)
		},
		logger: log,
	}
}

// Generate runs one full generation pass for the user and appends the
// result to the cache. The stored payload may have empty lanes when
// every backend failed; that is still a valid generation.
func (s *Service) Generate(ctx context.Context, userID int64) (*CacheEntry, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.TautulliUserID == nil {
		return nil, ErrNotMapped
	}

	history, err := s.history.GetUserHistory(ctx, *user.TautulliUserID, historyLimit)
	if err != nil {
		return nil, err
	}
	history = FilterAdult(history)

	likes, err := s.preferences.Likes(ctx, userID)
	if err != nil {
		return nil, err
	}
	dislikes, err := s.preferences.Dislikes(ctx, userID)
	if err != nil {
		return nil, err
	}
	ratedIDs, err := s.preferences.RatedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	userContext := BuildUserContext(history, likes, dislikes, ratedIDs)
	prompt, system, err := BuildPrompt(userContext)
	if err != nil {
		return nil, err
	}

	aiCfg, err := s.settings.AI(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := s.newChain(aiCfg, s.logger).Generate(ctx, prompt, system)
	if err != nil {
		return nil, err
	}

	payload := ParsePayload(raw)
	entry, err := s.store.Append(ctx, userID, payload)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Int64("userId", userID).
		Int("movieCategories", len(payload.Movies)).
		Int("tvCategories", len(payload.TV)).
		Int("documentaryCategories", len(payload.Documentaries)).
		Msg("Recommendations generated")

	if s.hub != nil {
		s.hub.Broadcast("recommendations:updated", map[string]interface{}{
			"userId":      userID,
			"generatedAt": entry.CreatedAt,
		})
	}

	return entry, nil
}

// Get returns the user's enriched recommendations, generating them
// on demand when no cached entry exists yet.
func (s *Service) Get(ctx context.Context, userID int64) (*Response, error) {
	entry, err := s.store.Latest(ctx, userID)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		entry, err = s.Generate(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	ratedIDs, err := s.preferences.RatedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := s.enricher.Enrich(ctx, entry.Payload, ratedIDs, s.watchedTitles(ctx, userID))
	response.GeneratedAt = entry.CreatedAt
	return &response, nil
}

// Refresh forces a new generation and returns the enriched result.
func (s *Service) Refresh(ctx context.Context, userID int64) (*Response, error) {
	entry, err := s.Generate(ctx, userID)
	if err != nil {
		return nil, err
	}

	ratedIDs, err := s.preferences.RatedIDs(ctx, userID)
	if err != nil {
		return nil, err
	}

	response := s.enricher.Enrich(ctx, entry.Payload, ratedIDs, s.watchedTitles(ctx, userID))
	response.GeneratedAt = entry.CreatedAt
	return &response, nil
}

// RefreshAll regenerates cached recommendations for every mapped user.
// Per-user failures are logged and skipped so one user's broken state
// never stalls the sweep.
func (s *Service) RefreshAll(ctx context.Context) error {
	mapped, err := s.users.ListMapped(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	var failures int
	for _, user := range mapped {
		if _, err := s.Generate(ctx, user.ID); err != nil {
			failures++
			s.logger.Error().Err(err).Int64("userId", user.ID).Msg("Scheduled refresh failed for user")
		}
	}

	s.logger.Info().
		Int("users", len(mapped)).
		Int("failures", failures).
		Dur("elapsed", time.Since(start)).
		Msg("Scheduled recommendation refresh completed")
	return nil
}

// watchedTitles rebuilds the watched-title set from current history at
// read time. History being unavailable degrades to an empty set: items
// then pass the watched check rather than blocking the response.
func (s *Service) watchedTitles(ctx context.Context, userID int64) map[string]struct{} {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil || user.TautulliUserID == nil {
		return map[string]struct{}{}
	}

	history, err := s.history.GetUserHistory(ctx, *user.TautulliUserID, historyLimit)
	if err != nil {
		s.logger.Debug().Err(err).Int64("userId", userID).Msg("History unavailable for watched-title filtering")
		return map[string]struct{}{}
	}

	return WatchedTitles(FilterAdult(history))
}
