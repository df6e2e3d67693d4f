package ai

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/settings"
)

// Chain tries an ordered list of backends until one returns a non-empty
// response. Backend errors and empty responses are soft failures; when
// every backend fails the chain returns EmptyObject so downstream
// parsing degrades to empty categories instead of erroring.
type Chain struct {
	backends []Provider
	logger   zerolog.Logger
}

// NewChain creates a chain over the given backends.
func NewChain(logger zerolog.Logger, backends ...Provider) *Chain {
	return &Chain{
		backends: backends,
		logger:   logger.With().Str("component", "ai").Logger(),
	}
}

// Name returns the backend name.
func (c *Chain) Name() string {
	return "chain"
}

// Backends returns the configured backends in invocation order.
func (c *Chain) Backends() []Provider {
	return c.backends
}

// Generate invokes each backend in order and returns the first response
// whose trimmed text is non-empty, verbatim. Each backend is tried
// exactly once; one backend's failure never prevents trying the next.
func (c *Chain) Generate(ctx context.Context, prompt, system string) (string, error) {
	for _, backend := range c.backends {
		text, err := backend.Generate(ctx, prompt, system)
		if err != nil {
			c.logger.Warn().Err(err).Str("backend", backend.Name()).Msg("Backend failed, trying next")
			continue
		}
		if strings.TrimSpace(text) == "" {
			c.logger.Warn().Str("backend", backend.Name()).Msg("Backend returned empty response, trying next")
			continue
		}
		return text, nil
	}

	c.logger.Warn().Int("backends", len(c.backends)).Msg("All backends failed, returning empty result")
	return EmptyObject, nil
}

// NewChainFromSettings builds the failover chain from current AI
// settings: a primary backend, an optional fallback backend inheriting
// the primary credential and model where its own are absent, and - when
// neither validates - a single best-effort backend of the primary kind
// so that legacy setups with incomplete settings still attempt a call.
func NewChainFromSettings(cfg settings.AI, logger zerolog.Logger) *Chain {
	log := logger.With().Str("component", "ai").Logger()
	backends := make([]Provider, 0, 2)

	primary, err := buildBackend(cfg.Provider, cfg.APIKey, cfg.BaseURL, cfg.Model)
	if err != nil {
		log.Debug().Err(err).Str("kind", cfg.Provider).Msg("Primary backend not usable")
	} else {
		backends = append(backends, primary)
	}

	if cfg.FallbackKind != "" {
		apiKey := cfg.FallbackAPIKey
		if apiKey == "" {
			apiKey = cfg.APIKey
		}
		model := cfg.FallbackModel
		if model == "" {
			model = cfg.Model
		}

		fallback, err := buildBackend(cfg.FallbackKind, apiKey, cfg.FallbackBaseURL, model)
		if err != nil {
			log.Debug().Err(err).Str("kind", cfg.FallbackKind).Msg("Fallback backend not usable")
		} else {
			backends = append(backends, fallback)
		}
	}

	// Legacy compatibility: rather than failing hard with no usable
	// backend, construct the primary kind unvalidated and let the call
	// itself fail softly into the empty result.
	if len(backends) == 0 {
		if cfg.Provider == settings.ProviderKindOpenAI {
			backends = append(backends, newOpenAIProvider(cfg.APIKey, cfg.Model))
		} else {
			backends = append(backends, newCompatProvider(cfg.BaseURL, cfg.APIKey, cfg.Model))
		}
	}

	return NewChain(logger, backends...)
}

// buildBackend maps a provider kind to a backend. Only "openai" selects
// the hosted OpenAI API; every other kind is treated as an
// OpenAI-compatible endpoint and the configured base URL decides where
// the call goes.
func buildBackend(kind, apiKey, baseURL, model string) (Provider, error) {
	if kind == settings.ProviderKindOpenAI {
		return NewOpenAIProvider(apiKey, model)
	}
	return NewCompatProvider(baseURL, apiKey, model)
}
