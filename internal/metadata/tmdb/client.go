// Package tmdb is the metadata provider client used to resolve bare
// TMDB identifiers into display metadata.
package tmdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
)

const (
	defaultBaseURL = "https://api.themoviedb.org/3"
	imageBaseURL   = "https://image.tmdb.org/t/p/w500"
)

var (
	ErrAPIKeyMissing = errors.New("TMDB API key is not configured")
	ErrAPIError      = errors.New("TMDB API error")
)

// KindMovie and KindTV select the details endpoint for a lookup.
const (
	KindMovie = "movie"
	KindTV    = "tv"
)

// SettingsSource provides the current TMDB API key.
// The key is read per call so runtime changes apply immediately.
type SettingsSource interface {
	TMDBAPIKey(ctx context.Context) (string, error)
}

// Client is a TMDB API client.
type Client struct {
	httpClient *http.Client
	settings   SettingsSource
	baseURL    string
	logger     zerolog.Logger
}

// NewClient creates a new TMDB client.
func NewClient(source SettingsSource, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		settings:   source,
		baseURL:    defaultBaseURL,
		logger:     logger.With().Str("component", "tmdb").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tmdb"
}

// Test verifies connectivity to the TMDB API.
func (c *Client) Test(ctx context.Context) error {
	apiKey, err := c.apiKey(ctx)
	if err != nil {
		return err
	}

	var result struct {
		Images struct {
			BaseURL string `json:"base_url"`
		} `json:"images"`
	}
	return c.doRequest(ctx, "/configuration", apiKey, &result)
}

// GetDetails batch-resolves display metadata for a set of TMDB IDs of
// the given kind. Returns ErrAPIKeyMissing when no key is configured;
// individual lookup failures are skipped rather than failing the batch.
func (c *Client) GetDetails(ctx context.Context, ids []int64, kind string) ([]Details, error) {
	apiKey, err := c.apiKey(ctx)
	if err != nil {
		return nil, err
	}

	if kind != KindMovie && kind != KindTV {
		return nil, fmt.Errorf("%w: unknown kind %q", ErrAPIError, kind)
	}

	results := make([]Details, 0, len(ids))
	for _, id := range ids {
		var details Details
		endpoint := fmt.Sprintf("/%s/%d", kind, id)
		if err := c.doRequest(ctx, endpoint, apiKey, &details); err != nil {
			c.logger.Debug().Err(err).Int64("tmdbId", id).Str("kind", kind).Msg("Details lookup failed")
			continue
		}
		results = append(results, details)
	}

	return results, nil
}

// GetImageURL returns the full poster URL for a poster path, or "" when
// the path is empty.
func (c *Client) GetImageURL(posterPath string) string {
	if posterPath == "" {
		return ""
	}
	return imageBaseURL + posterPath
}

func (c *Client) apiKey(ctx context.Context) (string, error) {
	apiKey, err := c.settings.TMDBAPIKey(ctx)
	if err != nil {
		return "", err
	}
	if apiKey == "" {
		return "", ErrAPIKeyMissing
	}
	return apiKey, nil
}

func (c *Client) doRequest(ctx context.Context, endpoint, apiKey string, out any) error {
	params := url.Values{}
	params.Set("api_key", apiKey)
	params.Set("language", "en-US")

	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// SetBaseURL overrides the API base URL. Used by tests.
func (c *Client) SetBaseURL(base string) {
	c.baseURL = base
}
