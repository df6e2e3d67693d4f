// Package overseerr is the availability/request provider client used by
// the media endpoints.
package overseerr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/settings"
)

var (
	ErrNotConfigured = errors.New("Overseerr is not configured")
	ErrAPIError      = errors.New("Overseerr API error")
)

// Availability statuses derived from Overseerr media info.
const (
	StatusAvailable          = "available"
	StatusPartiallyAvailable = "partially_available"
	StatusProcessing         = "processing"
	StatusPending            = "pending"
	StatusMissing            = "missing"
	StatusUnknown            = "unknown"
)

// Overseerr media status codes.
const (
	mediaStatusPending            = 2
	mediaStatusProcessing         = 3
	mediaStatusPartiallyAvailable = 4
	mediaStatusAvailable          = 5
)

// SettingsSource provides the current Overseerr connection settings.
type SettingsSource interface {
	Overseerr(ctx context.Context) (settings.Overseerr, error)
}

// Client is an Overseerr API client.
type Client struct {
	httpClient *http.Client
	settings   SettingsSource
	logger     zerolog.Logger
}

// NewClient creates a new Overseerr client.
func NewClient(source SettingsSource, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		settings:   source,
		logger:     logger.With().Str("component", "overseerr").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "overseerr"
}

// mediaInfoResponse is the subset of an Overseerr media details response
// needed for availability mapping.
type mediaInfoResponse struct {
	MediaInfo *struct {
		Status   int `json:"status"`
		Requests []struct {
			Status int `json:"status"`
		} `json:"requests"`
	} `json:"mediaInfo"`
}

// CheckAvailability returns the availability status for a TMDB item.
func (c *Client) CheckAvailability(ctx context.Context, tmdbID int64, mediaType string) (string, error) {
	cfg, err := c.config(ctx)
	if err != nil {
		return "", err
	}

	endpoint := fmt.Sprintf("%s/api/v1/%s/%d", cfg.URL, mediaType, tmdbID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", cfg.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var details mediaInfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&details); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	if details.MediaInfo == nil {
		return StatusMissing, nil
	}

	requested := false
	for _, r := range details.MediaInfo.Requests {
		if r.Status == 1 { // pending approval
			requested = true
			break
		}
	}

	switch {
	case details.MediaInfo.Status == mediaStatusAvailable:
		return StatusAvailable, nil
	case details.MediaInfo.Status == mediaStatusPartiallyAvailable:
		return StatusPartiallyAvailable, nil
	case details.MediaInfo.Status == mediaStatusProcessing:
		return StatusProcessing, nil
	case requested || details.MediaInfo.Status == mediaStatusPending:
		return StatusPending, nil
	default:
		return StatusMissing, nil
	}
}

// RequestMedia submits a media request to Overseerr.
func (c *Client) RequestMedia(ctx context.Context, tmdbID int64, mediaType string) error {
	cfg, err := c.config(ctx)
	if err != nil {
		return err
	}

	payload := map[string]any{
		"mediaId":   tmdbID,
		"mediaType": mediaType,
		"is4k":      false,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	endpoint := fmt.Sprintf("%s/api/v1/request", cfg.URL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Api-Key", cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Int64("tmdbId", tmdbID).Msg("HTTP request failed")
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	c.logger.Info().Int64("tmdbId", tmdbID).Str("mediaType", mediaType).Msg("Media request submitted")
	return nil
}

func (c *Client) config(ctx context.Context) (settings.Overseerr, error) {
	cfg, err := c.settings.Overseerr(ctx)
	if err != nil {
		return settings.Overseerr{}, err
	}
	if cfg.URL == "" || cfg.APIKey == "" {
		return settings.Overseerr{}, ErrNotConfigured
	}
	cfg.URL = strings.TrimRight(cfg.URL, "/")
	return cfg, nil
}
