// Package tautulli is the watch-history provider client.
package tautulli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/settings"
)

var (
	ErrNotConfigured = errors.New("Tautulli is not configured")
	ErrAPIError      = errors.New("Tautulli API error")
)

// SettingsSource provides the current Tautulli connection settings.
// Settings are read per call so runtime changes apply immediately.
type SettingsSource interface {
	Tautulli(ctx context.Context) (settings.Tautulli, error)
}

// Client is a Tautulli API v2 client.
type Client struct {
	httpClient *http.Client
	settings   SettingsSource
	logger     zerolog.Logger
}

// NewClient creates a new Tautulli client.
func NewClient(source SettingsSource, logger zerolog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		settings:   source,
		logger:     logger.With().Str("component", "tautulli").Logger(),
	}
}

// Name returns the provider name.
func (c *Client) Name() string {
	return "tautulli"
}

// Test verifies connectivity by fetching the user list.
func (c *Client) Test(ctx context.Context) error {
	cfg, err := c.settings.Tautulli(ctx)
	if err != nil {
		return err
	}
	if cfg.URL == "" || cfg.APIKey == "" {
		return ErrNotConfigured
	}

	_, err = c.GetUsers(ctx)
	return err
}

// GetUsers fetches all users known to Tautulli. An unconfigured client
// returns an empty list, not an error.
func (c *Client) GetUsers(ctx context.Context) ([]User, error) {
	data, ok, err := c.call(ctx, "get_users", nil)
	if err != nil || !ok {
		return nil, err
	}

	// Tautulli may return the users list either directly as `data: []`
	// or nested under `data: { users: [] }`. Handle both.
	var direct []User
	if err := json.Unmarshal(data, &direct); err == nil {
		return direct, nil
	}

	var nested usersData
	if err := json.Unmarshal(data, &nested); err != nil {
		return nil, fmt.Errorf("failed to decode users response: %w", err)
	}
	return nested.Users, nil
}

// GetUserHistory fetches up to limit of the most recent watch-history
// records for a Tautulli user. An unconfigured client returns an empty
// list, not an error; transport and API failures propagate.
func (c *Client) GetUserHistory(ctx context.Context, userID int64, limit int) ([]HistoryRecord, error) {
	params := url.Values{}
	params.Set("user_id", strconv.FormatInt(userID, 10))
	params.Set("length", strconv.Itoa(limit))
	params.Set("media_type", "movie,episode")

	data, ok, err := c.call(ctx, "get_history", params)
	if err != nil || !ok {
		return nil, err
	}

	var payload historyData
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("failed to decode history response: %w", err)
	}
	return payload.Data, nil
}

// call performs one Tautulli API v2 command. The second return value is
// false when the client is not configured.
func (c *Client) call(ctx context.Context, cmd string, params url.Values) (json.RawMessage, bool, error) {
	cfg, err := c.settings.Tautulli(ctx)
	if err != nil {
		return nil, false, err
	}
	if cfg.URL == "" || cfg.APIKey == "" {
		return nil, false, nil
	}

	if params == nil {
		params = url.Values{}
	}
	params.Set("apikey", cfg.APIKey)
	params.Set("cmd", cmd)

	reqURL := fmt.Sprintf("%s/api/v2?%s", normalizeBaseURL(cfg.URL), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, true, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("cmd", cmd).Msg("HTTP request failed")
		return nil, true, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, true, fmt.Errorf("%w: status %d", ErrAPIError, resp.StatusCode)
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, true, fmt.Errorf("failed to decode response: %w", err)
	}

	if envelope.Response.Result != "success" {
		c.logger.Warn().Str("cmd", cmd).Str("message", envelope.Response.Message).Msg("Tautulli API returned error")
		return nil, true, fmt.Errorf("%w: %s", ErrAPIError, envelope.Response.Message)
	}

	return envelope.Response.Data, true, nil
}

// normalizeBaseURL trims trailing slashes and allows shorthand like
// "tautulli:8181" by assuming http.
func normalizeBaseURL(base string) string {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base != "" && !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "http://" + base
	}
	return base
}
