package overseerr

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HansKDev/sagarr/internal/settings"
	"github.com/HansKDev/sagarr/internal/testutil"
)

type staticSettings struct {
	cfg settings.Overseerr
}

func (s *staticSettings) Overseerr(_ context.Context) (settings.Overseerr, error) {
	return s.cfg, nil
}

func newTestClient(t *testing.T, url, apiKey string) *Client {
	t.Helper()
	return NewClient(&staticSettings{cfg: settings.Overseerr{URL: url, APIKey: apiKey}}, testutil.NewTestLogger(t))
}

func TestClient_NotConfigured(t *testing.T) {
	client := newTestClient(t, "", "")

	if _, err := client.CheckAvailability(context.Background(), 603, "movie"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("CheckAvailability() error = %v, want ErrNotConfigured", err)
	}
	if err := client.RequestMedia(context.Background(), 603, "movie"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("RequestMedia() error = %v, want ErrNotConfigured", err)
	}
}

func TestClient_CheckAvailabilityStatusMapping(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"no media info", `{}`, StatusMissing},
		{"available", `{"mediaInfo": {"status": 5}}`, StatusAvailable},
		{"partially available", `{"mediaInfo": {"status": 4}}`, StatusPartiallyAvailable},
		{"processing", `{"mediaInfo": {"status": 3}}`, StatusProcessing},
		{"pending", `{"mediaInfo": {"status": 2}}`, StatusPending},
		{"pending request", `{"mediaInfo": {"status": 1, "requests": [{"status": 1}]}}`, StatusPending},
		{"unknown status", `{"mediaInfo": {"status": 1}}`, StatusMissing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Header.Get("X-Api-Key") != "key" {
					t.Errorf("X-Api-Key = %q, want key", r.Header.Get("X-Api-Key"))
				}
				if r.URL.Path != "/api/v1/movie/603" {
					t.Errorf("path = %q, want /api/v1/movie/603", r.URL.Path)
				}
				fmt.Fprint(w, tt.body)
			}))
			defer server.Close()

			client := newTestClient(t, server.URL, "key")

			got, err := client.CheckAvailability(context.Background(), 603, "movie")
			if err != nil {
				t.Fatalf("CheckAvailability() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckAvailability() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClient_RequestMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/request" {
			t.Errorf("request = %s %s, want POST /api/v1/request", r.Method, r.URL.Path)
		}

		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if payload["mediaId"] != float64(603) {
			t.Errorf("mediaId = %v, want 603", payload["mediaId"])
		}
		if payload["mediaType"] != "movie" {
			t.Errorf("mediaType = %v, want movie", payload["mediaType"])
		}
		if payload["is4k"] != false {
			t.Errorf("is4k = %v, want false", payload["is4k"])
		}

		w.WriteHeader(http.StatusCreated)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "key")

	if err := client.RequestMedia(context.Background(), 603, "movie"); err != nil {
		t.Fatalf("RequestMedia() error = %v", err)
	}
}

func TestClient_RequestMediaAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "key")

	if err := client.RequestMedia(context.Background(), 603, "movie"); !errors.Is(err, ErrAPIError) {
		t.Errorf("RequestMedia() error = %v, want ErrAPIError", err)
	}
}
