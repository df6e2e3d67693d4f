package tautulli

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/HansKDev/sagarr/internal/settings"
	"github.com/HansKDev/sagarr/internal/testutil"
)

// staticSettings serves fixed connection settings.
type staticSettings struct {
	cfg settings.Tautulli
}

func (s *staticSettings) Tautulli(_ context.Context) (settings.Tautulli, error) {
	return s.cfg, nil
}

func newTestClient(t *testing.T, url, apiKey string) *Client {
	t.Helper()
	return NewClient(&staticSettings{cfg: settings.Tautulli{URL: url, APIKey: apiKey}}, testutil.NewTestLogger(t))
}

func TestClient_UnconfiguredReturnsEmpty(t *testing.T) {
	client := newTestClient(t, "", "")

	history, err := client.GetUserHistory(context.Background(), 42, 300)
	if err != nil {
		t.Fatalf("GetUserHistory() error = %v, want nil when unconfigured", err)
	}
	if len(history) != 0 {
		t.Errorf("GetUserHistory() = %d records, want 0", len(history))
	}

	users, err := client.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers() error = %v, want nil when unconfigured", err)
	}
	if len(users) != 0 {
		t.Errorf("GetUsers() = %d users, want 0", len(users))
	}
}

func TestClient_GetUserHistory(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("cmd") != "get_history" {
			t.Errorf("cmd = %q, want get_history", q.Get("cmd"))
		}
		if q.Get("apikey") != "secret" {
			t.Errorf("apikey = %q, want secret", q.Get("apikey"))
		}
		if q.Get("user_id") != "42" {
			t.Errorf("user_id = %q, want 42", q.Get("user_id"))
		}
		if q.Get("length") != "300" {
			t.Errorf("length = %q, want 300", q.Get("length"))
		}
		if q.Get("media_type") != "movie,episode" {
			t.Errorf("media_type = %q, want movie,episode", q.Get("media_type"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"response": {"result": "success", "data": {"data": [
			{"media_type": "movie", "title": "Heat"},
			{"media_type": "episode", "title": "Pilot", "grandparent_title": "The Wire"}
		]}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "secret")

	history, err := client.GetUserHistory(context.Background(), 42, 300)
	if err != nil {
		t.Fatalf("GetUserHistory() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("GetUserHistory() = %d records, want 2", len(history))
	}
	if history[0].Title != "Heat" || history[1].GrandparentTitle != "The Wire" {
		t.Errorf("GetUserHistory() = %+v", history)
	}
}

func TestClient_GetUsersDirectList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response": {"result": "success", "data": [
			{"user_id": 1, "username": "alice"}
		]}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "secret")

	users, err := client.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].Username != "alice" {
		t.Errorf("GetUsers() = %+v", users)
	}
}

func TestClient_GetUsersNestedList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response": {"result": "success", "data": {"users": [
			{"user_id": 2, "username": "bob"}
		]}}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "secret")

	users, err := client.GetUsers(context.Background())
	if err != nil {
		t.Fatalf("GetUsers() error = %v", err)
	}
	if len(users) != 1 || users[0].UserID != 2 {
		t.Errorf("GetUsers() = %+v", users)
	}
}

func TestClient_APIErrorPropagates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"response": {"result": "error", "message": "Invalid apikey"}}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL, "wrong")

	if _, err := client.GetUserHistory(context.Background(), 42, 300); err == nil {
		t.Error("GetUserHistory() error = nil, want API error")
	}
}

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"http://tautulli:8181/", "http://tautulli:8181"},
		{"https://example.com", "https://example.com"},
		{"tautulli:8181", "http://tautulli:8181"},
		{"  http://x/  ", "http://x"},
	}
	for _, tt := range tests {
		if got := normalizeBaseURL(tt.in); got != tt.want {
			t.Errorf("normalizeBaseURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
