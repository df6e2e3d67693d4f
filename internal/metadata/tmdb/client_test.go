package tmdb

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/HansKDev/sagarr/internal/testutil"
)

type staticKey string

func (k staticKey) TMDBAPIKey(_ context.Context) (string, error) {
	return string(k), nil
}

func TestClient_MissingAPIKey(t *testing.T) {
	client := NewClient(staticKey(""), testutil.NewTestLogger(t))

	_, err := client.GetDetails(context.Background(), []int64{1}, KindMovie)
	if !errors.Is(err, ErrAPIKeyMissing) {
		t.Errorf("GetDetails() error = %v, want ErrAPIKeyMissing", err)
	}
}

func TestClient_GetDetails(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_key") != "key" {
			t.Errorf("api_key = %q, want key", r.URL.Query().Get("api_key"))
		}

		switch {
		case strings.HasPrefix(r.URL.Path, "/movie/603"):
			fmt.Fprint(w, `{"id": 603, "title": "The Matrix", "overview": "Simulated reality",
				"poster_path": "/matrix.jpg", "adult": false,
				"genres": [{"id": 878, "name": "Science Fiction"}]}`)
		case strings.HasPrefix(r.URL.Path, "/movie/404"):
			w.WriteHeader(http.StatusNotFound)
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(staticKey("key"), testutil.NewTestLogger(t))
	client.SetBaseURL(server.URL)

	// The failed lookup for 404 is skipped, not fatal.
	details, err := client.GetDetails(context.Background(), []int64{603, 404}, KindMovie)
	if err != nil {
		t.Fatalf("GetDetails() error = %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("GetDetails() = %d results, want 1", len(details))
	}
	d := details[0]
	if d.ID != 603 || d.Title != "The Matrix" {
		t.Errorf("details = %+v", d)
	}
	if len(d.Genres) != 1 || d.Genres[0].ID != 878 {
		t.Errorf("genres = %+v", d.Genres)
	}
}

func TestClient_GetDetailsTVKind(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasPrefix(r.URL.Path, "/tv/1438") {
			t.Errorf("path = %q, want /tv/1438", r.URL.Path)
		}
		fmt.Fprint(w, `{"id": 1438, "name": "The Wire"}`)
	}))
	defer server.Close()

	client := NewClient(staticKey("key"), testutil.NewTestLogger(t))
	client.SetBaseURL(server.URL)

	details, err := client.GetDetails(context.Background(), []int64{1438}, KindTV)
	if err != nil {
		t.Fatalf("GetDetails() error = %v", err)
	}
	if len(details) != 1 || details[0].DisplayTitle() != "The Wire" {
		t.Errorf("details = %+v, want series name as display title", details)
	}
}

func TestClient_GetDetailsUnknownKind(t *testing.T) {
	client := NewClient(staticKey("key"), testutil.NewTestLogger(t))

	if _, err := client.GetDetails(context.Background(), []int64{1}, "music"); err == nil {
		t.Error("GetDetails() error = nil, want unknown kind error")
	}
}

func TestGetImageURL(t *testing.T) {
	client := NewClient(staticKey("key"), testutil.NewTestLogger(t))

	if got := client.GetImageURL("/poster.jpg"); got != "https://image.tmdb.org/t/p/w500/poster.jpg" {
		t.Errorf("GetImageURL() = %q", got)
	}
	if got := client.GetImageURL(""); got != "" {
		t.Errorf("GetImageURL(\"\") = %q, want empty", got)
	}
}
