package recommend

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/HansKDev/sagarr/internal/ai"
	"github.com/HansKDev/sagarr/internal/preferences"
	"github.com/HansKDev/sagarr/internal/settings"
	"github.com/HansKDev/sagarr/internal/tautulli"
	"github.com/HansKDev/sagarr/internal/testutil"
	"github.com/HansKDev/sagarr/internal/users"
)

// fakeHistory returns fixed records for any user.
type fakeHistory struct {
	records []tautulli.HistoryRecord
	err     error
}

func (f *fakeHistory) GetUserHistory(_ context.Context, _ int64, _ int) ([]tautulli.HistoryRecord, error) {
	return f.records, f.err
}

// fakeGenerator returns a fixed response and counts invocations.
type fakeGenerator struct {
	response string
	err      error
	calls    int
}

func (f *fakeGenerator) Name() string { return "fake" }

func (f *fakeGenerator) Generate(_ context.Context, _, _ string) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakeBroadcaster struct {
	messages []string
}

func (f *fakeBroadcaster) Broadcast(msgType string, _ interface{}) {
	f.messages = append(f.messages, msgType)
}

type serviceFixture struct {
	service     *Service
	preferences *preferences.Service
	history     *fakeHistory
	generator   *fakeGenerator
	hub         *fakeBroadcaster
	userID      int64
	unmappedID  int64
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	tdb := testutil.NewTestDB(t)
	t.Cleanup(tdb.Close)

	history := &fakeHistory{records: []tautulli.HistoryRecord{
		{MediaType: "movie", Title: "Heat"},
		{MediaType: "episode", Title: "Pilot", GrandparentTitle: "The Wire"},
	}}
	generator := &fakeGenerator{
		response: `{"movies": [{"title": "Picks", "reason": "r", "items": [1, 2]}]}`,
	}
	hub := &fakeBroadcaster{}

	usersService := users.NewService(tdb.Conn, tdb.Logger)
	prefService := preferences.NewService(tdb.Conn, tdb.Logger)
	settingsService := settings.NewService(tdb.Conn, tdb.Logger)

	service := NewService(
		usersService,
		prefService,
		settingsService,
		history,
		&fakeMetadata{details: nil},
		NewStore(tdb.Conn),
		hub,
		tdb.Logger,
	)
	service.newChain = func(_ settings.AI, _ zerolog.Logger) ai.Provider {
		return generator
	}

	return &serviceFixture{
		service:     service,
		preferences: prefService,
		history:     history,
		generator:   generator,
		hub:         hub,
		userID:      testutil.CreateUser(t, tdb.Conn, "alice", 42),
		unmappedID:  testutil.CreateUser(t, tdb.Conn, "bob", 0),
	}
}

func TestService_GenerateStoresPayload(t *testing.T) {
	f := newServiceFixture(t)

	entry, err := f.service.Generate(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(entry.Payload.Movies) != 1 {
		t.Fatalf("stored payload = %+v, want one movies category", entry.Payload)
	}
	if f.generator.calls != 1 {
		t.Errorf("generator calls = %d, want 1", f.generator.calls)
	}
	if len(f.hub.messages) != 1 || f.hub.messages[0] != "recommendations:updated" {
		t.Errorf("broadcast messages = %v, want one recommendations:updated", f.hub.messages)
	}
}

func TestService_GenerateUnmappedUser(t *testing.T) {
	f := newServiceFixture(t)

	_, err := f.service.Generate(context.Background(), f.unmappedID)
	if !errors.Is(err, ErrNotMapped) {
		t.Errorf("Generate() error = %v, want ErrNotMapped", err)
	}
	if f.generator.calls != 0 {
		t.Errorf("generator calls = %d, want 0", f.generator.calls)
	}
}

func TestService_GenerateHistoryFailure(t *testing.T) {
	f := newServiceFixture(t)
	f.history.err = errors.New("tautulli down")

	if _, err := f.service.Generate(context.Background(), f.userID); err == nil {
		t.Error("Generate() error = nil, want history failure to propagate")
	}
}

func TestService_GenerateAllBackendsFailed(t *testing.T) {
	// The chain degrades to "{}" on exhaustion; generation still stores
	// an entry so the failure is not retried on every read.
	f := newServiceFixture(t)
	f.generator.response = ai.EmptyObject

	entry, err := f.service.Generate(context.Background(), f.userID)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if len(entry.Payload.Movies)+len(entry.Payload.TV)+len(entry.Payload.Documentaries) != 0 {
		t.Errorf("payload = %+v, want empty lanes", entry.Payload)
	}
}

func TestService_GetGeneratesOnce(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	first, err := f.service.Get(ctx, f.userID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(first.Movies) != 1 {
		t.Fatalf("Get() movies = %+v, want one category", first.Movies)
	}

	// Second read serves the cache without another generation.
	if _, err := f.service.Get(ctx, f.userID); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if f.generator.calls != 1 {
		t.Errorf("generator calls = %d, want 1 (cache hit)", f.generator.calls)
	}
}

func TestService_GetExcludesRatedItems(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.service.Generate(ctx, f.userID); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Rating an item after generation hides it from subsequent reads
	// without regenerating.
	if err := f.preferences.Rate(ctx, f.userID, 1, "movie", preferences.RatingDislike); err != nil {
		t.Fatalf("Rate() error = %v", err)
	}

	resp, err := f.service.Get(ctx, f.userID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(resp.Movies) != 1 {
		t.Fatalf("movies = %+v, want one category", resp.Movies)
	}
	for _, item := range resp.Movies[0].Items {
		if item.TmdbID == 1 {
			t.Error("rated item still present in response")
		}
	}
	if f.generator.calls != 1 {
		t.Errorf("generator calls = %d, want 1", f.generator.calls)
	}
}

func TestService_RefreshAlwaysRegenerates(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.service.Refresh(ctx, f.userID); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if _, err := f.service.Refresh(ctx, f.userID); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if f.generator.calls != 2 {
		t.Errorf("generator calls = %d, want 2", f.generator.calls)
	}
}

func TestService_RefreshAllSkipsUnmapped(t *testing.T) {
	f := newServiceFixture(t)

	if err := f.service.RefreshAll(context.Background()); err != nil {
		t.Fatalf("RefreshAll() error = %v", err)
	}
	// Only the mapped user is swept.
	if f.generator.calls != 1 {
		t.Errorf("generator calls = %d, want 1", f.generator.calls)
	}
}

func TestService_WatchedTitlesDegradeOnHistoryFailure(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	if _, err := f.service.Generate(ctx, f.userID); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Reads still succeed when history is unavailable; the watched
	// filter just has nothing to match.
	f.history.err = errors.New("tautulli down")
	resp, err := f.service.Get(ctx, f.userID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(resp.Movies) != 1 {
		t.Errorf("movies = %+v, want cached category served", resp.Movies)
	}
}
