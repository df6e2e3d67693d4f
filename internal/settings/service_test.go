package settings

import (
	"context"
	"testing"

	"github.com/HansKDev/sagarr/internal/config"
	"github.com/HansKDev/sagarr/internal/testutil"
)

func TestService_GetUnsetKey(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, tdb.Logger)

	value, err := service.Get(context.Background(), KeyTautulliURL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "" {
		t.Errorf("Get() = %q, want empty for unset key", value)
	}
}

func TestService_SetAndGet(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, tdb.Logger)
	ctx := context.Background()

	if err := service.Set(ctx, KeyTautulliURL, "http://tautulli:8181"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := service.Set(ctx, KeyTautulliURL, "http://other:8181"); err != nil {
		t.Fatalf("Set() upsert error = %v", err)
	}

	value, err := service.Get(ctx, KeyTautulliURL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "http://other:8181" {
		t.Errorf("Get() = %q, want upserted value", value)
	}
}

func TestService_SeedDoesNotOverwrite(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, tdb.Logger)
	ctx := context.Background()

	if err := service.Set(ctx, KeyTautulliURL, "http://existing:8181"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	cfg := config.Default()
	cfg.Tautulli.URL = "http://from-config:8181"
	cfg.TMDB.APIKey = "tmdb-key"
	if err := service.Seed(ctx, cfg); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	url, _ := service.Get(ctx, KeyTautulliURL)
	if url != "http://existing:8181" {
		t.Errorf("seeded over existing value: %q", url)
	}

	tmdbKey, _ := service.Get(ctx, KeyTMDBAPIKey)
	if tmdbKey != "tmdb-key" {
		t.Errorf("TMDB key = %q, want seeded value", tmdbKey)
	}

	// First run generates a Plex client identifier.
	clientID, _ := service.Get(ctx, KeyPlexClientID)
	if clientID == "" {
		t.Error("plex client id not generated on seed")
	}

	// Seeding again keeps the generated identifier stable.
	if err := service.Seed(ctx, cfg); err != nil {
		t.Fatalf("Seed() error = %v", err)
	}
	again, _ := service.Get(ctx, KeyPlexClientID)
	if again != clientID {
		t.Errorf("plex client id changed across seeds: %q != %q", again, clientID)
	}
}

func TestService_AIDefaultsProvider(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, tdb.Logger)

	ai, err := service.AI(context.Background())
	if err != nil {
		t.Fatalf("AI() error = %v", err)
	}
	if ai.Provider != ProviderKindOpenAI {
		t.Errorf("Provider = %q, want default %q", ai.Provider, ProviderKindOpenAI)
	}
}

func TestService_SnapshotMasksSecrets(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, tdb.Logger)
	ctx := context.Background()

	if err := service.Set(ctx, KeyTautulliAPIKey, "tautulli-secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := service.Set(ctx, KeyAIAPIKey, "sk-secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	snapshot, err := service.Snapshot(ctx)
	if err != nil {
		t.Fatalf("Snapshot() error = %v", err)
	}
	if snapshot.TautulliAPIKey != "***" {
		t.Errorf("TautulliAPIKey = %q, want masked", snapshot.TautulliAPIKey)
	}
	if snapshot.AIAPIKey != "***" {
		t.Errorf("AIAPIKey = %q, want masked", snapshot.AIAPIKey)
	}
	// Unset secrets stay empty so the UI can tell unset from masked.
	if snapshot.OverseerrAPIKey != "" {
		t.Errorf("OverseerrAPIKey = %q, want empty", snapshot.OverseerrAPIKey)
	}
}

func TestService_UpdateIgnoresMaskedValues(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	service := NewService(tdb.Conn, tdb.Logger)
	ctx := context.Background()

	if err := service.Set(ctx, KeyAIAPIKey, "sk-original"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	maskedValue := "***"
	newURL := "http://tautulli:8181"
	empty := ""
	if err := service.Update(ctx, UpdateInput{
		AIAPIKey:       &maskedValue,
		TautulliURL:    &newURL,
		TautulliAPIKey: &empty,
	}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	key, _ := service.Get(ctx, KeyAIAPIKey)
	if key != "sk-original" {
		t.Errorf("masked update overwrote secret: %q", key)
	}
	url, _ := service.Get(ctx, KeyTautulliURL)
	if url != "http://tautulli:8181" {
		t.Errorf("TautulliURL = %q, want updated value", url)
	}
}
