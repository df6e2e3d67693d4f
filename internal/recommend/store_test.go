package recommend

import (
	"context"
	"testing"

	"github.com/HansKDev/sagarr/internal/testutil"
)

func TestStore_LatestEmpty(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	store := NewStore(tdb.Conn)
	userID := testutil.CreateUser(t, tdb.Conn, "alice", 0)

	entry, err := store.Latest(context.Background(), userID)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if entry != nil {
		t.Errorf("Latest() = %+v, want nil for empty cache", entry)
	}
}

func TestStore_AppendAndLatest(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	store := NewStore(tdb.Conn)
	ctx := context.Background()
	userID := testutil.CreateUser(t, tdb.Conn, "alice", 0)

	payload := EmptyPayload()
	payload.Movies = []Category{{Title: "First", Reason: "r", Items: []int64{1}}}

	first, err := store.Append(ctx, userID, payload)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if first.ID == 0 {
		t.Error("Append() entry.ID = 0, want non-zero")
	}

	payload.Movies[0].Title = "Second"
	second, err := store.Append(ctx, userID, payload)
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	// Append never replaces: both rows exist and Latest picks the newer.
	var count int
	if err := tdb.Conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM recommendation_cache WHERE user_id = ?`, userID).Scan(&count); err != nil {
		t.Fatalf("count query error = %v", err)
	}
	if count != 2 {
		t.Errorf("cache rows = %d, want 2 (append-only)", count)
	}

	latest, err := store.Latest(ctx, userID)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if latest.ID != second.ID {
		t.Errorf("Latest().ID = %d, want %d", latest.ID, second.ID)
	}
	if latest.Payload.Movies[0].Title != "Second" {
		t.Errorf("Latest() payload title = %q, want %q", latest.Payload.Movies[0].Title, "Second")
	}
}

func TestStore_LatestIsPerUser(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	store := NewStore(tdb.Conn)
	ctx := context.Background()
	alice := testutil.CreateUser(t, tdb.Conn, "alice", 0)
	bob := testutil.CreateUser(t, tdb.Conn, "bob", 0)

	if _, err := store.Append(ctx, alice, EmptyPayload()); err != nil {
		t.Fatalf("Append() error = %v", err)
	}

	entry, err := store.Latest(ctx, bob)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if entry != nil {
		t.Errorf("Latest() for other user = %+v, want nil", entry)
	}
}

func TestStore_CorruptBlobDegradesToEmpty(t *testing.T) {
	tdb := testutil.NewTestDB(t)
	defer tdb.Close()

	store := NewStore(tdb.Conn)
	ctx := context.Background()
	userID := testutil.CreateUser(t, tdb.Conn, "alice", 0)

	if _, err := tdb.Conn.ExecContext(ctx,
		`INSERT INTO recommendation_cache (user_id, recommendations) VALUES (?, ?)`,
		userID, "{not json"); err != nil {
		t.Fatalf("insert error = %v", err)
	}

	entry, err := store.Latest(ctx, userID)
	if err != nil {
		t.Fatalf("Latest() error = %v", err)
	}
	if entry == nil {
		t.Fatal("Latest() = nil, want entry with empty lanes")
	}
	if len(entry.Payload.Movies)+len(entry.Payload.TV)+len(entry.Payload.Documentaries) != 0 {
		t.Errorf("corrupt blob produced non-empty payload: %+v", entry.Payload)
	}
}
