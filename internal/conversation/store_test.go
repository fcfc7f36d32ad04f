package conversation

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func testStore(t *testing.T, opts StoreOptions) *Store {
	t.Helper()
	opts.Logger = zerolog.Nop()
	s := NewStore(opts)
	t.Cleanup(s.Shutdown)
	return s
}

func TestGetOrCreateReturnsSameSession(t *testing.T) {
	store := testStore(t, StoreOptions{})

	a := store.GetOrCreate(1, 100)
	b := store.GetOrCreate(1, 100)
	if a != b {
		t.Fatal("GetOrCreate returned different sessions for the same user")
	}
	if a.UserID != 1 || a.ChatID != 100 {
		t.Fatalf("session identity = user %d chat %d, want 1/100", a.UserID, a.ChatID)
	}
	if a.State != StateIdle {
		t.Fatalf("new session state = %v, want idle", a.State)
	}

	c := store.GetOrCreate(2, 200)
	if c == a {
		t.Fatal("GetOrCreate shared a session across users")
	}
	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", store.Len())
	}
}

func TestPeekDoesNotCreate(t *testing.T) {
	store := testStore(t, StoreOptions{})

	if _, ok := store.Peek(1); ok {
		t.Fatal("Peek found a session that was never created")
	}
	created := store.GetOrCreate(1, 100)
	got, ok := store.Peek(1)
	if !ok || got != created {
		t.Fatal("Peek did not return the created session")
	}
}

func TestDeleteRemovesSession(t *testing.T) {
	store := testStore(t, StoreOptions{})

	store.GetOrCreate(1, 100)
	store.Delete(1)
	if _, ok := store.Peek(1); ok {
		t.Fatal("session still present after Delete")
	}
	if store.Len() != 0 {
		t.Fatalf("Len() = %d, want 0", store.Len())
	}
}

func TestRemoveExpiredSweepsStaleSessions(t *testing.T) {
	store := testStore(t, StoreOptions{TTL: time.Hour})

	store.GetOrCreate(1, 100)
	store.GetOrCreate(2, 200)

	store.mu.Lock()
	store.sessions[1].lastSeen = time.Now().Add(-2 * time.Hour)
	store.mu.Unlock()

	store.removeExpired()

	if _, ok := store.Peek(1); ok {
		t.Fatal("stale session survived the sweep")
	}
	if _, ok := store.Peek(2); !ok {
		t.Fatal("fresh session was swept")
	}
}

func TestCapacityEvictsOldestSession(t *testing.T) {
	store := testStore(t, StoreOptions{Limit: 2})

	store.GetOrCreate(1, 100)
	store.GetOrCreate(2, 200)

	store.mu.Lock()
	store.sessions[1].lastSeen = time.Now().Add(-time.Minute)
	store.mu.Unlock()

	store.GetOrCreate(3, 300)

	if store.Len() != 2 {
		t.Fatalf("Len() = %d, want 2 after eviction", store.Len())
	}
	if _, ok := store.Peek(1); ok {
		t.Fatal("oldest session survived capacity eviction")
	}
	if _, ok := store.Peek(2); !ok {
		t.Fatal("recent session evicted instead of the oldest")
	}
	if _, ok := store.Peek(3); !ok {
		t.Fatal("new session missing after eviction")
	}
}

func TestStateCountsReportsBusySessions(t *testing.T) {
	store := testStore(t, StoreOptions{})

	store.GetOrCreate(1, 100)
	generating := store.GetOrCreate(2, 200)
	generating.State = StateGenerating
	if !generating.TryLock() {
		t.Fatal("could not lock the generating session")
	}
	defer generating.Unlock()

	counts := store.StateCounts()
	if counts["idle"] != 1 {
		t.Fatalf("idle count = %d, want 1", counts["idle"])
	}
	if counts["busy"] != 1 {
		t.Fatalf("busy count = %d, want 1", counts["busy"])
	}
}
