package conversation

import (
	"context"
	"sync"
	"time"

	"bot/internal/infra"
)

const (
	defaultSessionTTL   = 24 * time.Hour
	defaultSweepEvery   = time.Hour
	defaultSessionLimit = 1000
)

// StoreOptions configures a Store.
type StoreOptions struct {
	Logger infra.Logger
	TTL    time.Duration
	Sweep  time.Duration
	Limit  int
}

// Store is the concurrent session registry. Sessions are created lazily on
// first contact, expired after a TTL of inactivity, and capped with
// oldest-first eviction so an abandoned audience cannot grow memory forever.
type Store struct {
	mu       sync.RWMutex
	sessions map[int64]*storeEntry

	logger infra.Logger
	ttl    time.Duration
	sweep  time.Duration
	limit  int

	cancel context.CancelFunc
	done   chan struct{}
}

type storeEntry struct {
	sess     *Session
	lastSeen time.Time
}

// NewStore builds a Store and starts its background sweeper. Callers own a
// matching Shutdown.
func NewStore(opts StoreOptions) *Store {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	sweep := opts.Sweep
	if sweep <= 0 {
		sweep = defaultSweepEvery
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultSessionLimit
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		sessions: make(map[int64]*storeEntry),
		logger:   opts.Logger,
		ttl:      ttl,
		sweep:    sweep,
		limit:    limit,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go s.run(ctx)
	return s
}

// GetOrCreate returns the user's session, creating it on first contact, and
// marks it active.
func (s *Store) GetOrCreate(userID, chatID int64) *Session {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.sessions[userID]; ok {
		e.lastSeen = now
		return e.sess
	}

	if len(s.sessions) >= s.limit {
		s.evictOldestLocked()
	}

	sess := &Session{UserID: userID, ChatID: chatID, State: StateIdle}
	s.sessions[userID] = &storeEntry{sess: sess, lastSeen: now}
	s.logger.Debug().Int64("user_id", userID).Int("sessions", len(s.sessions)).Msg("session created")
	return sess
}

// Peek returns the session without creating or refreshing it.
func (s *Store) Peek(userID int64) (*Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[userID]
	if !ok {
		return nil, false
	}
	return e.sess, true
}

// Delete drops the user's session.
func (s *Store) Delete(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}

// Len reports how many sessions are live.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// StateCounts snapshots how many sessions sit in each state. A session
// whose lock is held is mid-event and gets counted as busy rather than
// waiting on it.
func (s *Store) StateCounts() map[string]int {
	s.mu.RLock()
	entries := make([]*storeEntry, 0, len(s.sessions))
	for _, e := range s.sessions {
		entries = append(entries, e)
	}
	s.mu.RUnlock()

	counts := make(map[string]int)
	for _, e := range entries {
		if e.sess.TryLock() {
			counts[e.sess.State.String()]++
			e.sess.Unlock()
		} else {
			counts["busy"]++
		}
	}
	return counts
}

// Shutdown stops the sweeper and waits for it to exit.
func (s *Store) Shutdown() {
	s.cancel()
	<-s.done
}

func (s *Store) run(ctx context.Context) {
	defer close(s.done)
	ticker := time.NewTicker(s.sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.removeExpired()
		}
	}
}

func (s *Store) removeExpired() {
	cutoff := time.Now().Add(-s.ttl)

	s.mu.Lock()
	removed := 0
	for id, e := range s.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			removed++
		}
	}
	remaining := len(s.sessions)
	s.mu.Unlock()

	if removed > 0 {
		s.logger.Info().Int("removed", removed).Int("remaining", remaining).Msg("expired sessions swept")
	}
}

// evictOldestLocked removes the least recently seen session. Callers hold
// the write lock.
func (s *Store) evictOldestLocked() {
	var oldestID int64
	var oldest time.Time
	first := true
	for id, e := range s.sessions {
		if first || e.lastSeen.Before(oldest) {
			oldestID, oldest, first = id, e.lastSeen, false
		}
	}
	if !first {
		delete(s.sessions, oldestID)
		s.logger.Info().Int64("user_id", oldestID).Msg("session evicted at capacity")
	}
}
