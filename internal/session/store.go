package session

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// DefaultTTL is how long an untouched session is kept.
const DefaultTTL = 30 * time.Minute

type record struct {
	mu   sync.Mutex
	sess Session
}

// Store is an in-memory session table. The map is guarded by an RWMutex
// and every session by its own mutex, so work on one file never blocks
// another.
type Store struct {
	mu    sync.RWMutex
	items map[string]*record
	ttl   time.Duration
	now   func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{items: make(map[string]*record), ttl: ttl, now: time.Now}
}

// Create stores sess; its ID must be unused.
func (s *Store) Create(ctx context.Context, sess Session) error {
	now := s.now()
	sess.CreatedAt, sess.UpdatedAt = now, now

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[sess.ID]; exists {
		return fmt.Errorf("session %s already exists", sess.ID)
	}
	s.items[sess.ID] = &record{sess: sess}
	return nil
}

// Update runs fn with exclusive access to the session. Changes fn makes
// are kept even when it returns an error.
func (s *Store) Update(ctx context.Context, id string, fn func(*Session) error) error {
	rec, err := s.get(id)
	if err != nil {
		return err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()

	err = fn(&rec.sess)
	rec.sess.UpdatedAt = s.now()
	return err
}

// Get returns a copy of the session. The table pointer is shared; callers
// must not mutate it outside Update.
func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	var out Session
	err := s.Update(ctx, id, func(sess *Session) error {
		out = *sess
		return nil
	})
	return out, err
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.items, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// went away. Sessions busy in Update are skipped.
func (s *Store) Sweep() int {
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, rec := range s.items {
		if !rec.mu.TryLock() {
			continue
		}
		idle := rec.sess.UpdatedAt.Before(cutoff)
		rec.mu.Unlock()
		if idle {
			delete(s.items, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done. onSweep, when set, is told
// how many sessions were evicted and how many remain.
func (s *Store) Run(ctx context.Context, interval time.Duration, onSweep func(evicted, remaining int)) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.Sweep()
			if n > 0 {
				slog.InfoContext(ctx, "evicted idle sessions", "count", n, "ttl", s.ttl.String())
			}
			if onSweep != nil {
				onSweep(n, s.Len())
			}
		}
	}
}

func (s *Store) get(id string) (*record, error) {
	s.mu.RLock()
	rec, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}
