package session

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/prepground/mockview/backend/internal/model/interview"
)

var (
	ErrNotFound  = errors.New("session not found")
	ErrConnected = errors.New("session already has a live connection")
)

// Store persists interview sessions between the résumé upload and the final
// report. The in-memory implementation below is the default backing; the
// interface is the seam where a persistent store would attach.
type Store interface {
	Put(ctx context.Context, sess *interview.Session) error
	Get(ctx context.Context, id string) (*interview.Session, error)
	Claim(ctx context.Context, id string) (*interview.Session, error)
	Release(ctx context.Context, id string)
	Delete(ctx context.Context, id string)
	Len() int
}

type entry struct {
	sess    *interview.Session
	claimed bool
}

// MemoryStore keeps sessions in a mutex-guarded map with idle-TTL eviction.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*entry
	ttl     time.Duration
}

// NewMemoryStore creates a store evicting sessions idle longer than ttl.
// A non-positive ttl disables eviction.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
	}
}

// Put stores a session keyed by its identifier.
func (s *MemoryStore) Put(_ context.Context, sess *interview.Session) error {
	if sess == nil || sess.ID == "" {
		return ErrNotFound
	}

	now := time.Now().UTC()
	if sess.CreatedAt.IsZero() {
		sess.CreatedAt = now
	}
	sess.LastActive = now

	s.mu.Lock()
	s.entries[sess.ID] = &entry{sess: sess}
	s.mu.Unlock()
	return nil
}

// Get retrieves a session and refreshes its idle clock.
func (s *MemoryStore) Get(_ context.Context, id string) (*interview.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.sess.LastActive = time.Now().UTC()
	return e.sess, nil
}

// Claim marks the session as owned by a live connection. At most one
// connection may hold a session at a time; a second claim fails with
// ErrConnected until Release is called.
func (s *MemoryStore) Claim(_ context.Context, id string) (*interview.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, ErrNotFound
	}
	if e.claimed {
		return nil, ErrConnected
	}

	e.claimed = true
	e.sess.LastActive = time.Now().UTC()
	return e.sess, nil
}

// Release returns a claimed session to the store. The session itself is
// retained for report generation.
func (s *MemoryStore) Release(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[id]; ok {
		e.claimed = false
		e.sess.LastActive = time.Now().UTC()
	}
}

// Delete removes a session outright.
func (s *MemoryStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

// Len reports how many sessions are retained.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// StartSweeper evicts idle sessions on a fixed interval until ctx ends.
func (s *MemoryStore) StartSweeper(ctx context.Context, interval time.Duration) {
	if s.ttl <= 0 || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if evicted := s.sweep(time.Now().UTC()); evicted > 0 {
					log.Printf("[session] evicted %d idle sessions", evicted)
				}
			}
		}
	}()
}

// sweep drops sessions idle past the TTL. Claimed sessions are never
// evicted; the live connection keeps them current.
func (s *MemoryStore) sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for id, e := range s.entries {
		if e.claimed {
			continue
		}
		if now.Sub(e.sess.LastActive) > s.ttl {
			delete(s.entries, id)
			evicted++
		}
	}
	return evicted
}
