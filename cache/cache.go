// Package cache provides a process-wide ephemeral key-value store with
// per-entry expiry. It backs the OAuth handshake state and the single-use
// auth token bookkeeping. State is intentionally not persisted: losing it
// on restart only forces users to log in again.
package cache

import (
	"sync"
	"time"
)

// NowTimeFunc returns the current time. It can be overridden in tests.
var NowTimeFunc = time.Now

type entry struct {
	value     any
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return !now.Before(e.expiresAt)
}

// Store is a mutex-guarded in-memory key-value store with TTLs. A single
// instance is shared by all request handlers; every operation holds the
// lock for the whole read-modify-write sequence, so interleaved requests
// observe a linearized view.
type Store struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration

	done      chan struct{}
	closeOnce sync.Once
}

// New creates a store whose entries default to defaultTTL and starts a
// background sweep that evicts expired entries every sweepInterval. The
// caller must Close the store to stop the sweeper.
func New(defaultTTL, sweepInterval time.Duration) *Store {
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}

	s := &Store{
		entries:    make(map[string]entry),
		defaultTTL: defaultTTL,
		done:       make(chan struct{}),
	}
	go s.sweep(sweepInterval)
	return s
}

// Set stores value under key with the default TTL, replacing any
// previous entry.
func (s *Store) Set(key string, value any) {
	s.SetTTL(key, value, s.defaultTTL)
}

// SetTTL stores value under key with an explicit TTL.
func (s *Store) SetTTL(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry{
		value:     value,
		expiresAt: NowTimeFunc().Add(ttl),
	}
}

// Get returns the value under key. The second return value is false when
// the key is absent or its entry has expired; expired entries are removed
// on the way out.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if e.expired(NowTimeFunc()) {
		delete(s.entries, key)
		return nil, false
	}
	return e.value, true
}

// Delete removes the entry under key. Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

// CompareAndDelete atomically checks the live entry under key against
// expect and deletes it only on a match. The whole get-compare-delete
// sequence runs under the store lock, which is what makes one-time token
// redemption safe against concurrent attempts: at most one caller sees
// found && matched for a given entry.
func (s *Store) CompareAndDelete(key string, expect any) (found, matched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.expired(NowTimeFunc()) {
		delete(s.entries, key)
		return false, false
	}
	if e.value != expect {
		return true, false
	}
	delete(s.entries, key)
	return true, true
}

// Len reports the number of entries, counting not-yet-swept expired ones.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Close stops the background sweeper. Safe to call more than once.
func (s *Store) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := NowTimeFunc()
			s.mu.Lock()
			for key, e := range s.entries {
				if e.expired(now) {
					delete(s.entries, key)
				}
			}
			s.mu.Unlock()
		}
	}
}
