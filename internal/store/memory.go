package store

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-widget/internal/weather"
)

var (
	// ErrNotFound is returned when the history is empty.
	ErrNotFound = errors.New("no lookups recorded")
)

// Entry is one successful lookup kept in the recent-search history.
type Entry struct {
	ID        string         `json:"id"`
	Query     string         `json:"query"`
	Record    weather.Record `json:"weather"`
	FetchedAt time.Time      `json:"fetchedAt"` // always UTC
}

// MemoryStore is a concurrency-safe in-memory history of successful lookups,
// oldest first.
type MemoryStore struct {
	mu      sync.RWMutex
	entries []Entry

	// retention configuration
	maxHistory int           // max number of entries kept
	maxAge     time.Duration // optional max age for entries

	now weather.Clock
}

// NewMemoryStore creates a new MemoryStore with optional limits.
// If maxHistory is <= 0, it is treated as unlimited.
func NewMemoryStore(maxHistory int, maxAge time.Duration) *MemoryStore {
	return &MemoryStore{
		maxHistory: maxHistory,
		maxAge:     maxAge,
		now:        time.Now,
	}
}

// Save appends a lookup and enforces retention. A missing ID or timestamp is filled in.
func (s *MemoryStore) Save(e Entry) Entry {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.FetchedAt.IsZero() {
		e.FetchedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append(s.entries, e)

	// Enforce retention by count.
	if s.maxHistory > 0 && len(s.entries) > s.maxHistory {
		over := len(s.entries) - s.maxHistory
		s.entries = append([]Entry(nil), s.entries[over:]...)
	}

	s.pruneLocked()
	return e
}

// pruneLocked drops entries older than maxAge. The caller holds the write lock.
func (s *MemoryStore) pruneLocked() {
	if s.maxAge <= 0 {
		return
	}
	cutoff := s.now().Add(-s.maxAge)
	i := 0
	for ; i < len(s.entries); i++ {
		if !s.entries[i].FetchedAt.Before(cutoff) {
			break
		}
	}
	if i > 0 {
		s.entries = append([]Entry(nil), s.entries[i:]...)
	}
}

// Latest returns the most recent entry.
func (s *MemoryStore) Latest() (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	if len(s.entries) == 0 {
		return Entry{}, ErrNotFound
	}
	return s.entries[len(s.entries)-1], nil
}

// Recent returns up to limit entries, newest first. limit <= 0 returns all of them.
func (s *MemoryStore) Recent(limit int) []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked()

	n := len(s.entries)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]Entry, 0, n)
	for i := len(s.entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, s.entries[i])
	}
	return out
}
