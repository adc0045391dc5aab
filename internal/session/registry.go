package session

import (
	"sync"
	"time"

	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/i474232898/weather-widget/internal/widget"
)

// Session is one visitor's widget together with its own lookup history.
type Session struct {
	ID      string
	Widget  *widget.Widget
	History *store.MemoryStore

	lastSeen time.Time
}

// HistoryLimits configures the per-session history store.
type HistoryLimits struct {
	MaxEntries int
	MaxAge     time.Duration
}

// Registry hands out one Session per client id. Sessions idle for longer
// than maxIdle are dropped the next time the registry is touched.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	maxIdle  time.Duration

	provider weather.Provider
	history  HistoryLimits
	clock    weather.Clock
}

// NewRegistry creates an empty Registry. clock defaults to time.Now and is
// used both for idle tracking and for the widgets' day/night label.
func NewRegistry(provider weather.Provider, history HistoryLimits, maxIdle time.Duration, clock weather.Clock) *Registry {
	if clock == nil {
		clock = time.Now
	}
	return &Registry{
		sessions: make(map[string]*Session),
		maxIdle:  maxIdle,
		provider: provider,
		history:  history,
		clock:    clock,
	}
}

// Get returns the session for id, creating it on first use.
func (r *Registry) Get(id string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.clock()
	r.pruneLocked(now)

	s, ok := r.sessions[id]
	if !ok {
		h := store.NewMemoryStore(r.history.MaxEntries, r.history.MaxAge)
		s = &Session{
			ID:      id,
			Widget:  widget.New(r.provider, h, r.clock),
			History: h,
		}
		r.sessions[id] = s
	}
	s.lastSeen = now
	return s
}

// Each calls fn for every live session. fn runs without the registry lock held.
func (r *Registry) Each(fn func(s *Session)) {
	r.mu.Lock()
	r.pruneLocked(r.clock())
	live := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		live = append(live, s)
	}
	r.mu.Unlock()

	for _, s := range live {
		fn(s)
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pruneLocked(r.clock())
	return len(r.sessions)
}

func (r *Registry) pruneLocked(now time.Time) {
	if r.maxIdle <= 0 {
		return
	}
	for id, s := range r.sessions {
		if now.Sub(s.lastSeen) > r.maxIdle {
			delete(r.sessions, id)
		}
	}
}
