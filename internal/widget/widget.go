package widget

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/weather-widget/internal/store"
	"github.com/i474232898/weather-widget/internal/weather"
)

// User-visible messages. Every operational failure collapses to MsgLookupFailed.
const (
	MsgInvalidLocation = "Please enter a valid location."
	MsgLookupFailed    = "City not found. Please try again."
)

// State is the widget's render state. An empty Error and a nil Weather mean absent.
type State struct {
	Query   string          `json:"query"`
	Error   string          `json:"error,omitempty"`
	Loading bool            `json:"loading"`
	Weather *weather.Record `json:"weather,omitempty"`
}

// History receives every successful lookup.
type History interface {
	Save(e store.Entry) store.Entry
}

// Widget owns one State and the single provider it queries.
type Widget struct {
	mu    sync.Mutex
	state State
	// seq identifies the newest submit; results from older submits are dropped.
	seq uint64

	provider weather.Provider
	history  History
	clock    weather.Clock
}

// New creates a Widget. history may be nil; clock defaults to time.Now.
func New(provider weather.Provider, history History, clock weather.Clock) *Widget {
	if clock == nil {
		clock = time.Now
	}
	return &Widget{
		provider: provider,
		history:  history,
		clock:    clock,
	}
}

// SetQuery records the text typed by the user as is.
func (w *Widget) SetQuery(q string) {
	w.mu.Lock()
	w.state.Query = q
	w.mu.Unlock()
}

// Query returns the current input text.
func (w *Widget) Query() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state.Query
}

// State returns a copy of the current state.
func (w *Widget) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.snapshotLocked()
}

// Search sets the query and submits it.
func (w *Widget) Search(ctx context.Context, q string) State {
	w.SetQuery(q)
	return w.Submit(ctx)
}

// Submit validates the current query and, if it is not blank, fetches current
// conditions for it. It blocks until the fetch settles and returns the state
// at that point. When submits overlap, only the newest one updates the state.
func (w *Widget) Submit(ctx context.Context) State {
	w.mu.Lock()
	w.seq++
	seq := w.seq

	query := strings.TrimSpace(w.state.Query)
	if query == "" {
		w.state.Error = MsgInvalidLocation
		w.state.Weather = nil
		w.state.Loading = false
		s := w.snapshotLocked()
		w.mu.Unlock()
		return s
	}

	w.state.Loading = true
	w.state.Error = ""
	w.mu.Unlock()

	reqID := uuid.NewString()
	log.Printf("DEBUG: [%s] fetching current weather for %q from %s", reqID, query, w.provider.Name())

	rec, err := w.provider.Fetch(ctx, query)

	w.mu.Lock()
	defer w.mu.Unlock()

	if seq != w.seq {
		log.Printf("INFO: [%s] discarding stale result for %q; a newer search is pending", reqID, query)
		return w.snapshotLocked()
	}

	w.state.Loading = false
	if err != nil {
		log.Printf("ERROR: [%s] error fetching weather data for %q: %v", reqID, query, err)
		w.state.Error = MsgLookupFailed
		w.state.Weather = nil
		return w.snapshotLocked()
	}

	w.state.Weather = &rec
	w.state.Error = ""
	log.Printf("DEBUG: [%s] %s: %v%s, %s", reqID, rec.Location, rec.Temperature, rec.Unit, rec.Description)

	if w.history != nil {
		w.history.Save(store.Entry{ID: reqID, Query: query, Record: rec})
	}

	return w.snapshotLocked()
}

// snapshotLocked copies the state, including the record. The caller holds mu.
func (w *Widget) snapshotLocked() State {
	s := w.state
	if s.Weather != nil {
		rec := *s.Weather
		s.Weather = &rec
	}
	return s
}
