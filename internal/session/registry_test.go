package session

import (
	"context"
	"testing"
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
)

type cityProvider struct{}

func (cityProvider) Name() string { return "city" }

func (cityProvider) Fetch(ctx context.Context, query string) (weather.Record, error) {
	return weather.Record{Temperature: 12, Location: query, Description: "Cloudy", Unit: weather.UnitCelsius}, nil
}

func TestRegistryIsolatesSessions(t *testing.T) {
	r := NewRegistry(cityProvider{}, HistoryLimits{MaxEntries: 5}, time.Hour, nil)

	a := r.Get("a")
	b := r.Get("b")

	a.Widget.Search(context.Background(), "Oslo")

	if got := b.Widget.State(); got.Query != "" || got.Weather != nil {
		t.Fatalf("session b saw session a's search: %+v", got)
	}
	if len(b.History.Recent(0)) != 0 {
		t.Fatalf("session b saw session a's history")
	}
	if len(a.History.Recent(0)) != 1 {
		t.Fatalf("expected session a to record its lookup")
	}
	if r.Get("a") != a {
		t.Fatalf("expected the same session for the same id")
	}
}

func TestRegistryDropsIdleSessions(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r := NewRegistry(cityProvider{}, HistoryLimits{}, 30*time.Minute, func() time.Time { return now })

	first := r.Get("a")
	r.Get("b")

	now = now.Add(20 * time.Minute)
	r.Get("b")

	now = now.Add(20 * time.Minute)
	if got := r.Len(); got != 1 {
		t.Fatalf("expected only the recently used session, got %d", got)
	}
	if r.Get("a") == first {
		t.Fatalf("expected a fresh session after idle expiry")
	}
}

func TestRegistryEachVisitsLiveSessions(t *testing.T) {
	r := NewRegistry(cityProvider{}, HistoryLimits{}, 0, nil)
	r.Get("a")
	r.Get("b")

	seen := map[string]bool{}
	r.Each(func(s *Session) { seen[s.ID] = true })

	if len(seen) != 2 || !seen["a"] || !seen["b"] {
		t.Fatalf("unexpected sessions visited: %v", seen)
	}
}
