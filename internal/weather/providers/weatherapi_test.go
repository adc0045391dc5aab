package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
)

func newTestProvider(t *testing.T, handler http.HandlerFunc, opts WeatherAPIOptions) *WeatherAPIProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts.BaseURL = srv.URL + "/v1/current.json"
	return NewWeatherAPIProvider(srv.Client(), "test-key", opts)
}

func TestWeatherAPIFetchSuccess(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/current.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("key"); got != "test-key" {
			t.Errorf("expected key=test-key, got %q", got)
		}
		if got := r.URL.Query().Get("q"); got != "São Paulo" {
			t.Errorf("expected q to round-trip the raw query, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"current":{"temp_c":22,"condition":{"text":"Sunny"}},"location":{"name":"Paris"}}`))
	}, WeatherAPIOptions{})

	rec, err := p.Fetch(context.Background(), "São Paulo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := weather.Record{Temperature: 22, Location: "Paris", Description: "Sunny", Unit: "C"}
	if rec != want {
		t.Fatalf("expected %+v, got %+v", want, rec)
	}
}

func TestWeatherAPIFetchErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"not found", http.StatusBadRequest, `{"error":{"code":1006,"message":"No matching location found."}}`, ErrUnexpectedStatus},
		{"unauthorized", http.StatusUnauthorized, `{}`, ErrUnexpectedStatus},
		{"bad json", http.StatusOK, `{"current":`, ErrMalformedPayload},
		{"missing current", http.StatusOK, `{"location":{"name":"Paris"}}`, ErrMalformedPayload},
		{"missing condition", http.StatusOK, `{"current":{"temp_c":3},"location":{"name":"Paris"}}`, ErrMalformedPayload},
		{"missing location", http.StatusOK, `{"current":{"temp_c":3,"condition":{"text":"Fog"}}}`, ErrMalformedPayload},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}, WeatherAPIOptions{})

			_, err := p.Fetch(context.Background(), "Paris")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestWeatherAPIFetchMissingKey(t *testing.T) {
	p := NewWeatherAPIProvider(http.DefaultClient, "", WeatherAPIOptions{})

	_, err := p.Fetch(context.Background(), "Paris")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestWeatherAPIDoesNotRetryByDefault(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, WeatherAPIOptions{})

	if _, err := p.Fetch(context.Background(), "Paris"); err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected exactly one request, got %d", got)
	}
}

func TestWeatherAPIRetriesServerErrors(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"current":{"temp_c":-3.5,"condition":{"text":"Snow"}},"location":{"name":"Oslo"}}`))
	}, WeatherAPIOptions{MaxRetries: 2})
	p.httpCfg.Backoff.InitialInterval = time.Millisecond

	rec, err := p.Fetch(context.Background(), "Oslo")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Temperature != -3.5 || rec.Location != "Oslo" {
		t.Fatalf("unexpected record %+v", rec)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected two requests, got %d", got)
	}
}

func TestWeatherAPIClientErrorsAreNotRetried(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}, WeatherAPIOptions{MaxRetries: 3})
	p.httpCfg.Backoff.InitialInterval = time.Millisecond

	if _, err := p.Fetch(context.Background(), "Atlantis"); !errors.Is(err, ErrUnexpectedStatus) {
		t.Fatalf("expected ErrUnexpectedStatus, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected a single request for a 4xx, got %d", got)
	}
}

func TestWeatherAPICircuitOpensOnRepeatedFailures(t *testing.T) {
	var calls int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}, WeatherAPIOptions{})

	// The default breaker trips after more than five consecutive failures.
	for i := 0; i < 6; i++ {
		_, _ = p.Fetch(context.Background(), "Paris")
	}

	_, err := p.Fetch(context.Background(), "Paris")
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 6 {
		t.Fatalf("expected the open circuit to short-circuit the request, got %d calls", got)
	}
}

func TestWeatherAPIRateLimitHonoursContext(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"current":{"temp_c":1,"condition":{"text":"Mist"}},"location":{"name":"Bern"}}`))
	}, WeatherAPIOptions{RequestsPerSecond: 0.001, Burst: 1})

	if _, err := p.Fetch(context.Background(), "Bern"); err != nil {
		t.Fatalf("first request should use the burst: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if _, err := p.Fetch(ctx, "Bern"); !errors.Is(err, ErrRateLimitWait) {
		t.Fatalf("expected ErrRateLimitWait, got %v", err)
	}
}
