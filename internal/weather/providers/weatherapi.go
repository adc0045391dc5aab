package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/i474232898/weather-widget/internal/weather"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// DefaultWeatherAPIURL is the WeatherAPI.com current-conditions endpoint.
const DefaultWeatherAPIURL = "https://api.weatherapi.com/v1/current.json"

// WeatherAPIOptions tunes a WeatherAPIProvider. Zero values select the defaults.
type WeatherAPIOptions struct {
	BaseURL    string
	MaxRetries int
	// RequestsPerSecond <= 0 disables the outbound rate limiter.
	RequestsPerSecond float64
	Burst             int
}

// WeatherAPIProvider implements the weather.Provider interface for WeatherAPI.com.
type WeatherAPIProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
}

func NewWeatherAPIProvider(client *http.Client, apiKey string, opts WeatherAPIOptions) *WeatherAPIProvider {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = DefaultWeatherAPIURL
	}

	var limiter *rate.Limiter
	if opts.RequestsPerSecond > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), burst)
	}

	return &WeatherAPIProvider{
		name:    "weatherapi",
		apiKey:  apiKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client: client,
			Backoff: BackoffConfig{
				MaxRetries:      opts.MaxRetries,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			Limiter: limiter,
		},
		circuit: newCircuitBreaker("weatherapi"),
	}
}

func (p *WeatherAPIProvider) Name() string {
	return p.name
}

// Fetch looks up current conditions for a free-text query (usually a city name).
func (p *WeatherAPIProvider) Fetch(ctx context.Context, query string) (weather.Record, error) {
	if p.apiKey == "" {
		return weather.Record{}, fmt.Errorf("weatherapi: %w", ErrMissingAPIKey)
	}

	buildRequest := func() (*http.Request, error) {
		values := url.Values{}
		values.Set("key", p.apiKey)
		values.Set("q", query)

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		return weather.Record{}, fmt.Errorf("weatherapi: %w", err)
	}
	defer resp.Body.Close()

	var payload struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
		Current *struct {
			TempC     *float64 `json:"temp_c"`
			Condition *struct {
				Text string `json:"text"`
			} `json:"condition"`
		} `json:"current"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.Record{}, fmt.Errorf("weatherapi: %w: %v", ErrMalformedPayload, err)
	}

	if payload.Current == nil || payload.Current.TempC == nil || payload.Current.Condition == nil || payload.Location.Name == "" {
		return weather.Record{}, fmt.Errorf("weatherapi: %w: missing current conditions or location", ErrMalformedPayload)
	}

	return weather.Record{
		Temperature: *payload.Current.TempC,
		Location:    payload.Location.Name,
		Description: payload.Current.Condition.Text,
		Unit:        weather.UnitCelsius,
	}, nil
}
