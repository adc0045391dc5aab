package weather

import "context"

// Provider abstracts the current-conditions data source (WeatherAPI.com).
type Provider interface {
	Name() string
	Fetch(ctx context.Context, query string) (Record, error)
}
