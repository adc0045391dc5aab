package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/weather-widget/internal/weather/providers"
)

type AppConfig struct {
	WeatherAPIKey     string
	WeatherAPIBaseURL string

	// HTTPTimeout bounds outbound provider calls (0 = no timeout).
	HTTPTimeout time.Duration

	// Provider resilience.
	ProviderMaxRetries int
	ProviderRPS        float64
	ProviderBurst      int

	// RefreshInterval re-runs the current search periodically (0 = disabled).
	RefreshInterval time.Duration

	// SessionIdleTimeout drops a visitor's widget after this long without requests.
	SessionIdleTimeout time.Duration

	// Recent-search history retention, per session.
	HistoryMax    int           // max number of lookups kept (0 = unlimited)
	HistoryMaxAge time.Duration // max age of lookups (0 = unlimited)

	Port string
}

// Load reads configuration from the environment (and .env if present) with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	if cfg.WeatherAPIKey == "" {
		log.Printf("INFO: WEATHERAPI_API_KEY is not set; every search will fail")
	}
	cfg.WeatherAPIBaseURL = getenvDefault("WEATHERAPI_BASE_URL", providers.DefaultWeatherAPIURL)

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0s"); err != nil {
		return nil, err
	}

	if cfg.ProviderMaxRetries, err = getenvInt("PROVIDER_MAX_RETRIES", 0); err != nil {
		return nil, err
	}
	if cfg.ProviderMaxRetries < 0 {
		return nil, fmt.Errorf("invalid PROVIDER_MAX_RETRIES: must not be negative")
	}

	// WeatherAPI free tier allows ~23 calls/minute.
	if cfg.ProviderRPS, err = getenvFloat("PROVIDER_RPS", 0.4); err != nil {
		return nil, err
	}
	if cfg.ProviderBurst, err = getenvInt("PROVIDER_BURST", 3); err != nil {
		return nil, err
	}

	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0s"); err != nil {
		return nil, err
	}

	if cfg.SessionIdleTimeout, err = getenvDuration("SESSION_IDLE_TIMEOUT", "30m"); err != nil {
		return nil, err
	}
	if cfg.SessionIdleTimeout <= 0 {
		return nil, fmt.Errorf("invalid SESSION_IDLE_TIMEOUT: must be positive")
	}

	if cfg.HistoryMax, err = getenvInt("HISTORY_MAX", 20); err != nil {
		return nil, err
	}
	if cfg.HistoryMaxAge, err = getenvDuration("HISTORY_MAX_AGE", "24h"); err != nil {
		return nil, err
	}

	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
