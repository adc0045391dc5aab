package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	fibersession "github.com/gofiber/fiber/v2/middleware/session"

	httpapi "github.com/i474232898/weather-widget/internal/api/http"
	"github.com/i474232898/weather-widget/internal/config"
	"github.com/i474232898/weather-widget/internal/scheduler"
	"github.com/i474232898/weather-widget/internal/session"
	"github.com/i474232898/weather-widget/internal/weather/providers"
)

func main() {
	// Load configuration (also reads .env).
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound provider calls. Zero timeout means none.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	provider := providers.NewWeatherAPIProvider(httpClient, cfg.WeatherAPIKey, providers.WeatherAPIOptions{
		BaseURL:           cfg.WeatherAPIBaseURL,
		MaxRetries:        cfg.ProviderMaxRetries,
		RequestsPerSecond: cfg.ProviderRPS,
		Burst:             cfg.ProviderBurst,
	})

	// One widget and history per visitor session.
	registry := session.NewRegistry(provider, session.HistoryLimits{
		MaxEntries: cfg.HistoryMax,
		MaxAge:     cfg.HistoryMaxAge,
	}, cfg.SessionIdleTimeout, time.Now)

	cookies := fibersession.New(fibersession.Config{
		Expiration:     cfg.SessionIdleTimeout,
		CookieHTTPOnly: true,
		CookieSameSite: fiber.CookieSameSiteLaxMode,
	})

	sched := scheduler.New(registry, cfg.RefreshInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "weather-widget",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	app.Use(logger.New())
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "weather-widget",
		})
	})

	httpapi.RegisterRoutes(app, registry, cookies)

	go func() {
		log.Printf("INFO: listening on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
