package bootstrap

import (
	"context"
	"os"
	"strings"
	"time"

	"vinemarket-backend/internal/config"
	"vinemarket-backend/internal/interfaces/router"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ConfigureLogging sets the global zerolog level and, outside production, a
// human-readable console writer.
func ConfigureLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// New loads config, builds the app and subscribes the listing feeds. Used by
// the serverless entry point (api handler imports this package, not internal).
func New() (*fiber.App, *router.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	ConfigureLogging(cfg)
	app, rt, err := router.CreateApp(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := rt.Start(context.Background()); err != nil {
		rt.Close()
		return nil, nil, err
	}
	return app, rt, nil
}
