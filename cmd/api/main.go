package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/internal/app"
	"github.com/gokatarajesh/trivia-api/internal/config"
)

const defaultEnvFile = "configs/.env"

func main() {
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Str("component", "bootstrap").Logger()

	loadEnvFile()

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	instance, err := app.New(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("bootstrap failed")
	}

	if err := instance.Run(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}

// loadEnvFile reads ENV_FILE (default configs/.env) outside production.
// Variables already set in the process environment win.
func loadEnvFile() {
	if os.Getenv("APP_ENV") == "production" {
		return
	}
	path := os.Getenv("ENV_FILE")
	if path == "" {
		path = defaultEnvFile
	}
	if err := godotenv.Load(path); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("env file not loaded")
	}
}

func loadConfig() (*config.App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return config.Load(ctx)
}
