package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/caarlos0/env/v10"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/gokatarajesh/trivia-api/db/migrations"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
)

func main() {
	command := flag.String("command", "up", "Migration command: up, down, or status")
	flag.Parse()

	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()

	driver := getEnv("DB_DRIVER", "postgres")

	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case "postgres":
		db, err = openPostgres()
	case "sqlite":
		path := getEnv("SQLITE_PATH", "trivia.db")
		db, err = repository.OpenSQLite(path)
		log.Info().Str("path", path).Msg("using sqlite database")
	default:
		log.Fatal().Str("driver", driver).Msg("unknown DB_DRIVER. Use: postgres or sqlite")
	}
	if err != nil {
		log.Fatal().Err(err).Str("driver", driver).Msg("failed to open database connection")
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("failed to ping database")
	}

	if err := migrations.Run(context.Background(), db, driver, *command); err != nil {
		log.Fatal().Err(err).Str("command", *command).Msg("migration failed")
	}
	log.Info().Str("command", *command).Str("driver", driver).Msg("migration command completed")
}

func openPostgres() (*sql.DB, error) {
	var pg config.Postgres
	if err := env.Parse(&pg); err != nil {
		return nil, fmt.Errorf("parse postgres env: %w", err)
	}
	if pg.User == "" || pg.Password == "" || pg.Database == "" {
		return nil, fmt.Errorf("PG_USER, PG_PASSWORD and PG_DATABASE are required")
	}
	if pg.Host == "" {
		pg.Host = "localhost"
	}

	log.Info().
		Str("host", pg.Host).
		Int("port", pg.Port).
		Str("database", pg.Database).
		Msg("connecting to postgres")
	return sql.Open("pgx", pg.DSN())
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
