package app

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/gokatarajesh/trivia-api/db/migrations"
	"github.com/gokatarajesh/trivia-api/internal/config"
	"github.com/gokatarajesh/trivia-api/internal/db/repository"
	"github.com/gokatarajesh/trivia-api/internal/logging"
	"github.com/gokatarajesh/trivia-api/internal/server"
	"github.com/gokatarajesh/trivia-api/internal/trivia"
)

// Application aggregates shared infrastructure (DB, cache, HTTP server).
type Application struct {
	cfg    *config.App
	logger zerolog.Logger

	closers []func() error
	http    *http.Server
}

// New bootstraps logger, store, optional Redis cache and the HTTP server.
func New(ctx context.Context, cfg *config.App) (*Application, error) {
	logger := logging.New(cfg.Name, cfg.Env)
	logger.Info().Str("driver", cfg.Database.Driver).Msg("starting application bootstrap")

	a := &Application{cfg: cfg, logger: logger}

	store, storePing, err := a.openStore(ctx)
	if err != nil {
		a.closeAll()
		return nil, err
	}
	deps := []server.Dependency{{Name: cfg.Database.Driver, Ping: storePing}}

	var cache trivia.CategoryCache
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			DB:       cfg.Redis.DB,
			PoolSize: cfg.Redis.PoolSize,
		})
		a.closers = append(a.closers, redisClient.Close)
		redisCache := trivia.NewRedisCategoryCache(redisClient, cfg.Redis.CategoryCacheTTL)
		cache = redisCache
		deps = append(deps, server.Dependency{Name: "redis", Ping: redisCache.Ping})
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("category cache enabled")
	} else {
		logger.Warn().Msg("REDIS_ADDR not set; category cache disabled")
	}

	svc := trivia.NewService(store, cache, trivia.ServiceOptions{
		FilterQuizByCategory: cfg.Quiz.FilterByCategory,
	}, logger)
	handlers := trivia.NewHTTPHandlers(svc, logger)

	a.http = server.NewHTTPServer(cfg, logger, handlers, deps...)
	return a, nil
}

// openStore connects the configured driver, optionally migrating it first.
func (a *Application) openStore(ctx context.Context) (trivia.Store, func(context.Context) error, error) {
	switch a.cfg.Database.Driver {
	case config.DriverSQLite:
		db, err := repository.OpenSQLite(a.cfg.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		a.closers = append(a.closers, db.Close)
		if err := a.migrate(ctx, db); err != nil {
			return nil, nil, err
		}
		repo := repository.NewSQLiteRepository(db)
		return repo, repo.Ping, nil

	default:
		pool, err := pgxpool.New(ctx, a.cfg.Postgres.ConnString())
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		a.closers = append(a.closers, func() error { pool.Close(); return nil })
		if a.cfg.Database.MigrateOnStart {
			db := stdlib.OpenDBFromPool(pool)
			err := a.migrate(ctx, db)
			db.Close()
			if err != nil {
				return nil, nil, err
			}
		}
		repo := repository.NewQuestionRepository(pool)
		return repo, pool.Ping, nil
	}
}

func (a *Application) migrate(ctx context.Context, db *sql.DB) error {
	if !a.cfg.Database.MigrateOnStart {
		return nil
	}
	if err := migrations.Up(ctx, db, a.cfg.Database.Driver); err != nil {
		return fmt.Errorf("migrate %s: %w", a.cfg.Database.Driver, err)
	}
	a.logger.Info().Msg("migrations applied")
	return nil
}

// Run starts the HTTP server and waits for termination signals.
func (a *Application) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info().Str("addr", a.cfg.HTTPAddr).Msg("http server listening")
		if err := a.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		a.logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-errCh:
		a.closeAll()
		return fmt.Errorf("http server error: %w", err)
	case <-ctx.Done():
		a.logger.Warn().Msg("context canceled")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.GracefulShutdownTimeout)
	defer cancel()

	if err := a.http.Shutdown(shutdownCtx); err != nil {
		a.logger.Error().Err(err).Msg("http shutdown error")
	}

	a.closeAll()
	a.logger.Info().Msg("shutdown complete")
	return nil
}

// closeAll releases resources in reverse order of acquisition.
func (a *Application) closeAll() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Error().Err(err).Msg("close error")
		}
	}
	a.closers = nil
}
