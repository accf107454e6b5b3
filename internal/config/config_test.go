package config

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithSQLite(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "trivia-api", cfg.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 20*time.Second, cfg.GracefulShutdownTimeout)
	assert.Equal(t, "trivia.db", cfg.SQLite.Path)
	assert.Equal(t, "", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Minute, cfg.Redis.CategoryCacheTTL)
	assert.True(t, cfg.Quiz.FilterByCategory)
	assert.Equal(t, "*", cfg.CORS.AllowedOrigin)
	assert.Equal(t, "GET,PUT,POST,DELETE,OPTIONS", cfg.CORS.AllowedMethods)
	assert.Equal(t, "Content-Type,Authorization,true", cfg.CORS.AllowedHeaders)
}

func TestLoadPostgresRequiresCredentials(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PG_HOST", "localhost")

	_, err := Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PG_USER")
	assert.Contains(t, err.Error(), "PG_DATABASE")
}

func TestLoadPostgres(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_USER", "trivia")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "trivia")
	t.Setenv("QUIZ_FILTER_BY_CATEGORY", "false")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.False(t, cfg.Quiz.FilterByCategory)
	assert.Equal(t,
		"host='db' port=5432 user='trivia' password='secret' dbname='trivia' sslmode='disable' pool_max_conns=10",
		cfg.Postgres.ConnString())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load(context.Background())
	assert.ErrorContains(t, err, "unknown DB_DRIVER")
}

func TestPostgresDSNQuotesValues(t *testing.T) {
	pg := Postgres{
		Host:     "db.internal",
		Port:     6432,
		User:     "trivia admin",
		Password: `it's a \secret`,
		Database: "trivia",
		SSLMode:  "require",
		MaxConns: 4,
	}

	assert.Equal(t,
		`host='db.internal' port=6432 user='trivia admin' password='it\'s a \\secret' dbname='trivia' sslmode='require'`,
		pg.DSN())
	assert.Equal(t, pg.DSN()+" pool_max_conns=4", pg.ConnString())

	cfg, err := pgconn.ParseConfig(pg.DSN())
	require.NoError(t, err)
	assert.Equal(t, "trivia admin", cfg.User)
	assert.Equal(t, `it's a \secret`, cfg.Password)
	assert.Equal(t, uint16(6432), cfg.Port)
}
