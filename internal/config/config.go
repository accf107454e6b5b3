package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Supported store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"trivia-api"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Database Database
	Postgres Postgres
	SQLite   SQLite
	Redis    Redis
	Quiz     Quiz
	CORS     CORS
}

// Database selects the store backend.
type Database struct {
	Driver         string `env:"DB_DRIVER" envDefault:"postgres"`
	MigrateOnStart bool   `env:"MIGRATE_ON_START" envDefault:"false"`
}

// Postgres captures connection info for the SQL database.
type Postgres struct {
	Host     string `env:"PG_HOST" envDefault:""`
	Port     int    `env:"PG_PORT" envDefault:"5432"`
	User     string `env:"PG_USER" envDefault:""`
	Password string `env:"PG_PASSWORD" envDefault:""`
	Database string `env:"PG_DATABASE" envDefault:""`
	SSLMode  string `env:"PG_SSL_MODE" envDefault:"disable"`
	MaxConns int    `env:"PG_MAX_CONNS" envDefault:"10"`
}

// DSN renders the keyword/value connection string understood by pgx and
// database/sql. Values are single-quoted.
func (p Postgres) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		dsnQuote(p.Host), p.Port, dsnQuote(p.User), dsnQuote(p.Password), dsnQuote(p.Database), dsnQuote(p.SSLMode))
}

// ConnString is DSN plus the pgxpool sizing options.
func (p Postgres) ConnString() string {
	return fmt.Sprintf("%s pool_max_conns=%d", p.DSN(), p.MaxConns)
}

var dsnEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func dsnQuote(v string) string {
	return "'" + dsnEscaper.Replace(v) + "'"
}

// SQLite points at the local database file used when DB_DRIVER=sqlite.
type SQLite struct {
	Path string `env:"SQLITE_PATH" envDefault:"trivia.db"`
}

// Redis holds category cache configuration. An empty address disables caching.
type Redis struct {
	Addr             string        `env:"REDIS_ADDR" envDefault:""`
	DB               int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize         int           `env:"REDIS_POOL_SIZE" envDefault:"20"`
	CategoryCacheTTL time.Duration `env:"CATEGORY_CACHE_TTL" envDefault:"5m"`
}

// Quiz groups quiz selection behaviour.
type Quiz struct {
	FilterByCategory bool `env:"QUIZ_FILTER_BY_CATEGORY" envDefault:"true"`
}

// CORS holds Cross-Origin Resource Sharing configuration.
type CORS struct {
	AllowedOrigin  string `env:"CORS_ALLOWED_ORIGIN" envDefault:"*"`
	AllowedMethods string `env:"CORS_ALLOWED_METHODS" envDefault:"GET,PUT,POST,DELETE,OPTIONS"`
	AllowedHeaders string `env:"CORS_ALLOWED_HEADERS" envDefault:"Content-Type,Authorization,true"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *App) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		missing := []string{}
		if c.Postgres.Host == "" {
			missing = append(missing, "PG_HOST")
		}
		if c.Postgres.User == "" {
			missing = append(missing, "PG_USER")
		}
		if c.Postgres.Password == "" {
			missing = append(missing, "PG_PASSWORD")
		}
		if c.Postgres.Database == "" {
			missing = append(missing, "PG_DATABASE")
		}
		if len(missing) > 0 {
			return fmt.Errorf("postgres driver requires %v", missing)
		}
	case DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite driver requires SQLITE_PATH")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.Database.Driver)
	}
	return nil
}
