// Package migrations embeds the goose migration sets for each supported driver.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed postgres/*.sql sqlite/*.sql
var FS embed.FS

// dialects maps a DB_DRIVER value to its goose dialect and migration directory.
var dialects = map[string]struct {
	dialect string
	dir     string
}{
	"postgres": {dialect: "postgres", dir: "postgres"},
	"sqlite":   {dialect: "sqlite3", dir: "sqlite"},
}

// Run executes a goose command ("up", "down" or "status") against db using
// the embedded migrations for driver. goose keeps package-level state, so Run
// must not be called concurrently.
func Run(ctx context.Context, db *sql.DB, driver, command string) error {
	d, ok := dialects[driver]
	if !ok {
		return fmt.Errorf("no migrations for driver %q", driver)
	}

	goose.SetBaseFS(FS)
	goose.SetTableName("goose_db_version")
	if err := goose.SetDialect(d.dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	switch command {
	case "up":
		return goose.UpContext(ctx, db, d.dir)
	case "down":
		return goose.DownContext(ctx, db, d.dir)
	case "status":
		return goose.StatusContext(ctx, db, d.dir)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
}

// Up applies every pending migration for driver.
func Up(ctx context.Context, db *sql.DB, driver string) error {
	return Run(ctx, db, driver, "up")
}
