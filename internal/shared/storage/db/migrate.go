package db

import (
	"context"
	"database/sql"
	"embed"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// RunMigrations applies embedded SQL migrations via goose and returns the
// resulting schema version. A nil database is a no-op.
func RunMigrations(ctx context.Context, database *sql.DB) (int64, error) {
	if database == nil {
		return 0, nil
	}
	goose.SetBaseFS(migrationFiles)
	if err := goose.SetDialect("postgres"); err != nil {
		return 0, err
	}
	if err := goose.UpContext(ctx, database, "migrations"); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, database)
}
