package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"

	"github.com/iliyamo/credential-service/internal/config"
)

//go:embed migrations/postgres/*.sql migrations/mysql/*.sql
var migrationFS embed.FS

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// Migrations returns the embedded migration tree for a dialect.
func Migrations(dialect string) (fs.FS, error) {
	dir := "migrations/postgres"
	if dialect == config.DriverMySQL {
		dir = "migrations/mysql"
	}
	return fs.Sub(migrationFS, dir)
}

// Migrate applies all pending embedded migrations for the dialect.
func Migrate(ctx context.Context, db *sql.DB, dialect string) error {
	sub, err := Migrations(dialect)
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}
	goose.SetBaseFS(sub)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}
	if err := gooseUpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}
