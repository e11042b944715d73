package database

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/credential-service/internal/config"
)

func TestDriverName(t *testing.T) {
	assert.Equal(t, "pgx", DriverName(config.DriverPostgres))
	assert.Equal(t, "mysql", DriverName(config.DriverMySQL))
}

func TestDSN_Postgres(t *testing.T) {
	cfg := config.Config{
		DBDriver: config.DriverPostgres, DBUser: "app", DBPassword: "p@ss word",
		DBHost: "db", DBPort: "5432", DBDatabase: "auth", DBSSLMode: "disable",
	}
	assert.Equal(t, "postgres://app:p%40ss%20word@db:5432/auth?sslmode=disable", DSN(cfg))

	cfg.DBPassword = ""
	assert.Equal(t, "postgres://app@db:5432/auth?sslmode=disable", DSN(cfg))
}

func TestDSN_MySQL(t *testing.T) {
	cfg := config.Config{
		DBDriver: config.DriverMySQL, DBUser: "app", DBPassword: "pw",
		DBHost: "db", DBPort: "3306", DBDatabase: "auth",
	}
	dsn := DSN(cfg)
	assert.True(t, strings.HasPrefix(dsn, "app:pw@tcp(db:3306)/auth?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestMigrations_EmbeddedPerDialect(t *testing.T) {
	for _, dialect := range []string{config.DriverPostgres, config.DriverMySQL} {
		sub, err := Migrations(dialect)
		require.NoError(t, err)
		b, err := fs.ReadFile(sub, "00001_create_users.sql")
		require.NoError(t, err, dialect)
		assert.Contains(t, string(b), "-- +goose Up")
		assert.Contains(t, string(b), "users_email_key")
		assert.Contains(t, string(b), "users_username_key")
	}
}

func TestMigrate_UsesSeam(t *testing.T) {
	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	var called bool
	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		called = true
		assert.Equal(t, ".", dir)
		return nil
	}
	require.NoError(t, Migrate(context.Background(), nil, config.DriverPostgres))
	assert.True(t, called)

	gooseUpContext = func(context.Context, *sql.DB, string, ...goose.OptionsFunc) error {
		return errors.New("boom")
	}
	err := Migrate(context.Background(), nil, config.DriverMySQL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
