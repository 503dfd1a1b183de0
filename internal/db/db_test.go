package db_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/diewo77/go-library/internal/config"
	"github.com/diewo77/go-library/internal/db"
	"github.com/diewo77/go-library/internal/models"
	"github.com/rs/zerolog"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := config.DatabaseConfig{Driver: config.DriverSQLite, Path: filepath.Join(t.TempDir(), "test.db")}

	conn, err := db.Open(context.Background(), cfg, zerolog.Nop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}
	if !conn.Migrator().HasTable(&models.User{}) {
		t.Error("users table should exist")
	}
}

func TestOpen_UnknownDriver(t *testing.T) {
	if _, err := db.Open(context.Background(), config.DatabaseConfig{Driver: "mysql"}, zerolog.Nop()); err == nil {
		t.Error("expected error for unknown driver")
	}
}
