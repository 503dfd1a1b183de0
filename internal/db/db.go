package db

import (
	"context"
	"fmt"
	"time"

	"github.com/diewo77/go-library/internal/config"
	"github.com/rs/zerolog"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const connectAttempts = 5

// Open connects to the configured database. Postgres connections are retried
// to give the server time to start.
func Open(ctx context.Context, cfg config.DatabaseConfig, log zerolog.Logger) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.DSN())
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.DSN())
	default:
		return nil, fmt.Errorf("db: unsupported driver %q", cfg.Driver)
	}

	gormCfg := &gorm.Config{Logger: NewGormLogger(log, 200*time.Millisecond), TranslateError: true}

	var conn *gorm.DB
	var err error
	for i := 1; i <= connectAttempts; i++ {
		conn, err = gorm.Open(dialector, gormCfg)
		if err == nil {
			break
		}
		log.Warn().Err(err).Int("attempt", i).Msg("database connection failed, retrying")
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("db: connect: %w", ctx.Err())
		case <-time.After(time.Duration(i) * time.Second):
		}
	}
	if err != nil {
		return nil, fmt.Errorf("db: connect after %d attempts: %w", connectAttempts, err)
	}

	log.Info().Str("driver", cfg.Driver).Str("host", cfg.Host).Str("database", cfg.DBName).Msg("database connected")
	return conn, nil
}
