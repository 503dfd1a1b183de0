package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type gormLogger struct {
	log           zerolog.Logger
	level         gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger routes gorm's logging to log. Queries are logged at debug
// level, slow queries at warn and failures at error.
func NewGormLogger(log zerolog.Logger, slowThreshold time.Duration) gormlogger.Interface {
	return &gormLogger{
		log:           log.With().Str("component", "gorm").Logger(),
		level:         gormlogger.Info,
		slowThreshold: slowThreshold,
	}
}

func (l *gormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &gormLogger{log: l.log, level: level, slowThreshold: l.slowThreshold}
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Info {
		l.log.Info().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Warn {
		l.log.Warn().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...any) {
	if l.level >= gormlogger.Error {
		l.log.Error().Msg(fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Error().Err(err).Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("query error")
	case l.slowThreshold > 0 && elapsed > l.slowThreshold:
		l.log.Warn().Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("slow query")
	case l.level >= gormlogger.Info:
		l.log.Debug().Str("sql", sql).Int64("rows", rows).Dur("duration", elapsed).Msg("query")
	}
}
