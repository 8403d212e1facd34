package data

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormLogger forwards GORM logs to zerolog. Statements go out at debug,
// slow ones at warn and failures at error.
type GormLogger struct {
	logger        zerolog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func NewGormLogger(l zerolog.Logger, slowThreshold time.Duration) *GormLogger {
	return &GormLogger{
		logger:        l.With().Str("component", "gorm").Logger(),
		level:         logger.Warn,
		slowThreshold: slowThreshold,
	}
}

func (g *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *GormLogger) Info(_ context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Info {
		g.logger.Info().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Warn {
		g.logger.Warn().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, args ...interface{}) {
	if g.level >= logger.Error {
		g.logger.Error().Msg(fmt.Sprintf(msg, args...))
	}
}

func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && g.level >= logger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		g.logger.Error().Err(err).Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query failed")
	case g.slowThreshold > 0 && elapsed > g.slowThreshold && g.level >= logger.Warn:
		sql, rows := fc()
		g.logger.Warn().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("slow query")
	case g.logger.GetLevel() <= zerolog.DebugLevel:
		sql, rows := fc()
		g.logger.Debug().Dur("elapsed", elapsed).Int64("rows", rows).Str("sql", sql).Msg("query")
	}
}
