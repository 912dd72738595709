package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kart-io/logger"
)

// GormLogger routes GORM logs to the global kart-io logger.
type GormLogger struct {
	LogLevel      gormlogger.LogLevel
	SlowThreshold time.Duration
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger maps the numeric option level (1-4) to a GORM level.
func NewGormLogger(level int, slowThreshold time.Duration) *GormLogger {
	lvl := gormlogger.Silent
	if level >= int(gormlogger.Silent) && level <= int(gormlogger.Info) {
		lvl = gormlogger.LogLevel(level)
	}
	return &GormLogger{LogLevel: lvl, SlowThreshold: slowThreshold}
}

// LogMode sets the log level.
func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.LogLevel = level
	return &clone
}

func (l *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Info {
		logger.Infof(msg, data...)
	}
}

func (l *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Warn {
		logger.Warnf(msg, data...)
	}
}

func (l *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if l.LogLevel >= gormlogger.Error {
		logger.Errorf(msg, data...)
	}
}

// Trace logs failed queries, slow queries and, at info level, every query.
// Record-not-found is not a failure.
func (l *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.LogLevel <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && l.LogLevel >= gormlogger.Error && !errors.Is(err, gorm.ErrRecordNotFound):
		sql, rows := fc()
		logger.Errorw("database query failed",
			"error", err.Error(),
			"sql", sql,
			"rows", rows,
			"duration_ms", elapsed.Milliseconds(),
		)
	case l.SlowThreshold > 0 && elapsed > l.SlowThreshold && l.LogLevel >= gormlogger.Warn:
		sql, rows := fc()
		logger.Warnw("slow database query",
			"sql", sql,
			"rows", rows,
			"duration_ms", elapsed.Milliseconds(),
			"threshold_ms", l.SlowThreshold.Milliseconds(),
		)
	case l.LogLevel >= gormlogger.Info:
		sql, rows := fc()
		logger.Debugw("database query",
			"sql", sql,
			"rows", rows,
			"duration_ms", elapsed.Milliseconds(),
		)
	}
}
