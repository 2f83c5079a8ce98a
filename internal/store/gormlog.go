package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"jobboard/internal/logging"
)

const slowQueryThreshold = 200 * time.Millisecond

// GormLogger routes gorm's logging through the application logger
type GormLogger struct {
	logger logging.Logger
	level  gormlogger.LogLevel
}

func NewGormLogger(logger logging.Logger) *GormLogger {
	level := gormlogger.Warn
	if logger.GetLevel() == logging.DebugLevel {
		level = gormlogger.Info
	}
	return &GormLogger{logger: logger, level: level}
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &GormLogger{logger: l.logger, level: level}
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Info {
		l.logger.Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Warn {
		l.logger.Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.level >= gormlogger.Error {
		l.logger.Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}

	elapsed := time.Since(begin)
	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		sql, rows := fc()
		l.logger.Error("query failed", map[string]interface{}{
			"error":    err.Error(),
			"sql":      sql,
			"rows":     rows,
			"duration": elapsed.String(),
		})
	case elapsed > slowQueryThreshold && l.level >= gormlogger.Warn:
		sql, rows := fc()
		l.logger.Warn("slow query", map[string]interface{}{
			"sql":      sql,
			"rows":     rows,
			"duration": elapsed.String(),
		})
	case l.level >= gormlogger.Info:
		sql, rows := fc()
		l.logger.Debug("query", map[string]interface{}{
			"sql":      sql,
			"rows":     rows,
			"duration": elapsed.String(),
		})
	}
}
