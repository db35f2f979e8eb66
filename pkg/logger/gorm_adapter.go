package logger

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"marketplace/infrastructure/persistence"

	"go.uber.org/zap"
	"gorm.io/gorm/logger"
)

// DefaultSlowQueryThreshold flags statements slower than this when database.slow_query_threshold is unset.
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// GormLoggerConfig tunes how repository SQL is reported.
type GormLoggerConfig struct {
	SlowThreshold time.Duration
	// IgnoreRecordNotFoundError keeps lookups of missing orders, reviews or users out of the log.
	// Repositories turn those into NotFound domain errors themselves.
	IgnoreRecordNotFoundError bool
	AddCaller                 bool
}

func DefaultGormLoggerConfig() *GormLoggerConfig {
	return &GormLoggerConfig{
		SlowThreshold:             DefaultSlowQueryThreshold,
		IgnoreRecordNotFoundError: true,
		AddCaller:                 true,
	}
}

// GormLoggerAdapter implements gorm's logger.Interface on top of the package zap logger.
// Every SQL line carries the request id and the table it touched.
type GormLoggerAdapter struct {
	logLevel logger.LogLevel
	logger   *zap.Logger
	config   *GormLoggerConfig
}

func NewGormLoggerAdapter(logLevel logger.LogLevel) *GormLoggerAdapter {
	return NewGormLoggerAdapterWithConfig(logLevel, DefaultGormLoggerConfig())
}

func NewGormLoggerAdapterWithConfig(logLevel logger.LogLevel, config *GormLoggerConfig) *GormLoggerAdapter {
	if config == nil {
		config = DefaultGormLoggerConfig()
	}
	base := log
	if base == nil {
		base = zap.NewNop()
	}
	return &GormLoggerAdapter{logLevel: logLevel, logger: base, config: config}
}

func (l *GormLoggerAdapter) LogMode(logLevel logger.LogLevel) logger.Interface {
	return &GormLoggerAdapter{logLevel: logLevel, logger: l.logger, config: l.config}
}

func (l *GormLoggerAdapter) forContext(ctx context.Context) *zap.Logger {
	out := l.logger
	if out == nil {
		out = zap.NewNop()
	}
	if requestID := persistence.RequestIDFromContext(ctx); requestID != "" {
		out = out.With(zap.String("request_id", requestID))
	}
	if l.config.AddCaller {
		out = out.WithOptions(zap.AddCaller())
	}
	return out
}

func (l *GormLoggerAdapter) Info(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Info {
		l.forContext(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Warn(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Warn {
		l.forContext(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Error(ctx context.Context, msg string, args ...interface{}) {
	if l.logLevel >= logger.Error {
		l.forContext(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

func (l *GormLoggerAdapter) Trace(ctx context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	if l.logLevel <= logger.Silent {
		return
	}

	sql, rows := fc()
	elapsed := time.Since(begin)
	fields := []zap.Field{
		zap.String("table", statementTable(sql)),
		zap.String("sql", sql),
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
	}
	out := l.forContext(ctx)

	if err != nil && l.logLevel >= logger.Error {
		if errors.Is(err, logger.ErrRecordNotFound) {
			if !l.config.IgnoreRecordNotFoundError {
				out.Debug("Database record not found", fields...)
			}
			return
		}
		out.Error("Database operation failed", append(fields, zap.Error(err))...)
		return
	}

	if l.config.SlowThreshold > 0 && elapsed > l.config.SlowThreshold && l.logLevel >= logger.Warn {
		out.Warn("Slow SQL query", append(fields, zap.Duration("threshold", l.config.SlowThreshold))...)
		return
	}

	if l.logLevel >= logger.Info {
		out.Info("SQL query executed", fields...)
	}
}

// statementTable returns the first table named after FROM, INTO or UPDATE, or "" when there is none.
func statementTable(sql string) string {
	tokens := strings.Fields(sql)
	for i := 0; i < len(tokens)-1; i++ {
		switch strings.ToUpper(tokens[i]) {
		case "FROM", "INTO", "UPDATE":
			return strings.Trim(tokens[i+1], "`\"(),;")
		}
	}
	return ""
}
