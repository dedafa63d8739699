package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kailas-cloud/gigmarket/internal/logger"
	"github.com/kailas-cloud/gigmarket/internal/metrics"
)

// Logger bridges gorm's logger onto zap. Statements are logged through the
// request logger when the context carries one.
type Logger struct {
	base      *zap.Logger
	level     gormlogger.LogLevel
	slowQuery time.Duration
}

var _ gormlogger.Interface = (*Logger)(nil)

// NewLogger reports errors and statements slower than slowQuery.
func NewLogger(base *zap.Logger, slowQuery time.Duration) *Logger {
	if base == nil {
		base = zap.NewNop()
	}
	return &Logger{base: base.Named("sql"), level: gormlogger.Warn, slowQuery: slowQuery}
}

// LogMode returns a copy with the given level.
func (l *Logger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	cp := *l
	cp.level = level
	return &cp
}

func (l *Logger) Info(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Info {
		l.from(ctx).Info(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Warn(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Warn {
		l.from(ctx).Warn(fmt.Sprintf(msg, args...))
	}
}

func (l *Logger) Error(ctx context.Context, msg string, args ...any) {
	if l.level >= gormlogger.Error {
		l.from(ctx).Error(fmt.Sprintf(msg, args...))
	}
}

// Trace records statement duration and logs failures and slow statements.
// Missing rows are not failures.
func (l *Logger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	op := operation(sql)
	metrics.DBQueryDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= gormlogger.Error:
		metrics.DBQueryErrorsTotal.WithLabelValues(op).Inc()
		l.from(ctx).Error("sql failed",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
			zap.Error(err),
		)
	case l.slowQuery > 0 && elapsed > l.slowQuery && l.level >= gormlogger.Warn:
		metrics.DBSlowQueriesTotal.Inc()
		l.from(ctx).Warn("slow sql",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
			zap.Duration("threshold", l.slowQuery),
		)
	case l.level >= gormlogger.Info:
		l.from(ctx).Debug("sql",
			zap.String("sql", sql),
			zap.Int64("rows", rows),
			zap.Duration("elapsed", elapsed),
		)
	}
}

func (l *Logger) from(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return l.base
	}
	if reqLog, ok := logger.Lookup(ctx); ok {
		return reqLog.Named("sql")
	}
	return l.base
}

// operation returns the leading SQL verb in lower case.
func operation(sql string) string {
	verb, _, _ := strings.Cut(strings.TrimSpace(sql), " ")
	switch v := strings.ToLower(verb); v {
	case "select", "insert", "update", "delete":
		return v
	default:
		return "other"
	}
}
