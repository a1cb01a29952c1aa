package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const maxLoggedSQL = 1000

var gormLevels = map[string]gormlogger.LogLevel{
	"silent": gormlogger.Silent,
	"error":  gormlogger.Error,
	"warn":   gormlogger.Warn,
	"info":   gormlogger.Info,
	"debug":  gormlogger.Info,
}

// GormLogger adapts zap to gorm's logger interface. Queries slower than
// Slow are reported at warn level.
type GormLogger struct {
	log   *zap.Logger
	Slow  time.Duration
	Level gormlogger.LogLevel
}

var _ gormlogger.Interface = (*GormLogger)(nil)

// NewGormLogger maps the application log level onto gorm's levels.
// Unknown levels report errors and slow queries only.
func NewGormLogger(l *zap.Logger, slowQuerySeconds float64, level string) *GormLogger {
	lvl, ok := gormLevels[level]
	if !ok {
		lvl = gormlogger.Warn
	}
	return &GormLogger{
		log:   l.Named("gorm"),
		Slow:  time.Duration(slowQuerySeconds * float64(time.Second)),
		Level: lvl,
	}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *g
	clone.Level = level
	return &clone
}

func (g *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	if g.Level >= gormlogger.Info {
		WithContext(ctx, g.log).Sugar().Infof(msg, args...)
	}
}

func (g *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	if g.Level >= gormlogger.Warn {
		WithContext(ctx, g.log).Sugar().Warnf(msg, args...)
	}
}

func (g *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	if g.Level >= gormlogger.Error {
		WithContext(ctx, g.log).Sugar().Errorf(msg, args...)
	}
}

// Trace logs failed statements, then slow ones, then everything else at
// debug when the level is Info. Record-not-found is a normal lookup miss.
func (g *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.Level <= gormlogger.Silent {
		return
	}

	took := time.Since(begin)
	failed := err != nil && !errors.Is(err, gorm.ErrRecordNotFound)
	slow := g.Slow > 0 && took > g.Slow

	switch {
	case failed && g.Level >= gormlogger.Error:
		WithContext(ctx, g.log).Error("gorm query error", append(queryFields(fc, took), zap.Error(err))...)
	case slow && g.Level >= gormlogger.Warn:
		WithContext(ctx, g.log).Warn("gorm slow query", append(queryFields(fc, took), zap.Duration("threshold", g.Slow))...)
	case g.Level >= gormlogger.Info:
		WithContext(ctx, g.log).Debug("gorm query", queryFields(fc, took)...)
	}
}

func queryFields(fc func() (string, int64), took time.Duration) []zap.Field {
	sql, rows := fc()
	fields := []zap.Field{zap.Int64("rows", rows), zap.Duration("elapsed", took)}
	if len(sql) > maxLoggedSQL {
		return append(fields, zap.String("sql", sql[:maxLoggedSQL]+"..."), zap.Bool("sql_truncated", true))
	}
	return append(fields, zap.String("sql", sql))
}
