package db

import (
	"context"
	"time"

	"gorm.io/gorm/logger"

	pkgLogger "github.com/pramodthundathil/ola-backend/pkg/logger"
)

// QueryObserver 每条 SQL 执行完成后回调一次，用于上报查询指标
type QueryObserver func(elapsed time.Duration)

// GormLogger GORM 日志记录器实现，输出到统一 slog
type GormLogger struct {
	enabled            bool
	slowQueryThreshold time.Duration
	observer           QueryObserver
}

// NewGormLogger 创建 GORM 日志记录器
func NewGormLogger(enabled bool, slowQueryThreshold time.Duration) *GormLogger {
	return &GormLogger{
		enabled:            enabled,
		slowQueryThreshold: slowQueryThreshold,
	}
}

// SetObserver 注册查询回调。连接初始化后、开始服务前设置，不做并发保护
func (l *GormLogger) SetObserver(fn QueryObserver) {
	l.observer = fn
}

// LogMode 设置日志模式
func (l *GormLogger) LogMode(level logger.LogLevel) logger.Interface {
	return l
}

// Info 记录信息日志
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if l.enabled {
		pkgLogger.Info(ctx, msg, "data", data)
	}
}

// Warn 记录警告日志
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	pkgLogger.Warn(ctx, msg, "data", data)
}

// Error 记录错误日志
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	pkgLogger.Error(ctx, msg, "data", data)
}

// Trace 记录 SQL 执行日志，超过阈值的慢查询单独告警。
// 指标回调不受日志开关影响
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	if l.observer != nil {
		l.observer(elapsed)
	}

	if !l.enabled {
		return
	}

	sqlStr, rows := fc()

	args := []interface{}{
		"duration", elapsed,
		"rows", rows,
		"sql", sqlStr,
	}

	if err != nil {
		args = append(args, "error", err)
		pkgLogger.Error(ctx, "SQL execution failed", args...)
	} else if elapsed > l.slowQueryThreshold {
		pkgLogger.Warn(ctx, "Slow query detected", args...)
	} else {
		pkgLogger.Debug(ctx, "SQL executed", args...)
	}
}
