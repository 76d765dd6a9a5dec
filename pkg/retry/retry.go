// Package retry 提供针对限流错误的指数退避重试
package retry

import (
	"context"
	"time"

	"reno-ai-api/pkg/logger"
	"reno-ai-api/pkg/metrics"
)

const (
	// DefaultMaxRetries 默认最大重试次数
	DefaultMaxRetries = 3
	// DefaultBaseDelay 默认初始退避延迟
	DefaultBaseDelay = 2 * time.Second
)

// Config 重试配置
type Config struct {
	// MaxRetries 最大重试次数（不含首次调用）
	MaxRetries int
	// BaseDelay 初始退避延迟，每次重试后翻倍
	BaseDelay time.Duration
	// Retryable 判断错误是否可重试；为 nil 时不重试任何错误
	Retryable func(error) bool
	// Operation 用于日志和指标的操作名
	Operation string

	// sleep 可注入的等待函数，测试用
	sleep func(context.Context, time.Duration) error
}

// WithSleep 替换等待函数，返回副本
func (c Config) WithSleep(fn func(context.Context, time.Duration) error) Config {
	c.sleep = fn
	return c
}

// Do 执行操作，限流错误按指数退避重试
// 显式有界循环携带 (剩余次数, 当前延迟)，非限流错误立即透传，
// 重试耗尽后返回最后一次的错误。
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error)) (T, error) {
	var zero T

	maxRetries := cfg.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	delay := cfg.BaseDelay
	if delay <= 0 {
		delay = DefaultBaseDelay
	}
	sleep := cfg.sleep
	if sleep == nil {
		sleep = sleepContext
	}

	for remaining := maxRetries; ; remaining-- {
		out, err := op(ctx)
		if err == nil {
			return out, nil
		}
		if cfg.Retryable == nil || !cfg.Retryable(err) || remaining <= 0 {
			return zero, err
		}

		metrics.UpstreamRetries.WithLabelValues(cfg.Operation).Inc()
		logger.Warn(ctx, "rate limited by generation service, backing off",
			"operation", cfg.Operation,
			"delay", delay.String(),
			"retries_left", remaining,
			"error", err.Error(),
		)

		if err := sleep(ctx, delay); err != nil {
			return zero, err
		}
		delay *= 2
	}
}

// sleepContext 等待指定时长，context 取消时提前返回
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
