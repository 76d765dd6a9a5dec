package genai

import (
	"context"
	"time"
)

// Pacer 固定间隔节流器
// 批量图像生成刻意串行并在每次调用前等待固定间隔（首次除外），
// 用于礼让上游配额。节流策略与编排逻辑解耦，便于单独调整。
type Pacer struct {
	interval time.Duration
	started  bool

	// sleep 可注入的等待函数，测试用
	sleep func(context.Context, time.Duration) error
}

// NewPacer 创建节流器
func NewPacer(interval time.Duration) *Pacer {
	return &Pacer{
		interval: interval,
		sleep:    sleepContext,
	}
}

// WithSleep 替换等待函数，测试用
func (p *Pacer) WithSleep(fn func(context.Context, time.Duration) error) *Pacer {
	p.sleep = fn
	return p
}

// Wait 在第二次及之后的调用前等待固定间隔
func (p *Pacer) Wait(ctx context.Context) error {
	if !p.started {
		p.started = true
		return nil
	}
	if p.interval <= 0 {
		return nil
	}
	return p.sleep(ctx, p.interval)
}

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
