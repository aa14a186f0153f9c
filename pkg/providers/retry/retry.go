package retry

import (
	"context"
	"time"
)

// Config 重试配置
type Config struct {
	// 最大尝试次数（含首次）
	MaxAttempts int `json:"max_attempts"`

	// 固定的尝试间隔
	Delay time.Duration `json:"delay"`
}

// DefaultConfig 返回默认重试配置
func DefaultConfig() Config {
	return Config{
		MaxAttempts: 3,
		Delay:       time.Second,
	}
}

// Sleeper 延时原语，测试中可替换
type Sleeper func(d time.Duration)

// Do 以固定间隔执行有限次重试，首次成功即返回；
// 全部失败时返回最后一次的错误。传输、鉴权与响应格式错误同等对待。
func Do(ctx context.Context, cfg Config, sleep Sleeper, fn func(ctx context.Context) error) error {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if attempt > 1 {
			sleep(cfg.Delay)
		}
		if err := fn(ctx); err != nil {
			lastErr = err
			continue
		}
		return nil
	}
	return lastErr
}
