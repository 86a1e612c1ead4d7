package remote

import (
	"context"
	"time"

	"attendance-system/config"
)

type Backoff string

const (
	BackoffFixed       Backoff = "fixed"
	BackoffExponential Backoff = "exponential"
)

// Policy 上传重试策略
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Backoff     Backoff
}

// DefaultPolicy 最多 3 次，每次间隔 1 秒
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: 3, Delay: time.Second, Backoff: BackoffFixed}
}

func PolicyFromConfig(c config.Attendance) Policy {
	p := DefaultPolicy()
	if c.UploadAttempts > 0 {
		p.MaxAttempts = c.UploadAttempts
	}
	if c.UploadDelayMs >= 0 {
		p.Delay = time.Duration(c.UploadDelayMs) * time.Millisecond
	}
	if c.UploadBackoff == string(BackoffExponential) {
		p.Backoff = BackoffExponential
	}
	return p
}

// DelayAfter 第 attempt 次失败后的等待时间，attempt 从 1 开始
func (p Policy) DelayAfter(attempt int) time.Duration {
	if p.Backoff != BackoffExponential || attempt <= 1 {
		return p.Delay
	}
	return p.Delay << (attempt - 1)
}

func (p Policy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
