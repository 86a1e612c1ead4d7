package tracing

import (
	"context"
	"errors"
	"net"
	"strings"
	"time"

	"attendance-system/config"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
)

// RedisSentryHook 实现 redis.Hook，追踪签到锁等 Redis 操作
type RedisSentryHook struct {
	slowThreshold time.Duration
}

func NewRedisSentryHook() *RedisSentryHook {
	ms := config.Get().Sentry.Tracing.RedisSlowThresholdMs
	return &RedisSentryHook{slowThreshold: time.Duration(ms) * time.Millisecond}
}

func (h *RedisSentryHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *RedisSentryHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		span, ctx := h.start(ctx, "db.redis", strings.ToUpper(cmd.Name()))
		start := time.Now()
		err := next(ctx, cmd)
		if span != nil {
			span.SetData("db.operation", cmd.Name())
			// redis.Nil 表示键不存在，不是错误
			failed := err != nil && !errors.Is(err, redis.Nil)
			finishSpan(span, failed, h.isSlow(start), "redis.error", err)
		}
		return err
	}
}

func (h *RedisSentryHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		span, ctx := h.start(ctx, "db.redis.pipeline", pipelineDescription(cmds))
		start := time.Now()
		err := next(ctx, cmds)
		if span != nil {
			span.SetData("redis.pipeline_length", len(cmds))
			finishSpan(span, err != nil, h.isSlow(start), "redis.error", err)
		}
		return err
	}
}

func (h *RedisSentryHook) start(ctx context.Context, op, desc string) (*sentry.Span, context.Context) {
	parent := sentry.SpanFromContext(ctx)
	if parent == nil {
		return nil, ctx
	}
	span := parent.StartChild(op)
	span.Description = desc
	span.SetData("db.system", "redis")
	return span, span.Context()
}

func (h *RedisSentryHook) isSlow(start time.Time) bool {
	return h.slowThreshold <= 0 || time.Since(start) >= h.slowThreshold
}

// pipelineDescription 只列出前三个命令名，避免高基数
func pipelineDescription(cmds []redis.Cmder) string {
	if len(cmds) == 0 {
		return "PIPELINE (empty)"
	}
	names := make([]string, 0, 3)
	for i, cmd := range cmds {
		if i == 3 {
			break
		}
		names = append(names, strings.ToUpper(cmd.Name()))
	}
	desc := "PIPELINE: " + strings.Join(names, ", ")
	if len(cmds) > 3 {
		desc += "..."
	}
	return desc
}
