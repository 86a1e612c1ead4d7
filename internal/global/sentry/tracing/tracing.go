// Package tracing 把 Sentry 性能追踪接到 GORM、Redis 和 Resty 上
package tracing

import (
	"context"

	"attendance-system/config"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// IsEnabled 检查 Sentry 追踪是否已启用
func IsEnabled() bool {
	return config.Get().Sentry.Dsn != ""
}

// ContextWithSpan 返回携带 sentrygin transaction 的请求 context，
// 传给 GORM/Redis/存储调用后，它们的 span 会挂在当前请求下
func ContextWithSpan(c *gin.Context) context.Context {
	if c == nil || c.Request == nil {
		return context.Background()
	}
	return c.Request.Context()
}

// StartSpan 在当前请求的 transaction 下创建子 span，调用方负责 Finish
//
//	span := tracing.StartSpan(c, "attendance.check_in", "带照片签到")
//	defer span.Finish()
func StartSpan(c *gin.Context, operation, description string) *sentry.Span {
	return StartSpanFromContext(ContextWithSpan(c), operation, description)
}

// StartSpanFromContext 非 gin handler 场景下创建 span，ctx 中有父 span 时挂在其下
func StartSpanFromContext(ctx context.Context, operation, description string) *sentry.Span {
	if ctx == nil {
		ctx = context.Background()
	}
	span := sentry.StartSpan(ctx, operation)
	span.Description = description
	return span
}

// finishSpan 统一收尾：低于阈值的 span 不采样，按错误设置状态
func finishSpan(span *sentry.Span, failed bool, slow bool, key string, err error) {
	if !slow {
		span.Sampled = sentry.SampledFalse
	}
	if failed {
		span.Status = sentry.SpanStatusInternalError
		if err != nil {
			span.SetData(key, err.Error())
		}
	} else {
		span.Status = sentry.SpanStatusOK
	}
	span.Finish()
}
