package sentry

import (
	"fmt"
	"time"

	"attendance-system/config"
	"attendance-system/internal/global/jwt"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

const release = "attendance-system@1.0.0"

// CodedError 带错误码的错误，只有 5xxx 需要上报
type CodedError interface {
	error
	GetCode() int32
}

// Init 未配置 DSN 时什么都不做
func Init() error {
	cfg := config.Get()
	if cfg.Sentry.Dsn == "" {
		return nil
	}

	tracesSampleRate := cfg.Sentry.SampleRate
	if tracesSampleRate <= 0 {
		tracesSampleRate = 1.0
	}
	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = string(cfg.Mode)
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.Dsn,
		Environment:      environment,
		Release:          release,
		SampleRate:       1.0, // 错误事件不采样
		EnableTracing:    true,
		TracesSampleRate: tracesSampleRate,
		EnableLogs:       true,
		BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			// 考勤照片的 data URL 体积很大，不随事件上报
			if event.Request != nil {
				event.Request.Data = ""
			}
			return event
		},
	})
	if err != nil {
		return fmt.Errorf("sentry initialization failed: %w", err)
	}
	return nil
}

// Middleware 未配置 DSN 时返回空中间件
func Middleware() gin.HandlerFunc {
	if config.Get().Sentry.Dsn == "" {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return sentrygin.New(sentrygin.Options{
		Repanic:         true, // 交给外层 Recovery 转成 500
		WaitForDelivery: false,
		Timeout:         2 * time.Second,
	})
}

// CaptureException 上报服务器错误，业务错误（4xxx）忽略
func CaptureException(c *gin.Context, err error) {
	if config.Get().Sentry.Dsn == "" || !shouldReport(err) {
		return
	}
	hub := sentrygin.GetHubFromContext(c)
	if hub == nil {
		return
	}
	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetRequest(c.Request)
		scope.SetTag("path", c.FullPath())
		scope.SetTag("method", c.Request.Method)
		if claims, ok := jwt.GetUserPayload(c); ok {
			scope.SetUser(sentry.User{ID: claims.UserID, Username: claims.Username})
			if claims.EmployeeID != "" {
				scope.SetTag("employee_id", claims.EmployeeID)
			}
		}
		hub.CaptureException(err)
	})
}

func shouldReport(err error) bool {
	if e, ok := err.(CodedError); ok {
		return e.GetCode() >= 5000 && e.GetCode() < 6000
	}
	return true
}

// Flush 退出前等待事件发送完
func Flush(timeout time.Duration) {
	sentry.Flush(timeout)
}
