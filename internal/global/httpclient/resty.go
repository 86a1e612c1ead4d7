package httpclient

import (
	"time"

	"attendance-system/config"
	"attendance-system/internal/global/sentry/tracing"

	"github.com/go-resty/resty/v2"
)

var Client *resty.Client

func Init() {
	Client = New(time.Duration(config.Get().Camera.TimeoutMs) * time.Millisecond)
}

// New 创建带 Sentry 追踪的 resty 客户端，timeout 为 0 时使用 10 秒
func New(timeout time.Duration) *resty.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().SetTimeout(timeout)
	if tracing.IsEnabled() {
		tracing.SetupRestyTracing(client)
	}
	return client
}
