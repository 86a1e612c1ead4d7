package middleware

import (
	"bytes"
	"log/slog"
	"regexp"
	"strings"
	"time"

	sentrylib "github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
)

// maxResponseLogSize 日志中记录的响应体最大大小（10KB）
const maxResponseLogSize = 10 * 1024

// dataURLPattern 照片 data URL 在日志里替换成占位符
var dataURLPattern = regexp.MustCompile(`data:image/[a-z+]+;base64,[A-Za-z0-9+/=]+`)

type responseBodyWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseBodyWriter) Write(b []byte) (int, error) {
	if remaining := maxResponseLogSize - w.body.Len(); remaining > 0 {
		w.body.Write(b[:min(len(b), remaining)])
	}
	return w.ResponseWriter.Write(b)
}

// Logger release 模式的请求日志，只记录 JSON 响应体
func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		blw := &responseBodyWriter{ResponseWriter: c.Writer, body: &bytes.Buffer{}}
		c.Writer = blw

		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"query", c.Request.URL.RawQuery,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		}
		if strings.HasPrefix(c.Writer.Header().Get("Content-Type"), "application/json") {
			attrs = append(attrs, "response_body", redactBody(blw.body.String()))
		}
		log.Info("HTTP Request", attrs...)
	}
}

func redactBody(body string) string {
	body = dataURLPattern.ReplaceAllString(body, "data:image/...(omitted)")
	if len(body) >= maxResponseLogSize {
		body += "...(truncated)"
	}
	return body
}

// SentryEnrichIP 放在 sentry.Middleware() 之后，把客户端 IP 写进 Scope
func SentryEnrichIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		if hub := sentrygin.GetHubFromContext(c); hub != nil {
			hub.ConfigureScope(func(scope *sentrylib.Scope) {
				clientIP := c.ClientIP()
				scope.SetUser(sentrylib.User{IPAddress: clientIP})
				scope.SetTag("client_ip", clientIP)
				if forwardedFor := c.GetHeader("X-Forwarded-For"); forwardedFor != "" {
					scope.SetTag("x_forwarded_for", forwardedFor)
				}
			})
		}
		c.Next()
	}
}
