package logger

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"attendance-system/config"

	sentryslog "github.com/getsentry/sentry-go/slog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	instance *slog.Logger
	once     sync.Once
)

// fanout 把同一条记录交给每个启用了该级别的 handler
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

// Handle 某个目标写失败不影响其他目标
func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range f {
		if h.Enabled(ctx, r.Level) {
			errs = append(errs, h.Handle(ctx, r.Clone()))
		}
	}
	return errors.Join(errs...)
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// Get 全局 Logger，第一次调用时按配置构建
func Get() *slog.Logger {
	once.Do(func() {
		instance = build(config.Get(), os.Stdout)
	})
	return instance
}

// build release 模式写 JSON 到轮转文件，否则写文本到 console；配置了 Sentry 时 Warn 以上同时上报
func build(cfg *config.Config, console io.Writer) *slog.Logger {
	release := cfg.Mode == config.ModeRelease
	opts := &slog.HandlerOptions{AddSource: release, Level: levelOf(cfg.Log.Level)}

	var h slog.Handler
	if release && cfg.Log.FilePath != "" {
		h = slog.NewJSONHandler(&lumberjack.Logger{
			Filename:   cfg.Log.FilePath,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
			Compress:   cfg.Log.Compress,
		}, opts)
	} else {
		h = slog.NewTextHandler(console, opts)
	}

	if cfg.Sentry.Dsn != "" {
		h = fanout{h, sentryslog.Option{
			EventLevel: []slog.Level{slog.LevelError},
			LogLevel:   []slog.Level{slog.LevelWarn, slog.LevelError},
			AddSource:  release,
		}.NewSentryHandler(context.Background())}
	}

	return slog.New(h).With(
		"app_name", "attendance-system",
		"env", string(cfg.Mode),
	)
}

// New 带 module 字段的 Logger
func New(module string) *slog.Logger {
	return Get().With("module", module)
}

// Discard 丢弃所有输出，给测试和未注入日志的组件用
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// RequestInfo gin.Context 满足这个接口
type RequestInfo interface {
	ClientIP() string
	GetHeader(string) string
}

// Request 给 base 加上请求方 IP，经过代理时附带原始转发头
func Request(base *slog.Logger, r RequestInfo) *slog.Logger {
	l := base.With("client_ip", r.ClientIP())
	if v := r.GetHeader("X-Forwarded-For"); v != "" {
		l = l.With("x_forwarded_for", v)
	}
	if v := r.GetHeader("X-Real-IP"); v != "" {
		l = l.With("x_real_ip", v)
	}
	return l
}

func levelOf(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
