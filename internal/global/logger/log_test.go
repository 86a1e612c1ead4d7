package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"attendance-system/config"

	"github.com/stretchr/testify/require"
)

type fakeRequest struct {
	ip      string
	headers map[string]string
}

func (r fakeRequest) ClientIP() string          { return r.ip }
func (r fakeRequest) GetHeader(k string) string { return r.headers[k] }

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &m))
	return m
}

func TestRequest(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewJSONHandler(&buf, nil))

	Request(base, fakeRequest{ip: "10.0.0.8"}).Info("签到")
	line := decodeLine(t, &buf)
	require.Equal(t, "10.0.0.8", line["client_ip"])
	require.NotContains(t, line, "x_forwarded_for")

	buf.Reset()
	Request(base, fakeRequest{ip: "10.0.0.8", headers: map[string]string{
		"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
		"X-Real-IP":       "203.0.113.7",
	}}).Info("签到")
	line = decodeLine(t, &buf)
	require.Equal(t, "203.0.113.7, 10.0.0.1", line["x_forwarded_for"])
	require.Equal(t, "203.0.113.7", line["x_real_ip"])
}

func TestFanout(t *testing.T) {
	var info, warn bytes.Buffer
	h := fanout{
		slog.NewTextHandler(&info, &slog.HandlerOptions{Level: slog.LevelInfo}),
		slog.NewTextHandler(&warn, &slog.HandlerOptions{Level: slog.LevelWarn}),
	}
	l := slog.New(h).With("module", "Attendance")

	require.False(t, h.Enabled(context.Background(), slog.LevelDebug))
	l.Info("快速签到")
	require.Contains(t, info.String(), "module=Attendance")
	require.Empty(t, warn.String())

	l.Warn("打开摄像头失败")
	require.Equal(t, 2, strings.Count(info.String(), "\n"))
	require.Contains(t, warn.String(), "打开摄像头失败")
}

func TestBuild_DebugWritesConsole(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModeDebug
	cfg.Log.Level = "warn"
	cfg.Sentry.Dsn = ""

	var out bytes.Buffer
	l := build(cfg, &out)
	l.Info("不输出")
	require.Empty(t, out.String())

	l.Warn("输出")
	require.Contains(t, out.String(), "app_name=attendance-system")
	require.Contains(t, out.String(), "env=debug")
}

func TestLevelOf(t *testing.T) {
	require.Equal(t, slog.LevelDebug, levelOf("DEBUG"))
	require.Equal(t, slog.LevelError, levelOf("error"))
	require.Equal(t, slog.LevelInfo, levelOf(""))
}
