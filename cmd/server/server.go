package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"attendance-system/config"
	"attendance-system/internal/global/database"
	"attendance-system/internal/global/httpclient"
	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/middleware"
	internalOtel "attendance-system/internal/global/otel"
	"attendance-system/internal/global/rdb"
	"attendance-system/internal/global/response"
	"attendance-system/internal/global/sentry"
	"attendance-system/internal/module"
	"attendance-system/tools"

	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 10 * time.Second

var log *slog.Logger

func Init() {
	config.Init()
	log = logger.New("Server")

	if err := sentry.Init(); err != nil {
		log.Error("Sentry 初始化失败", "error", err)
	}

	if config.Get().OTel.Enable {
		log.Info("OTel Enabled")
		internalOtel.Init()
	}

	database.Init()
	rdb.Init()
	httpclient.Init()

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Module: %s", m.GetName()))
		m.Init()
	}
}

func newRouter() *gin.Engine {
	cfg := config.Get()
	gin.SetMode(string(cfg.Mode))
	r := gin.New()

	switch cfg.Mode {
	case config.ModeRelease:
		r.Use(middleware.Logger(logger.Get()))
	case config.ModeDebug:
		r.Use(gin.Logger())
	}
	r.Use(middleware.Cors())
	r.Use(middleware.Recovery())
	r.Use(sentry.Middleware(), middleware.SentryEnrichIP())

	if cfg.OTel.Enable {
		r.Use(middleware.Trace())
	}

	// 未配置 S3 时照片保存在本地，由这里提供访问
	if cfg.S3.Bucket == "" && strings.HasPrefix(cfg.Storage.BaseURL, "/") {
		r.Static(cfg.Storage.BaseURL, cfg.Storage.Home)
	}

	for _, m := range module.Modules {
		log.Info(fmt.Sprintf("Init Router: %s", m.GetName()))
		m.InitRouter(r.Group("/" + cfg.Prefix))
	}
	r.NoRoute(func(c *gin.Context) {
		response.Fail(c, response.ErrNotFound)
	})
	return r
}

// Run 启动 HTTP 服务，收到 SIGINT/SIGTERM 后优雅退出
func Run() {
	cfg := config.Get()
	srv := &http.Server{
		Addr:    net.JoinHostPort(cfg.Host, cfg.Port),
		Handler: newRouter(),
	}

	go func() {
		log.Info("服务启动", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			tools.PanicOnErr(err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	log.Info("正在关闭服务")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP 服务关闭失败", "error", err)
	}
	module.CloseAll()
	if err := rdb.Close(); err != nil {
		log.Error("Redis 连接关闭失败", "error", err)
	}
	if cfg.OTel.Enable {
		if err := internalOtel.Shutdown(shutdownCtx); err != nil {
			log.Error("Failed to shutdown TracerProvider", "error", err)
		}
	}
	sentry.Flush(2 * time.Second)
}
