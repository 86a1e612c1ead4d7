package rdb

import (
	"context"
	"time"

	"attendance-system/config"
	"attendance-system/internal/global/sentry/tracing"
	"attendance-system/tools"

	"github.com/redis/go-redis/v9"
)

var Client *redis.Client

// Init 连接 Redis，未配置 Host 时不启用（签到锁退化为进程内锁）
func Init() {
	cfg := config.Get().Redis
	if cfg.Host == "" {
		return
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if tracing.IsEnabled() {
		client.AddHook(tracing.NewRedisSentryHook())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	tools.PanicOnErr(client.Ping(ctx).Err())
	Client = client
}

func Enabled() bool {
	return Client != nil
}

func Close() error {
	if Client == nil {
		return nil
	}
	return Client.Close()
}
