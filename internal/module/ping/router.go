package ping

import (
	"context"
	"time"

	"attendance-system/internal/global/database"
	"attendance-system/internal/global/rdb"
	"attendance-system/internal/global/response"

	"github.com/gin-gonic/gin"
)

const version = "1.0.0"

func (p *ModulePing) InitRouter(r *gin.RouterGroup) {
	r.GET("/ping", Ping)
}

// Ping 存活检查，同时报告 MySQL 和 Redis 是否可用
func Ping(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	result := map[string]any{
		"message": "pong",
		"version": version,
		"mysql":   check(ctx, database.DB != nil, pingMySQL),
		"redis":   check(ctx, rdb.Enabled(), pingRedis),
	}
	response.Success(c, result)
}

func check(ctx context.Context, enabled bool, fn func(context.Context) error) string {
	if !enabled {
		return "disabled"
	}
	if err := fn(ctx); err != nil {
		log.Warn("依赖不可用", "error", err)
		return "down"
	}
	return "up"
}

func pingMySQL(ctx context.Context) error {
	sqlDB, err := database.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func pingRedis(ctx context.Context) error {
	return rdb.Client.Ping(ctx).Err()
}
