// Package redislock 基于 SET NX PX 的短时互斥锁，防止同一员工同一天的签到被并发写入
package redislock

import (
	"context"
	"time"

	"attendance-system/internal/store"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "attendance:lock:"

// unlockScript 只删除自己持有的锁
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type Locker struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Locker {
	return &Locker{client: client}
}

func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	token := uuid.NewString()
	ok, err := l.client.SetNX(ctx, keyPrefix+key, token, ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, store.ErrLocked
	}
	return func() {
		// 请求的 ctx 可能已取消，解锁用独立 context
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = unlockScript.Run(ctx, l.client, []string{keyPrefix + key}, token).Err()
	}, nil
}
