package memory

import (
	"context"
	"sync"
	"time"

	"attendance-system/internal/store"
)

// Locker 进程内锁，语义与 redislock 一致：拿不到立即返回 store.ErrLocked
type Locker struct {
	mu    sync.Mutex
	held  map[string]time.Time
	clock func() time.Time
}

func NewLocker() *Locker {
	return &Locker{held: make(map[string]time.Time), clock: time.Now}
}

func (l *Locker) Lock(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.clock()
	if exp, ok := l.held[key]; ok && now.Before(exp) {
		return nil, store.ErrLocked
	}
	exp := now.Add(ttl)
	l.held[key] = exp
	return func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		// 过期后被别人重新拿到的锁不能误删
		if cur, ok := l.held[key]; ok && cur.Equal(exp) {
			delete(l.held, key)
		}
	}, nil
}
