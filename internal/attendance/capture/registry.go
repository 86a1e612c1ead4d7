package capture

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"attendance-system/internal/media"

	"github.com/google/uuid"
)

type entry struct {
	once sync.Once
	c    *Controller
	err  error
	// ready 创建成功后在 Registry.mu 下写入，其他方法只读它
	ready *Controller
}

// Registry 每个员工一个控制器，首次使用时创建（只做一次状态读取），空闲超时后回收并释放摄像头
type Registry struct {
	sync Sync
	dev  media.Device
	opts Options
	log  *slog.Logger

	mu       sync.Mutex
	sessions map[uuid.UUID]*entry

	cancel context.CancelFunc
	done   chan struct{}
}

func NewRegistry(remoteSync Sync, dev media.Device, opts Options) *Registry {
	opts = opts.withDefaults()
	return &Registry{
		sync:     remoteSync,
		dev:      dev,
		opts:     opts,
		log:      opts.Logger,
		sessions: make(map[uuid.UUID]*entry),
	}
}

// Get 返回员工的控制器，不存在时创建；创建失败不缓存，下次请求会重新读取状态
func (r *Registry) Get(ctx context.Context, employeeID uuid.UUID) (*Controller, error) {
	r.mu.Lock()
	e, ok := r.sessions[employeeID]
	if !ok {
		e = &entry{}
		r.sessions[employeeID] = e
	}
	r.mu.Unlock()

	e.once.Do(func() {
		e.c, e.err = New(ctx, employeeID, r.sync, r.dev, r.opts)
	})
	r.mu.Lock()
	defer r.mu.Unlock()
	if e.err != nil {
		if r.sessions[employeeID] == e {
			delete(r.sessions, employeeID)
		}
		return nil, e.err
	}
	e.ready = e.c
	return e.c, nil
}

// Lookup 只查不建
func (r *Registry) Lookup(employeeID uuid.UUID) (*Controller, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[employeeID]
	if !ok || e.ready == nil {
		return nil, false
	}
	return e.ready, true
}

// Close 关闭并移除员工的控制器
func (r *Registry) Close(employeeID uuid.UUID) bool {
	r.mu.Lock()
	e, ok := r.sessions[employeeID]
	delete(r.sessions, employeeID)
	r.mu.Unlock()
	if !ok || e.ready == nil {
		return false
	}
	e.ready.Close()
	return true
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep 回收空闲超过 IdleTTL 的控制器，返回回收数量
func (r *Registry) Sweep() int {
	if r.opts.IdleTTL <= 0 {
		return 0
	}
	cutoff := r.opts.Now().Add(-r.opts.IdleTTL)

	var evicted []*Controller
	r.mu.Lock()
	for id, e := range r.sessions {
		if e.ready == nil {
			continue
		}
		if last, idle := e.ready.idleSince(); idle && last.Before(cutoff) {
			evicted = append(evicted, e.ready)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, c := range evicted {
		c.Close()
	}
	if len(evicted) > 0 {
		r.log.Info("回收空闲拍照会话", "count", len(evicted))
	}
	return len(evicted)
}

// Start 后台定期回收，ctx 取消或调用 Stop 时退出
func (r *Registry) Start(ctx context.Context, interval time.Duration) {
	r.done = make(chan struct{})
	if r.opts.IdleTTL <= 0 {
		close(r.done)
		return
	}
	if interval <= 0 {
		interval = time.Minute
	}
	ctx, r.cancel = context.WithCancel(ctx)
	go r.loop(ctx, interval)
}

func (r *Registry) loop(ctx context.Context, interval time.Duration) {
	defer close(r.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}

// Shutdown 停止回收并关闭所有控制器，释放摄像头
func (r *Registry) Shutdown() {
	if r.cancel != nil {
		r.cancel()
	}
	if r.done != nil {
		<-r.done
	}
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[uuid.UUID]*entry)
	r.mu.Unlock()
	for _, e := range sessions {
		if e.ready != nil {
			e.ready.Close()
		}
	}
}
