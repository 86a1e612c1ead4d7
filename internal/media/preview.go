package media

import (
	"context"
	"image"
	"sync"
)

// Preview 服务端预览面：保存当前挂载的流，前端轮询取预览帧
type Preview struct {
	mu     sync.Mutex
	stream Stream
}

func (p *Preview) Attach(s Stream) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stream = s
}

func (p *Preview) Detach() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stream = nil
}

// Frame 当前预览帧，没有挂载流时返回 ErrNoStream
func (p *Preview) Frame(ctx context.Context) (image.Image, error) {
	p.mu.Lock()
	s := p.stream
	p.mu.Unlock()
	if s == nil {
		return nil, ErrNoStream
	}
	return s.Frame(ctx)
}
