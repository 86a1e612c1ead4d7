package media

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// Acquirer 管理一个摄像头会话：Start 打开并等待出帧，Capture 抓一帧后释放，Release 可重复调用
type Acquirer struct {
	dev Device

	mu      sync.Mutex
	stream  Stream
	surface Surface
	size    image.Point
}

func NewAcquirer(dev Device) *Acquirer {
	return &Acquirer{dev: dev}
}

// Start 打开摄像头、挂到预览面，metadata 和 play 都成功才算就绪；任何一步失败都会释放流
func (a *Acquirer) Start(ctx context.Context, c Constraints, surface Surface) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()

	if a.dev == nil {
		return &AccessError{Err: ErrNoDevice}
	}
	s, err := a.dev.Open(ctx, c)
	if err != nil {
		return &AccessError{Err: err}
	}
	a.stream, a.surface = s, surface
	if surface != nil {
		surface.Attach(s)
	}

	size, err := s.Metadata(ctx)
	if err != nil {
		a.releaseLocked()
		return &AccessError{Err: err}
	}
	if err := s.Play(ctx); err != nil {
		a.releaseLocked()
		return &AccessError{Err: err}
	}
	a.size = size
	return nil
}

// Active 是否持有正在播放的流
func (a *Acquirer) Active() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream != nil && anyTrackLive(a.stream)
}

// Stream 当前流，测试里用来检查轨道状态
func (a *Acquirer) Stream() Stream {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream
}

// Capture 把当前帧逐像素拷进原始分辨率的 RGBA 画布，无损编码成 PNG data URL。无论成败都释放流
func (a *Acquirer) Capture(ctx context.Context) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	defer a.releaseLocked()

	if a.stream == nil || !anyTrackLive(a.stream) {
		return "", &CaptureError{Err: ErrNoStream}
	}
	frame, err := a.stream.Frame(ctx)
	if err != nil {
		return "", &CaptureError{Err: err}
	}

	size := a.size
	if size.X <= 0 || size.Y <= 0 {
		size = frame.Bounds().Size()
	}
	canvas := image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	if frame.Bounds().Size() == size {
		xdraw.Draw(canvas, canvas.Bounds(), frame, frame.Bounds().Min, xdraw.Src)
	} else {
		xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), frame, frame.Bounds(), xdraw.Src, nil)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, canvas); err != nil {
		return "", &CaptureError{Err: err}
	}
	return EncodeDataURL(MimePNG, buf.Bytes()), nil
}

// Release 停止所有轨道并摘下预览面
func (a *Acquirer) Release() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.releaseLocked()
}

func (a *Acquirer) releaseLocked() {
	if a.surface != nil {
		a.surface.Detach()
		a.surface = nil
	}
	if a.stream != nil {
		a.stream.Stop()
		a.stream = nil
	}
	a.size = image.Point{}
}
