package media

import (
	"context"
	"fmt"
	"image"
	"os"
	"sync"
)

// StaticDevice 总是返回同一张图片的摄像头，用于测试和没有真实摄像头的环境
type StaticDevice struct {
	mu    sync.Mutex
	img   image.Image
	live  *StaticStream
	opens int

	// OpenErr/MetadataErr/PlayErr 非空时对应步骤失败
	OpenErr     error
	MetadataErr error
	PlayErr     error
}

func NewStaticDevice(img image.Image) *StaticDevice {
	return &StaticDevice{img: img}
}

// LoadStaticDevice 从图片文件创建
func LoadStaticDevice(path string) (*StaticDevice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取摄像头静态图片失败: %w", err)
	}
	img, _, err := DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("解码摄像头静态图片失败: %w", err)
	}
	return NewStaticDevice(img), nil
}

func (d *StaticDevice) Open(_ context.Context, _ Constraints) (Stream, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.OpenErr != nil {
		return nil, d.OpenErr
	}
	if d.img == nil {
		return nil, ErrNoDevice
	}
	if d.live != nil && anyTrackLive(d.live) {
		return nil, ErrDeviceBusy
	}
	d.opens++
	d.live = &StaticStream{
		dev:    d,
		img:    d.img,
		tracks: []*Track{NewVideoTrack("static camera")},
	}
	return d.live, nil
}

// Opens 成功打开的次数
func (d *StaticDevice) Opens() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.opens
}

// Last 最近一次打开的流
func (d *StaticDevice) Last() *StaticStream {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}

type StaticStream struct {
	dev     *StaticDevice
	img     image.Image
	tracks  []*Track
	mu      sync.Mutex
	playing bool
}

func (s *StaticStream) Tracks() []*Track {
	return s.tracks
}

func (s *StaticStream) Metadata(ctx context.Context) (image.Point, error) {
	if err := ctx.Err(); err != nil {
		return image.Point{}, err
	}
	if s.dev.MetadataErr != nil {
		return image.Point{}, s.dev.MetadataErr
	}
	return s.img.Bounds().Size(), nil
}

func (s *StaticStream) Play(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.dev.PlayErr != nil {
		return s.dev.PlayErr
	}
	s.mu.Lock()
	s.playing = true
	s.mu.Unlock()
	return nil
}

func (s *StaticStream) Frame(ctx context.Context) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !anyTrackLive(s) {
		return nil, ErrNoStream
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.playing {
		return nil, ErrNotReady
	}
	return s.img, nil
}

func (s *StaticStream) Stop() {
	for _, t := range s.tracks {
		t.Stop()
	}
}
