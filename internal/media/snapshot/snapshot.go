// Package snapshot 通过 HTTP 抓图接口使用考勤机/网络摄像头
package snapshot

import (
	"context"
	"fmt"
	"image"
	"net/http"
	"sync"

	"attendance-system/internal/media"

	"github.com/go-resty/resty/v2"
)

type Device struct {
	client   *resty.Client
	url      string
	username string
	password string

	mu   sync.Mutex
	live *Stream
}

func New(client *resty.Client, url, username, password string) *Device {
	return &Device{client: client, url: url, username: username, password: password}
}

func (d *Device) Open(ctx context.Context, _ media.Constraints) (media.Stream, error) {
	if d.url == "" {
		return nil, media.ErrNoDevice
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.live != nil && !media.AllTracksStopped(d.live) {
		return nil, media.ErrDeviceBusy
	}
	d.live = &Stream{dev: d, tracks: []*media.Track{media.NewVideoTrack(d.url)}}
	return d.live, nil
}

// fetch 抓一张图，401/403 视为没有权限，连不上或 404 视为没有设备
func (d *Device) fetch(ctx context.Context) ([]byte, error) {
	req := d.client.R().SetContext(ctx)
	if d.username != "" {
		req.SetBasicAuth(d.username, d.password)
	}
	resp, err := req.Get(d.url)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", media.ErrNoDevice, err)
	}
	switch code := resp.StatusCode(); {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return nil, fmt.Errorf("%w: camera returned %d", media.ErrPermissionDenied, code)
	case code == http.StatusNotFound:
		return nil, fmt.Errorf("%w: camera returned 404", media.ErrNoDevice)
	case code >= 300:
		return nil, fmt.Errorf("snapshot camera returned %d", code)
	}
	return resp.Body(), nil
}

type Stream struct {
	dev    *Device
	tracks []*media.Track

	mu      sync.Mutex
	playing bool
}

func (s *Stream) Tracks() []*media.Track {
	return s.tracks
}

// Metadata 只解析第一帧的头部拿到原始分辨率
func (s *Stream) Metadata(ctx context.Context) (image.Point, error) {
	data, err := s.dev.fetch(ctx)
	if err != nil {
		return image.Point{}, err
	}
	cfg, _, err := media.DecodeConfig(data)
	if err != nil {
		return image.Point{}, fmt.Errorf("%w: %v", media.ErrNoDevice, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}

// Play 能完整解码一帧才算开始播放
func (s *Stream) Play(ctx context.Context) error {
	if _, err := s.decode(ctx); err != nil {
		return err
	}
	s.mu.Lock()
	s.playing = true
	s.mu.Unlock()
	return nil
}

func (s *Stream) Frame(ctx context.Context) (image.Image, error) {
	if media.AllTracksStopped(s) {
		return nil, media.ErrNoStream
	}
	s.mu.Lock()
	playing := s.playing
	s.mu.Unlock()
	if !playing {
		return nil, media.ErrNotReady
	}
	return s.decode(ctx)
}

func (s *Stream) decode(ctx context.Context) (image.Image, error) {
	data, err := s.dev.fetch(ctx)
	if err != nil {
		return nil, err
	}
	img, _, err := media.DecodeImage(data)
	if err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return img, nil
}

func (s *Stream) Stop() {
	for _, t := range s.tracks {
		t.Stop()
	}
}
