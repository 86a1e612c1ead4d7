// Package media 摄像头采集：打开视频流、等待就绪、抓帧并编码成 PNG data URL。
package media

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync/atomic"
)

var (
	ErrPermissionDenied = errors.New("media: camera permission denied")
	ErrNoDevice         = errors.New("media: no camera device")
	ErrDeviceBusy       = errors.New("media: camera is held by another session")
	ErrNotReady         = errors.New("media: stream is not playing")
	ErrNoStream         = errors.New("media: no active stream")
)

type Facing string

const (
	FacingUser        Facing = "user"
	FacingEnvironment Facing = "environment"
)

// Constraints 打开摄像头时的偏好，设备尽量满足，不保证
type Constraints struct {
	Facing Facing `json:"facing"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// DefaultConstraints 前置摄像头 640x480
func DefaultConstraints() Constraints {
	return Constraints{Facing: FacingUser, Width: 640, Height: 480}
}

// Track 视频轨道，Stop 后不可恢复
type Track struct {
	Kind  string
	Label string
	ended atomic.Bool
}

func NewVideoTrack(label string) *Track {
	return &Track{Kind: "video", Label: label}
}

func (t *Track) Stop() {
	t.ended.Store(true)
}

func (t *Track) Live() bool {
	return !t.ended.Load()
}

// Stream 一次摄像头占用。就绪分两步：Metadata 拿到原始分辨率，Play 确认开始出帧
type Stream interface {
	Tracks() []*Track
	Metadata(ctx context.Context) (image.Point, error)
	Play(ctx context.Context) error
	Frame(ctx context.Context) (image.Image, error)
	Stop()
}

// Device 摄像头设备，同一时刻只允许一个活动的 Stream
type Device interface {
	Open(ctx context.Context, c Constraints) (Stream, error)
}

// Surface 预览面，Start 时挂上视频流，释放时摘下
type Surface interface {
	Attach(s Stream)
	Detach()
}

// AllTracksStopped 判断流的所有轨道都已结束
func AllTracksStopped(s Stream) bool {
	for _, t := range s.Tracks() {
		if t.Live() {
			return false
		}
	}
	return true
}

func anyTrackLive(s Stream) bool {
	return !AllTracksStopped(s)
}

// AccessError 无法获取摄像头：权限被拒、没有设备或设备被占用
type AccessError struct {
	Err error
}

func (e *AccessError) Error() string {
	return fmt.Sprintf("camera unavailable: %v", e.Err)
}

func (e *AccessError) Unwrap() error {
	return e.Err
}

// PermissionDenied 区分“没有权限”和“没有设备”，前者需要用户去授权
func (e *AccessError) PermissionDenied() bool {
	return errors.Is(e.Err, ErrPermissionDenied)
}

// CaptureError 抓帧失败
type CaptureError struct {
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("capture failed: %v", e.Err)
}

func (e *CaptureError) Unwrap() error {
	return e.Err
}
