// Package capture 考勤拍照流程的状态机：
// Idle → CameraActive → PhotoCaptured → Uploading → Idle，失败回到 PhotoCaptured，重拍回到 CameraActive。
// 与之并行的 CheckedIn 只由写库结果更新。
package capture

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"attendance-system/internal/attendance/remote"
	"attendance-system/internal/media"

	"github.com/google/uuid"
)

type State string

const (
	StateIdle          State = "idle"
	StateCameraActive  State = "camera_active"
	StatePhotoCaptured State = "photo_captured"
	StateUploading     State = "uploading"
)

// Sync 控制器用到的远端操作，*remote.Client 实现它
type Sync interface {
	TodayStatus(ctx context.Context, employeeID uuid.UUID) remote.Result
	QuickCheckIn(ctx context.Context, employeeID uuid.UUID) remote.Result
	CheckInWithPhoto(ctx context.Context, employeeID uuid.UUID, dataURL string) remote.Result
	CheckOutWithPhoto(ctx context.Context, employeeID uuid.UUID, dataURL string) remote.Result
	FormatTime(t *time.Time) string
}

// Snapshot 控制器当前状态的只读视图
type Snapshot struct {
	State        State         `json:"state"`
	CheckedIn    bool          `json:"checked_in"`
	CheckInTime  string        `json:"check_in_time,omitempty"`
	CheckOutTime string        `json:"check_out_time,omitempty"`
	HasImage     bool          `json:"has_image"`
	Image        string        `json:"image,omitempty"`
	Error        *remote.Error `json:"error,omitempty"`
}

type Controller struct {
	employeeID uuid.UUID
	sync       Sync
	acq        *media.Acquirer
	preview    *media.Preview
	log        *slog.Logger
	now        func() time.Time

	mu           sync.Mutex
	state        State
	checkedIn    bool
	checkInTime  string
	checkOutTime string
	image        string
	lastErr      *remote.Error
	lastUsed     time.Time
	closed       bool
}

// New 创建控制器并读取一次今天的考勤状态，之后不再轮询
func New(ctx context.Context, employeeID uuid.UUID, remoteSync Sync, dev media.Device, opts Options) (*Controller, error) {
	opts = opts.withDefaults()
	c := &Controller{
		employeeID: employeeID,
		sync:       remoteSync,
		acq:        media.NewAcquirer(dev),
		preview:    &media.Preview{},
		log:        opts.Logger.With("employee_id", employeeID),
		now:        opts.Now,
		state:      StateIdle,
	}
	res := remoteSync.TodayStatus(ctx, employeeID)
	if !res.Success {
		return nil, res.Err
	}
	if rec := res.Record; rec != nil {
		c.checkedIn = rec.CheckedIn()
		c.checkInTime = remoteSync.FormatTime(rec.CheckInTime)
		c.checkOutTime = remoteSync.FormatTime(rec.CheckOutTime)
	}
	c.lastUsed = c.now()
	return c, nil
}

func (c *Controller) EmployeeID() uuid.UUID {
	return c.employeeID
}

// Preview 摄像头打开期间的预览面
func (c *Controller) Preview() *media.Preview {
	return c.preview
}

// begin 进入一个动作：检查状态并清掉上次保留的错误，调用方持有 mu
func (c *Controller) begin(allowed ...State) *remote.Error {
	if c.closed {
		return remote.ErrInvalidState
	}
	if c.state == StateUploading {
		return remote.ErrBusy
	}
	c.lastUsed = c.now()
	for _, s := range allowed {
		if c.state == s {
			c.lastErr = nil
			return nil
		}
	}
	return remote.ErrInvalidState
}

// StartCamera Idle → CameraActive，失败时保持 Idle
func (c *Controller) StartCamera(ctx context.Context, constraints media.Constraints) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(StateIdle); err != nil {
		return c.snapshotLocked(), err
	}
	return c.startCameraLocked(ctx, constraints)
}

func (c *Controller) startCameraLocked(ctx context.Context, constraints media.Constraints) (Snapshot, error) {
	if err := c.acq.Start(ctx, constraints, c.preview); err != nil {
		c.state = StateIdle
		c.log.Warn("打开摄像头失败", "error", err)
		return c.snapshotLocked(), remote.ErrMediaAccess.With(err)
	}
	c.state = StateCameraActive
	return c.snapshotLocked(), nil
}

// CapturePhoto CameraActive → PhotoCaptured。抓帧失败时流已释放，回到 Idle 让用户重新打开摄像头
func (c *Controller) CapturePhoto(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(StateCameraActive); err != nil {
		return c.snapshotLocked(), err
	}
	img, err := c.acq.Capture(ctx)
	if err != nil {
		c.state = StateIdle
		c.log.Warn("拍照失败", "error", err)
		return c.snapshotLocked(), remote.ErrCapture.With(err)
	}
	c.image = img
	c.state = StatePhotoCaptured
	return c.snapshotLocked(), nil
}

// CancelCapture CameraActive → Idle
func (c *Controller) CancelCapture() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(StateCameraActive); err != nil {
		return c.snapshotLocked(), err
	}
	c.acq.Release()
	c.state = StateIdle
	return c.snapshotLocked(), nil
}

// Retake 丢弃照片并重新打开摄像头
func (c *Controller) Retake(ctx context.Context, constraints media.Constraints) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(StatePhotoCaptured); err != nil {
		return c.snapshotLocked(), err
	}
	c.image = ""
	c.state = StateIdle
	return c.startCameraLocked(ctx, constraints)
}

// AttachPhoto 使用浏览器端拍好的照片，打开中的摄像头会被释放
func (c *Controller) AttachPhoto(dataURL string, maxBytes int) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.begin(StateIdle, StateCameraActive); err != nil {
		return c.snapshotLocked(), err
	}
	if _, _, err := media.DecodeDataURL(dataURL, maxBytes); err != nil {
		return c.snapshotLocked(), remote.ErrInvalidPhoto.With(err)
	}
	c.acq.Release()
	c.image = dataURL
	c.state = StatePhotoCaptured
	return c.snapshotLocked(), nil
}

// QuickCheckIn 未签到且没有拍照流程时可用
func (c *Controller) QuickCheckIn(ctx context.Context) (Snapshot, error) {
	c.mu.Lock()
	if err := c.begin(StateIdle); err != nil {
		defer c.mu.Unlock()
		return c.snapshotLocked(), err
	}
	if c.checkedIn {
		defer c.mu.Unlock()
		return c.snapshotLocked(), remote.ErrInvalidState
	}
	c.state = StateUploading
	c.mu.Unlock()

	res := c.sync.QuickCheckIn(context.WithoutCancel(ctx), c.employeeID)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	if !res.Success {
		c.lastErr = res.Err
		return c.snapshotLocked(), res.Err
	}
	c.applyCheckIn(res)
	return c.snapshotLocked(), nil
}

// CheckInWithPhoto PhotoCaptured → Uploading → Idle，失败回到 PhotoCaptured 并保留错误
func (c *Controller) CheckInWithPhoto(ctx context.Context) (Snapshot, error) {
	return c.submit(ctx, c.sync.CheckInWithPhoto, c.applyCheckIn)
}

// CheckOutWithPhoto 同 CheckInWithPhoto
func (c *Controller) CheckOutWithPhoto(ctx context.Context) (Snapshot, error) {
	return c.submit(ctx, c.sync.CheckOutWithPhoto, c.applyCheckOut)
}

// submit 上传和写库期间不持有锁，其他动作会得到 ErrBusy；已开始的上传不随请求取消
func (c *Controller) submit(ctx context.Context,
	call func(context.Context, uuid.UUID, string) remote.Result,
	apply func(remote.Result),
) (Snapshot, error) {
	c.mu.Lock()
	if err := c.begin(StatePhotoCaptured); err != nil {
		defer c.mu.Unlock()
		return c.snapshotLocked(), err
	}
	img := c.image
	c.state = StateUploading
	c.mu.Unlock()

	res := call(context.WithoutCancel(ctx), c.employeeID, img)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !res.Success {
		c.state = StatePhotoCaptured
		c.lastErr = res.Err
		c.log.Warn("带照片打卡失败", "error", res.Err)
		return c.snapshotLocked(), res.Err
	}
	c.image = ""
	c.state = StateIdle
	apply(res)
	return c.snapshotLocked(), nil
}

func (c *Controller) applyCheckIn(res remote.Result) {
	c.checkedIn = true
	c.checkInTime = res.Time
	c.checkOutTime = ""
}

func (c *Controller) applyCheckOut(res remote.Result) {
	c.checkedIn = false
	c.checkOutTime = res.Time
	if res.Record != nil {
		c.checkInTime = c.sync.FormatTime(res.Record.CheckInTime)
	}
}

// Close 释放摄像头，之后所有动作返回 ErrInvalidState
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.acq.Release()
	c.image = ""
	c.closed = true
	if c.state != StateUploading {
		c.state = StateIdle
	}
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// CameraActive 摄像头是否真的持有流，测试和回收时使用
func (c *Controller) CameraActive() bool {
	return c.acq.Active()
}

// idleSince 空闲起点；上传中的控制器不会被回收
func (c *Controller) idleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastUsed, c.state != StateUploading
}

func (c *Controller) snapshotLocked() Snapshot {
	return Snapshot{
		State:        c.state,
		CheckedIn:    c.checkedIn,
		CheckInTime:  c.checkInTime,
		CheckOutTime: c.checkOutTime,
		HasImage:     c.image != "",
		Image:        c.image,
		Error:        c.lastErr,
	}
}
