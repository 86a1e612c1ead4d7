// Package remote 考勤同步：照片上传（带重试）和按 (员工, 日期) 写入考勤行。
// 所有操作返回 Result，错误分类放在 Result.Err，调用方按 Success 分支。
package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"attendance-system/internal/global/logger"
	"attendance-system/internal/media"
	"attendance-system/internal/model"
	"attendance-system/internal/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	keyPrefix   = "attendance/"
	timeLayout  = "15:04"
	defaultLock = 10 * time.Second
)

// Result 所有操作统一的返回值
type Result struct {
	Success bool              `json:"success"`
	Time    string            `json:"time,omitempty"` // 本地时间 HH:MM
	URL     string            `json:"url,omitempty"`
	Record  *model.Attendance `json:"record,omitempty"`
	Err     *Error            `json:"error,omitempty"`
}

func fail(err *Error) Result {
	return Result{Err: err}
}

type Options struct {
	Policy        Policy
	Location      *time.Location
	Status        string // 签到写入的状态，默认 present
	LockTTL       time.Duration
	MaxPhotoBytes int

	Now    func() time.Time
	Sleep  func(ctx context.Context, d time.Duration) error
	Suffix func() string // 对象 key 的随机后缀
	Logger *slog.Logger
}

type Client struct {
	rows    store.AttendanceStore
	objects store.ObjectStore
	locker  store.Locker
	opts    Options
}

// New locker 可以为 nil，此时不做写入互斥，只依赖唯一索引
func New(rows store.AttendanceStore, objects store.ObjectStore, locker store.Locker, opts Options) *Client {
	if opts.Policy.MaxAttempts == 0 {
		opts.Policy = DefaultPolicy()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Status == "" {
		opts.Status = model.AttendancePresent
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = defaultLock
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	if opts.Suffix == nil {
		opts.Suffix = func() string { return uuid.NewString()[:8] }
	}
	if opts.Logger == nil {
		opts.Logger = logger.New("Remote")
	}
	return &Client{rows: rows, objects: objects, locker: locker, opts: opts}
}

func (c *Client) now() time.Time {
	return c.opts.Now().In(c.opts.Location)
}

// Today 配置时区下的今天
func (c *Client) Today() datatypes.Date {
	return model.DateOf(c.now())
}

// FormatTime 按配置时区格式化为 HH:MM，nil 返回空串
func (c *Client) FormatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(c.opts.Location).Format(timeLayout)
}

// ObjectKey attendance/<员工>_<毫秒时间戳>_<随机串>.<扩展名>
func (c *Client) ObjectKey(employeeID uuid.UUID, mime string) string {
	ext := "png"
	switch mime {
	case media.MimeJPEG:
		ext = "jpg"
	case media.MimeWebP:
		ext = "webp"
	}
	return fmt.Sprintf("%s%s_%d_%s.%s", keyPrefix, employeeID, c.now().UnixMilli(), c.opts.Suffix(), ext)
}

// UploadImage 解码 data URL 并上传，网络类失败按策略重试，权限类失败立即返回
func (c *Client) UploadImage(ctx context.Context, employeeID uuid.UUID, dataURL string) Result {
	mime, data, err := media.DecodeDataURL(dataURL, c.opts.MaxPhotoBytes)
	if err != nil {
		return fail(ErrInvalidPhoto.With(err))
	}
	key := c.ObjectKey(employeeID, mime)
	log := c.opts.Logger.With("employee_id", employeeID, "key", key)

	attempts := c.opts.Policy.attempts()
	for attempt := 1; ; attempt++ {
		err = c.objects.UploadObject(ctx, key, mime, data)
		if err == nil {
			if attempt > 1 {
				log.Info("照片上传重试成功", "attempt", attempt)
			}
			return Result{Success: true, URL: c.objects.PublicURL(key)}
		}
		if errors.Is(err, store.ErrPermissionDenied) {
			log.Warn("照片上传被拒绝", "error", err, "attempt", attempt)
			return fail(ErrUploadPermission.With(err))
		}
		if attempt >= attempts {
			break
		}
		log.Warn("照片上传失败，准备重试", "error", err, "attempt", attempt)
		if serr := c.opts.Sleep(ctx, c.opts.Policy.DelayAfter(attempt)); serr != nil {
			err = serr
			break
		}
	}
	log.Error("照片上传失败", "error", err, "attempts", attempts)
	return fail(ErrUploadNetwork.With(err))
}

// lock 同一员工同一天的写入互斥
func (c *Client) lock(ctx context.Context, employeeID uuid.UUID, date datatypes.Date) (func(), *Error) {
	if c.locker == nil {
		return func() {}, nil
	}
	unlock, err := c.locker.Lock(ctx, employeeID.String()+":"+model.FormatDate(date), c.opts.LockTTL)
	switch {
	case errors.Is(err, store.ErrLocked):
		return nil, ErrBusy
	case err != nil:
		return nil, ErrPersistence.With(err)
	}
	return unlock, nil
}

// CheckInOrUpdate 今天没有记录就新建，有则原地更新签到字段。已签退的一天再次签到会清空签退，保证签退不早于签到
func (c *Client) CheckInOrUpdate(ctx context.Context, employeeID uuid.UUID, photoURL string) Result {
	now := c.now()
	date := model.DateOf(now)
	unlock, lerr := c.lock(ctx, employeeID, date)
	if lerr != nil {
		return fail(lerr)
	}
	defer unlock()

	log := c.opts.Logger.With("employee_id", employeeID, "date", model.FormatDate(date))

	existing, err := c.rows.QueryAttendance(ctx, employeeID, date)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		log.Error("查询今日考勤失败", "error", err)
		return fail(ErrPersistence.With(err))
	}

	rec := &model.Attendance{
		EmployeeID:  employeeID,
		Date:        date,
		CheckInTime: &now,
		Status:      c.opts.Status,
	}
	cols := []string{store.ColCheckInTime, store.ColStatus}
	if photoURL != "" {
		rec.CheckInPhoto = &photoURL
		cols = append(cols, store.ColCheckInPhoto)
	}

	var saved *model.Attendance
	if existing == nil {
		// 并发建行时 ON DUPLICATE KEY 会退化成更新，同样要清掉签退
		saved, err = c.rows.UpsertAttendance(ctx, rec, append(cols, store.ColCheckOutTime, store.ColCheckOutPhoto))
	} else {
		rec.ID = existing.ID
		if existing.CheckOutTime != nil {
			log.Info("已签退后再次签到，重新开始当天考勤")
			cols = append(cols, store.ColCheckOutTime, store.ColCheckOutPhoto)
		}
		if err = c.rows.UpdateAttendance(ctx, rec, cols); err == nil {
			saved, err = c.rows.QueryAttendance(ctx, employeeID, date)
		}
	}
	if err != nil {
		log.Error("写入签到失败", "error", err)
		return fail(ErrPersistence.With(err))
	}

	log.Info("签到成功", "with_photo", photoURL != "", "updated", existing != nil)
	return Result{Success: true, Time: c.FormatTime(saved.CheckInTime), URL: photoURL, Record: saved}
}

// QuickCheckIn 不带照片签到
func (c *Client) QuickCheckIn(ctx context.Context, employeeID uuid.UUID) Result {
	return c.CheckInOrUpdate(ctx, employeeID, "")
}

// CheckOut 今天必须已有签到记录，否则返回 ErrNoCheckInFound 且不写任何数据
func (c *Client) CheckOut(ctx context.Context, employeeID uuid.UUID, photoURL string) Result {
	now := c.now()
	date := model.DateOf(now)
	unlock, lerr := c.lock(ctx, employeeID, date)
	if lerr != nil {
		return fail(lerr)
	}
	defer unlock()

	log := c.opts.Logger.With("employee_id", employeeID, "date", model.FormatDate(date))

	existing, rerr := c.requireCheckIn(ctx, employeeID, date)
	if rerr != nil {
		return fail(rerr)
	}

	out := now
	if existing.CheckInTime.After(out) {
		out = *existing.CheckInTime
	}
	rec := &model.Attendance{
		Model:        existing.Model,
		EmployeeID:   employeeID,
		Date:         date,
		CheckOutTime: &out,
	}
	cols := []string{store.ColCheckOutTime}
	if photoURL != "" {
		rec.CheckOutPhoto = &photoURL
		cols = append(cols, store.ColCheckOutPhoto)
	}

	if err := c.rows.UpdateAttendance(ctx, rec, cols); err != nil {
		log.Error("写入签退失败", "error", err)
		return fail(ErrPersistence.With(err))
	}
	saved, err := c.rows.QueryAttendance(ctx, employeeID, date)
	if err != nil {
		log.Error("读取签退结果失败", "error", err)
		return fail(ErrPersistence.With(err))
	}

	log.Info("签退成功", "with_photo", photoURL != "")
	return Result{Success: true, Time: c.FormatTime(saved.CheckOutTime), URL: photoURL, Record: saved}
}

func (c *Client) requireCheckIn(ctx context.Context, employeeID uuid.UUID, date datatypes.Date) (*model.Attendance, *Error) {
	existing, err := c.rows.QueryAttendance(ctx, employeeID, date)
	switch {
	case errors.Is(err, store.ErrNotFound):
		return nil, ErrNoCheckInFound
	case err != nil:
		return nil, ErrPersistence.With(err)
	case existing.CheckInTime == nil:
		return nil, ErrNoCheckInFound
	}
	return existing, nil
}

// CheckInWithPhoto 先上传，上传成功后才写考勤行
func (c *Client) CheckInWithPhoto(ctx context.Context, employeeID uuid.UUID, dataURL string) Result {
	up := c.UploadImage(ctx, employeeID, dataURL)
	if !up.Success {
		return up
	}
	return c.CheckInOrUpdate(ctx, employeeID, up.URL)
}

// CheckOutWithPhoto 没有签到记录时不上传照片
func (c *Client) CheckOutWithPhoto(ctx context.Context, employeeID uuid.UUID, dataURL string) Result {
	if _, rerr := c.requireCheckIn(ctx, employeeID, c.Today()); rerr != nil {
		return fail(rerr)
	}
	up := c.UploadImage(ctx, employeeID, dataURL)
	if !up.Success {
		return up
	}
	return c.CheckOut(ctx, employeeID, up.URL)
}

// TodayStatus 只读查询今天的考勤，没有记录时 Record 为 nil
func (c *Client) TodayStatus(ctx context.Context, employeeID uuid.UUID) Result {
	rec, err := c.rows.QueryAttendance(ctx, employeeID, c.Today())
	switch {
	case errors.Is(err, store.ErrNotFound):
		return Result{Success: true}
	case err != nil:
		return fail(ErrPersistence.With(err))
	}
	return Result{Success: true, Time: c.FormatTime(rec.CheckInTime), Record: rec}
}
