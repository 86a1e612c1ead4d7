package attendance

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"attendance-system/config"
	"attendance-system/internal/attendance/capture"
	"attendance-system/internal/attendance/remote"
	"attendance-system/internal/global/database"
	"attendance-system/internal/global/httpclient"
	"attendance-system/internal/global/logger"
	"attendance-system/internal/global/pictureBed"
	"attendance-system/internal/global/rdb"
	"attendance-system/internal/media"
	"attendance-system/internal/media/snapshot"
	"attendance-system/internal/store"
	"attendance-system/internal/store/gormstore"
	"attendance-system/internal/store/memory"
	"attendance-system/internal/store/redislock"
	"attendance-system/tools"
)

var log *slog.Logger

const sweepInterval = time.Minute

type ModuleAttendance struct {
	h *Handler
}

func (m *ModuleAttendance) GetName() string {
	return "Attendance"
}

func (m *ModuleAttendance) Init() {
	log = logger.New("Attendance")
	cfg := config.Get()

	loc := cfg.Attendance.Location()

	photos := pictureBed.FromConfig(cfg)
	if photos.UseS3() {
		tools.PanicOnErr(photos.InitS3(context.Background()))
	}

	client := remote.New(gormstore.NewAttendanceStore(database.DB), photos, newLocker(), remote.Options{
		Policy:        remote.PolicyFromConfig(cfg.Attendance),
		Location:      loc,
		Status:        cfg.Attendance.Status,
		LockTTL:       time.Duration(cfg.Attendance.LockTTLSeconds) * time.Second,
		MaxPhotoBytes: cfg.Attendance.MaxPhotoBytes,
		Logger:        logger.New("Remote"),
	})

	dev, err := newDevice(cfg.Camera)
	if err != nil {
		log.Error("摄像头初始化失败，拍照签到不可用", "driver", cfg.Camera.Driver, "error", err)
		dev = nil
	}

	registry := capture.NewRegistry(client, dev, capture.Options{
		IdleTTL: time.Duration(cfg.Attendance.SessionTTLMinutes) * time.Minute,
		Logger:  logger.New("Capture"),
	})
	registry.Start(context.Background(), sweepInterval)

	m.h = NewHandler(registry, client, photos, database.DB, cfg.Attendance.MaxPhotoBytes)
}

// Close 停止回收协程并释放所有摄像头会话
func (m *ModuleAttendance) Close() {
	if m.h != nil {
		m.h.registry.Shutdown()
	}
}

// newLocker 配置了 Redis 时用分布式锁，否则用进程内锁
func newLocker() store.Locker {
	if rdb.Enabled() {
		return redislock.New(rdb.Client)
	}
	return memory.NewLocker()
}

// newDevice 按 Camera.Driver 选择摄像头；none 返回 nil，打开摄像头时得到 ErrNoDevice
func newDevice(c config.Camera) (media.Device, error) {
	switch c.Driver {
	case "snapshot":
		if c.SnapshotURL == "" {
			return nil, errors.New("camera snapshot_url is empty")
		}
		return snapshot.New(httpclient.Client, c.SnapshotURL, c.Username, c.Password), nil
	case "static":
		dev, err := media.LoadStaticDevice(c.StaticImage)
		if err != nil {
			return nil, err
		}
		return dev, nil
	case "", "none":
		return nil, nil
	}
	return nil, errors.New("unknown camera driver: " + c.Driver)
}
