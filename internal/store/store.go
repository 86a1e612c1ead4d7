// Package store 定义考勤流程依赖的外部能力：考勤行读写、对象存储、写入锁。
// 生产实现在 gormstore、redislock 和 pictureBed，测试使用 memory。
package store

import (
	"context"
	"errors"
	"time"

	"attendance-system/internal/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var (
	ErrNotFound         = errors.New("store: record not found")
	ErrPermissionDenied = errors.New("store: permission denied")
	ErrLocked           = errors.New("store: locked by another request")
)

// 考勤行可写列
const (
	ColCheckInTime   = "check_in_time"
	ColCheckInPhoto  = "check_in_photo"
	ColCheckOutTime  = "check_out_time"
	ColCheckOutPhoto = "check_out_photo"
	ColStatus        = "status"
)

// AttendanceStore 按 (employee_id, date) 读写考勤行
type AttendanceStore interface {
	// QueryAttendance 找不到时返回 ErrNotFound
	QueryAttendance(ctx context.Context, employeeID uuid.UUID, date datatypes.Date) (*model.Attendance, error)
	// UpsertAttendance 以 (employee_id, date) 为自然键：不存在则插入，存在则只更新 cols，返回落库后的行
	UpsertAttendance(ctx context.Context, rec *model.Attendance, cols []string) (*model.Attendance, error)
	// UpdateAttendance 按 rec.ID 更新 cols，行不存在返回 ErrNotFound
	UpdateAttendance(ctx context.Context, rec *model.Attendance, cols []string) error
}

// ObjectStore 照片存储桶
type ObjectStore interface {
	// UploadObject 权限被拒时返回包装了 ErrPermissionDenied 的错误
	UploadObject(ctx context.Context, key, contentType string, data []byte) error
	PublicURL(key string) string
}

// Locker 短时互斥锁，拿不到时返回 ErrLocked
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (unlock func(), err error)
}
