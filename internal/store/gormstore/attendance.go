// Package gormstore 基于 gorm/MySQL 的考勤行存储
package gormstore

import (
	"context"
	"errors"
	"slices"

	"attendance-system/internal/model"
	"attendance-system/internal/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AttendanceStore struct {
	db *gorm.DB
}

func NewAttendanceStore(db *gorm.DB) *AttendanceStore {
	return &AttendanceStore{db: db}
}

func (s *AttendanceStore) QueryAttendance(ctx context.Context, employeeID uuid.UUID, date datatypes.Date) (*model.Attendance, error) {
	var rec model.Attendance
	err := s.db.WithContext(ctx).
		Where("employee_id = ? AND date = ?", employeeID, date).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpsertAttendance 用 INSERT ... ON DUPLICATE KEY UPDATE 落库，并发建行时只会留下一行
func (s *AttendanceStore) UpsertAttendance(ctx context.Context, rec *model.Attendance, cols []string) (*model.Attendance, error) {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	db := s.db.WithContext(ctx)
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.AssignmentColumns(append(slices.Clone(cols), "updated_at")),
	}).Create(rec).Error
	if err != nil {
		return nil, err
	}
	// 冲突更新时 rec.ID 不是库里的主键，重新读取
	return s.QueryAttendance(ctx, rec.EmployeeID, rec.Date)
}

// UpdateAttendance 只写 cols，指针列为 nil 时写 NULL
func (s *AttendanceStore) UpdateAttendance(ctx context.Context, rec *model.Attendance, cols []string) error {
	db := s.db.WithContext(ctx)
	res := db.Model(rec).Select(cols).Updates(rec)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	// 值没变时部分驱动报告 0 行，确认行是否真的不存在
	var n int64
	if err := db.Model(&model.Attendance{}).Where("id = ?", rec.ID).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
