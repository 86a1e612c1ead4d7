// Package memory 提供 store 能力的内存实现，用于测试和无数据库的本地调试
package memory

import (
	"context"
	"sync"
	"time"

	"attendance-system/internal/model"
	"attendance-system/internal/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type attendanceKey struct {
	employee uuid.UUID
	date     string
}

type AttendanceStore struct {
	mu   sync.Mutex
	rows map[attendanceKey]*model.Attendance

	// Err 非空时所有调用都返回它，模拟数据库故障
	Err error
	// Writes 成功写入的次数
	Writes int
}

func NewAttendanceStore() *AttendanceStore {
	return &AttendanceStore{rows: make(map[attendanceKey]*model.Attendance)}
}

func keyOf(employeeID uuid.UUID, date datatypes.Date) attendanceKey {
	return attendanceKey{employee: employeeID, date: model.FormatDate(date)}
}

func (s *AttendanceStore) QueryAttendance(_ context.Context, employeeID uuid.UUID, date datatypes.Date) (*model.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	rec, ok := s.rows[keyOf(employeeID, date)]
	if !ok {
		return nil, store.ErrNotFound
	}
	return cloneAttendance(rec), nil
}

func (s *AttendanceStore) UpsertAttendance(_ context.Context, rec *model.Attendance, cols []string) (*model.Attendance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	k := keyOf(rec.EmployeeID, rec.Date)
	existing, ok := s.rows[k]
	if !ok {
		row := cloneAttendance(rec)
		if row.ID == uuid.Nil {
			row.ID = uuid.New()
		}
		row.CreatedAt = time.Now()
		row.UpdatedAt = row.CreatedAt
		s.rows[k] = row
		s.Writes++
		return cloneAttendance(row), nil
	}
	applyColumns(existing, rec, cols)
	s.Writes++
	return cloneAttendance(existing), nil
}

func (s *AttendanceStore) UpdateAttendance(_ context.Context, rec *model.Attendance, cols []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	for _, row := range s.rows {
		if row.ID == rec.ID {
			applyColumns(row, rec, cols)
			s.Writes++
			return nil
		}
	}
	return store.ErrNotFound
}

// Rows 返回所有行的副本
func (s *AttendanceStore) Rows() []*model.Attendance {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*model.Attendance, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, cloneAttendance(row))
	}
	return out
}

// Put 直接写入一行，测试准备数据用
func (s *AttendanceStore) Put(rec *model.Attendance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row := cloneAttendance(rec)
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	s.rows[keyOf(row.EmployeeID, row.Date)] = row
}

func applyColumns(dst, src *model.Attendance, cols []string) {
	for _, col := range cols {
		switch col {
		case store.ColCheckInTime:
			dst.CheckInTime = src.CheckInTime
		case store.ColCheckInPhoto:
			dst.CheckInPhoto = src.CheckInPhoto
		case store.ColCheckOutTime:
			dst.CheckOutTime = src.CheckOutTime
		case store.ColCheckOutPhoto:
			dst.CheckOutPhoto = src.CheckOutPhoto
		case store.ColStatus:
			dst.Status = src.Status
		}
	}
	dst.UpdatedAt = time.Now()
}

func cloneAttendance(rec *model.Attendance) *model.Attendance {
	c := *rec
	c.CheckInTime = clonePtr(rec.CheckInTime)
	c.CheckOutTime = clonePtr(rec.CheckOutTime)
	c.CheckInPhoto = clonePtr(rec.CheckInPhoto)
	c.CheckOutPhoto = clonePtr(rec.CheckOutPhoto)
	return &c
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
