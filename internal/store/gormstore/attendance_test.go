package gormstore

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"attendance-system/internal/model"
	"attendance-system/internal/store"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

var checkInCols = []string{store.ColCheckInTime, store.ColCheckInPhoto, store.ColStatus}

func newStore(t *testing.T) (*AttendanceStore, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "attendance.db")), &gorm.Config{
		NamingStrategy: schema.NamingStrategy{SingularTable: true},
		Logger:         logger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Employee{}, &model.Attendance{}))
	return NewAttendanceStore(db), db
}

func newEmployee(t *testing.T, db *gorm.DB) uuid.UUID {
	t.Helper()
	e := model.Employee{Name: "alice", Email: fmt.Sprintf("%s@example.com", uuid.NewString())}
	require.NoError(t, db.Create(&e).Error)
	return e.ID
}

func at(hour, minute int) *time.Time {
	t := time.Date(2026, 3, 2, hour, minute, 0, 0, time.UTC)
	return &t
}

func ptr(s string) *string { return &s }

func countRows(t *testing.T, db *gorm.DB, employeeID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.Attendance{}).Where("employee_id = ?", employeeID).Count(&n).Error)
	return n
}

func checkIn(t *testing.T, s *AttendanceStore, employeeID uuid.UUID, when *time.Time, photo *string, cols []string) *model.Attendance {
	t.Helper()
	saved, err := s.UpsertAttendance(context.Background(), &model.Attendance{
		EmployeeID:   employeeID,
		Date:         model.DateOf(*when),
		CheckInTime:  when,
		CheckInPhoto: photo,
		Status:       model.AttendancePresent,
	}, cols)
	require.NoError(t, err)
	return saved
}

func TestQueryAttendance_NotFound(t *testing.T) {
	s, db := newStore(t)
	_, err := s.QueryAttendance(context.Background(), newEmployee(t, db), model.DateOf(*at(9, 0)))
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpsertAttendance_OneRowPerEmployeeDay(t *testing.T) {
	s, db := newStore(t)
	emp := newEmployee(t, db)

	first := checkIn(t, s, emp, at(9, 0), nil, checkInCols)
	require.NotEqual(t, uuid.Nil, first.ID)
	require.True(t, first.CheckedIn())

	second := checkIn(t, s, emp, at(9, 5), ptr("https://photos.example.com/a.png"), checkInCols)
	require.Equal(t, first.ID, second.ID)
	require.True(t, second.CheckInTime.Equal(*at(9, 5)))
	require.Equal(t, "https://photos.example.com/a.png", *second.CheckInPhoto)
	require.EqualValues(t, 1, countRows(t, db, emp))

	next := time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC)
	third := checkIn(t, s, emp, &next, nil, checkInCols)
	require.NotEqual(t, first.ID, third.ID)
	require.EqualValues(t, 2, countRows(t, db, emp))

	other := newEmployee(t, db)
	checkIn(t, s, other, at(9, 0), nil, checkInCols)
	require.EqualValues(t, 2, countRows(t, db, emp))
	require.EqualValues(t, 1, countRows(t, db, other))
}

func TestCheckInThenCheckOut_SameRow(t *testing.T) {
	s, db := newStore(t)
	emp := newEmployee(t, db)
	ctx := context.Background()

	saved := checkIn(t, s, emp, at(9, 0), ptr("in.png"), checkInCols)
	saved.CheckOutTime = at(17, 30)
	saved.CheckOutPhoto = ptr("out.png")
	require.NoError(t, s.UpdateAttendance(ctx, saved, []string{store.ColCheckOutTime, store.ColCheckOutPhoto}))

	got, err := s.QueryAttendance(ctx, emp, model.DateOf(*at(9, 0)))
	require.NoError(t, err)
	require.Equal(t, saved.ID, got.ID)
	require.False(t, got.CheckedIn())
	require.True(t, got.CheckInTime.Equal(*at(9, 0)))
	require.Equal(t, "in.png", *got.CheckInPhoto)
	require.True(t, got.CheckOutTime.Equal(*at(17, 30)))
	require.Equal(t, "out.png", *got.CheckOutPhoto)
	require.EqualValues(t, 1, countRows(t, db, emp))
}

func TestUpsertAttendance_ReopenClearsCheckOut(t *testing.T) {
	s, db := newStore(t)
	emp := newEmployee(t, db)
	ctx := context.Background()

	saved := checkIn(t, s, emp, at(9, 0), nil, checkInCols)
	saved.CheckOutTime = at(12, 0)
	saved.CheckOutPhoto = ptr("out.png")
	require.NoError(t, s.UpdateAttendance(ctx, saved, []string{store.ColCheckOutTime, store.ColCheckOutPhoto}))

	reopened := checkIn(t, s, emp, at(13, 0), nil,
		[]string{store.ColCheckInTime, store.ColStatus, store.ColCheckOutTime, store.ColCheckOutPhoto})
	require.Equal(t, saved.ID, reopened.ID)
	require.True(t, reopened.CheckedIn())
	require.Nil(t, reopened.CheckOutTime)
	require.Nil(t, reopened.CheckOutPhoto)
	require.True(t, reopened.CheckInTime.Equal(*at(13, 0)))
}

func TestUpsertAttendance_KeepsColumnsOutsideCols(t *testing.T) {
	s, db := newStore(t)
	emp := newEmployee(t, db)

	checkIn(t, s, emp, at(9, 0), ptr("in.png"), checkInCols)
	again := checkIn(t, s, emp, at(9, 10), nil, []string{store.ColCheckInTime, store.ColStatus})
	require.Equal(t, "in.png", *again.CheckInPhoto)
	require.True(t, again.CheckInTime.Equal(*at(9, 10)))
}

func TestUpdateAttendance_WritesNullForClearedColumns(t *testing.T) {
	s, db := newStore(t)
	emp := newEmployee(t, db)
	ctx := context.Background()

	saved := checkIn(t, s, emp, at(9, 0), nil, checkInCols)
	saved.CheckOutTime = at(17, 0)
	saved.CheckOutPhoto = ptr("out.png")
	require.NoError(t, s.UpdateAttendance(ctx, saved, []string{store.ColCheckOutTime, store.ColCheckOutPhoto}))

	saved.CheckOutTime, saved.CheckOutPhoto = nil, nil
	require.NoError(t, s.UpdateAttendance(ctx, saved, []string{store.ColCheckOutTime, store.ColCheckOutPhoto}))

	got, err := s.QueryAttendance(ctx, emp, model.DateOf(*at(9, 0)))
	require.NoError(t, err)
	require.Nil(t, got.CheckOutTime)
	require.Nil(t, got.CheckOutPhoto)
	require.True(t, got.CheckedIn())
}

func TestUpdateAttendance_MissingRow(t *testing.T) {
	s, db := newStore(t)
	rec := &model.Attendance{EmployeeID: newEmployee(t, db), CheckOutTime: at(17, 0)}
	rec.ID = uuid.New()
	err := s.UpdateAttendance(context.Background(), rec, []string{store.ColCheckOutTime})
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestUpdateAttendance_UnchangedValues(t *testing.T) {
	s, db := newStore(t)
	emp := newEmployee(t, db)
	ctx := context.Background()

	saved := checkIn(t, s, emp, at(9, 0), nil, checkInCols)
	saved.CheckOutTime = at(17, 0)
	cols := []string{store.ColCheckOutTime}
	require.NoError(t, s.UpdateAttendance(ctx, saved, cols))
	require.NoError(t, s.UpdateAttendance(ctx, saved, cols))
}
