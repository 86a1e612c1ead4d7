package model

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestDateOf(t *testing.T) {
	shanghai := time.FixedZone("CST", 8*3600)
	// UTC 前一天 18:30 在 +8 时区已经是第二天
	at := time.Date(2026, 3, 1, 18, 30, 0, 0, time.UTC).In(shanghai)
	require.Equal(t, "2026-03-02", FormatDate(DateOf(at)))

	d, err := ParseDate("2026-03-02")
	require.NoError(t, err)
	require.True(t, SameDate(d, DateOf(at)))

	_, err = ParseDate("2026-3-2")
	require.Error(t, err)
}

func TestLeaveDaysAndCovers(t *testing.T) {
	start, _ := ParseDate("2026-02-27")
	end, _ := ParseDate("2026-03-02")
	l := Leave{StartDate: start, EndDate: end}
	require.Equal(t, 4, l.Days())

	for _, s := range []string{"2026-02-27", "2026-02-28", "2026-03-02"} {
		d, _ := ParseDate(s)
		require.True(t, l.Covers(d), s)
	}
	outside, _ := ParseDate("2026-03-03")
	require.False(t, l.Covers(outside))

	l.EndDate, l.StartDate = start, end
	require.Zero(t, l.Days())
}

// 驱动按夏令时时区读回的 DATE 列
func TestLeaveDaysAcrossDST(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	local := func(m time.Month, d int) datatypes.Date {
		return datatypes.Date(time.Date(2026, m, d, 0, 0, 0, 0, ny))
	}

	spring := Leave{StartDate: local(time.March, 7), EndDate: local(time.March, 9)}
	require.Equal(t, 3, spring.Days())

	autumn := Leave{StartDate: local(time.October, 31), EndDate: local(time.November, 2)}
	require.Equal(t, 3, autumn.Days())

	single := Leave{StartDate: local(time.March, 8), EndDate: local(time.March, 8)}
	require.Equal(t, 1, single.Days())
}

func TestAttendanceCheckedIn(t *testing.T) {
	var nilRec *Attendance
	require.False(t, nilRec.CheckedIn())

	now := time.Now()
	rec := &Attendance{CheckInTime: &now}
	require.True(t, rec.CheckedIn())
	rec.CheckOutTime = &now
	require.False(t, rec.CheckedIn())
}

func TestBeforeCreateAssignsID(t *testing.T) {
	var m Model
	require.NoError(t, m.BeforeCreate(nil))
	require.NotEqual(t, uuid.Nil, m.ID)

	fixed := uuid.New()
	m = Model{ID: fixed}
	require.NoError(t, m.BeforeCreate(nil))
	require.Equal(t, fixed, m.ID)
}

func TestLeaveBalanceRemaining(t *testing.T) {
	b := LeaveBalance{TotalDays: 10, UsedDays: 3}
	require.Equal(t, 7, b.Remaining())
}
