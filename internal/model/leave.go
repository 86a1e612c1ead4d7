package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	LeavePending  = "pending"
	LeaveApproved = "approved"
	LeaveRejected = "rejected"
)

type LeaveType struct {
	Model
	Name        string `gorm:"type:varchar(64);uniqueIndex;not null" json:"name"`
	Description string `gorm:"type:varchar(255)" json:"description"`
	DefaultDays int    `gorm:"default:0" json:"default_days"` // 新年度余额的默认天数
}

// LeaveBalance 员工某类假期某一年的额度
type LeaveBalance struct {
	Model
	EmployeeID  uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_balance,priority:1" json:"employee_id"`
	LeaveTypeID uuid.UUID `gorm:"type:char(36);not null;uniqueIndex:idx_balance,priority:2" json:"leave_type_id"`
	Year        int       `gorm:"not null;uniqueIndex:idx_balance,priority:3" json:"year"`
	TotalDays   int       `gorm:"not null;default:0" json:"total_days"`
	UsedDays    int       `gorm:"not null;default:0" json:"used_days"`

	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID" json:"leave_type,omitempty"`
}

func (b *LeaveBalance) Remaining() int {
	return b.TotalDays - b.UsedDays
}

type Leave struct {
	Model
	EmployeeID  uuid.UUID      `gorm:"type:char(36);not null;index" json:"employee_id"`
	LeaveTypeID uuid.UUID      `gorm:"type:char(36);not null" json:"leave_type_id"`
	StartDate   datatypes.Date `gorm:"type:date;not null" json:"start_date"`
	EndDate     datatypes.Date `gorm:"type:date;not null" json:"end_date"`
	Reason      string         `gorm:"type:varchar(512)" json:"reason"`
	Status      string         `gorm:"type:varchar(16);not null;default:pending;index" json:"status"`

	Employee  *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	LeaveType *LeaveType `gorm:"foreignKey:LeaveTypeID" json:"leave_type,omitempty"`
}

// Days 请假天数，首尾都算。按年月日计数，不受读回时区的夏令时影响
func (l *Leave) Days() int {
	start, end := calendarDay(l.StartDate), calendarDay(l.EndDate)
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// Covers 判断某天是否在请假区间内
func (l *Leave) Covers(d datatypes.Date) bool {
	s := FormatDate(d)
	return s >= FormatDate(l.StartDate) && s <= FormatDate(l.EndDate)
}
