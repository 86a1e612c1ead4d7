package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const AttendancePresent = "present"

// Attendance 员工某一天的考勤，(employee_id, date) 唯一
type Attendance struct {
	Model
	EmployeeID    uuid.UUID      `gorm:"type:char(36);not null;uniqueIndex:idx_employee_date,priority:1" json:"employee_id"`
	Date          datatypes.Date `gorm:"type:date;not null;uniqueIndex:idx_employee_date,priority:2" json:"date"`
	CheckInTime   *time.Time     `json:"check_in_time"`
	CheckInPhoto  *string        `gorm:"type:varchar(512)" json:"check_in_photo"`
	CheckOutTime  *time.Time     `json:"check_out_time"`
	CheckOutPhoto *string        `gorm:"type:varchar(512)" json:"check_out_photo"`
	Status        string         `gorm:"type:varchar(20);not null;default:present" json:"status"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}

// CheckedIn 当天有签到且尚未签退
func (a *Attendance) CheckedIn() bool {
	return a != nil && a.CheckInTime != nil && a.CheckOutTime == nil
}

// AttendanceRow 导出 Excel 用
type AttendanceRow struct {
	Date       string `excel:"日期"`
	Employee   string `excel:"员工"`
	Department string `excel:"部门"`
	CheckIn    string `excel:"签到时间"`
	CheckOut   string `excel:"签退时间"`
	Status     string `excel:"状态"`
	InPhoto    string `excel:"签到照片"`
	OutPhoto   string `excel:"签退照片"`
}
