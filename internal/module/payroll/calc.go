package payroll

import (
	"math"
	"time"

	"attendance-system/internal/model"

	"github.com/pkg/errors"
	"gorm.io/datatypes"
)

const monthLayout = "2006-01"

// ParseMonth YYYY-MM，返回该月 1 日 UTC 零点
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return time.Time{}, errors.Wrap(err, "月份格式应为 YYYY-MM")
	}
	return t, nil
}

// MonthRange 月初和月末
func MonthRange(month time.Time) (datatypes.Date, datatypes.Date) {
	return model.DateOf(month), model.DateOf(month.AddDate(0, 1, -1))
}

// WorkingDays 周一到周五
func WorkingDays(month time.Time) []datatypes.Date {
	var days []datatypes.Date
	for d := month; d.Month() == month.Month(); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, model.DateOf(d))
		}
	}
	return days
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Calculate 生成员工某月工资条。
// 工作日中有签到的算出勤，被已批准请假覆盖的算请假（带薪），其余为缺勤，按日薪扣款。
func Calculate(employee *model.Employee, month time.Time, rows []model.Attendance, leaves []model.Leave, bonus float64) model.Payroll {
	present := make(map[string]bool, len(rows))
	for i := range rows {
		if rows[i].CheckInTime != nil {
			present[model.FormatDate(rows[i].Date)] = true
		}
	}

	workdays := WorkingDays(month)
	var presentDays, leaveDays, absentDays int
	for _, d := range workdays {
		switch {
		case present[model.FormatDate(d)]:
			presentDays++
		case coveredByLeave(leaves, d):
			leaveDays++
		default:
			absentDays++
		}
	}

	p := model.Payroll{
		EmployeeID:  employee.ID,
		Month:       month.Format(monthLayout),
		BaseSalary:  employee.Salary,
		Bonus:       bonus,
		WorkingDays: len(workdays),
		PresentDays: presentDays,
		LeavesTaken: leaveDays,
		Status:      model.PayrollDraft,
	}
	if len(workdays) > 0 {
		daily := employee.Salary / float64(len(workdays))
		p.Deductions = round2(daily * float64(absentDays))
	}
	p.NetSalary = round2(p.BaseSalary - p.Deductions + p.Bonus)
	return p
}

func coveredByLeave(leaves []model.Leave, d datatypes.Date) bool {
	for i := range leaves {
		if leaves[i].Status == model.LeaveApproved && leaves[i].Covers(d) {
			return true
		}
	}
	return false
}
