package dashboard

import (
	"time"

	"attendance-system/config"
	"attendance-system/internal/global/database"
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/internal/module/leave"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	chartDays   = 7
	recentLimit = 10
)

type ChartPoint struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
}

type Activity struct {
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
}

func now() time.Time {
	return time.Now().In(config.Get().Attendance.Location())
}

func clock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.In(config.Get().Attendance.Location()).Format("15:04")
}

// lastDays 以 today 结尾的 n 天，按时间正序
func lastDays(today datatypes.Date, n int) []datatypes.Date {
	days := make([]datatypes.Date, n)
	for i := 0; i < n; i++ {
		days[i] = model.DateOf(time.Time(today).AddDate(0, 0, i-n+1))
	}
	return days
}

// fillChart 没有记录的日期补 0
func fillChart(days []datatypes.Date, counts map[string]int) []ChartPoint {
	points := make([]ChartPoint, 0, len(days))
	for _, d := range days {
		key := model.FormatDate(d)
		points = append(points, ChartPoint{Date: key, Present: counts[key]})
	}
	return points
}

func toActivities(rows []model.Attendance) []Activity {
	out := make([]Activity, 0, len(rows))
	for i := range rows {
		a := Activity{
			Date:     model.FormatDate(rows[i].Date),
			CheckIn:  clock(rows[i].CheckInTime),
			CheckOut: clock(rows[i].CheckOutTime),
		}
		if rows[i].Employee != nil {
			a.EmployeeName = rows[i].Employee.Name
		}
		out = append(out, a)
	}
	return out
}

func presentByDate(db *gorm.DB, from, to datatypes.Date) (map[string]int, error) {
	var stats []struct {
		Date    datatypes.Date
		Present int
	}
	err := db.Model(&model.Attendance{}).
		Select("date, COUNT(*) AS present").
		Where("date BETWEEN ? AND ? AND check_in_time IS NOT NULL", from, to).
		Group("date").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(stats))
	for _, s := range stats {
		counts[model.FormatDate(s.Date)] = s.Present
	}
	return counts, nil
}

// Admin 员工数、今日出勤、待审批请假、近 7 天出勤和最近打卡
func Admin(c *gin.Context) {
	db := database.DB.WithContext(c.Request.Context())
	today := model.DateOf(now())
	days := lastDays(today, chartDays)

	var employees, pending int64
	if err := db.Model(&model.Employee{}).Count(&employees).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if err := db.Model(&model.Leave{}).Where("status = ?", model.LeavePending).Count(&pending).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	counts, err := presentByDate(db, days[0], today)
	if err != nil {
		log.Error("统计出勤失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var recent []model.Attendance
	if err := db.Preload("Employee").Order("updated_at DESC").Limit(recentLimit).Find(&recent).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"employees":      employees,
		"present_today":  counts[model.FormatDate(today)],
		"pending_leaves": pending,
		"chart":          fillChart(days, counts),
		"recent":         toActivities(recent),
	})
}

// Employee 今日状态、本月出勤天数、假期额度和最近的请假
func Employee(c *gin.Context) {
	employeeID, ok := jwt.CurrentEmployee(c)
	if !ok {
		response.Fail(c, response.ErrForbidden.WithTips("当前账号未关联员工"))
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	t := now()
	today := model.DateOf(t)
	monthStart := model.DateOf(time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC))

	summary, err := employeeSummary(db, employeeID, today, monthStart)
	if err != nil {
		log.Error("查询员工看板失败", "error", err, "employee_id", employeeID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	balances, err := leave.Balances(db, employeeID, t.Year())
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	summary["leave_balance"] = balances
	response.Success(c, summary)
}

func employeeSummary(db *gorm.DB, employeeID uuid.UUID, today, monthStart datatypes.Date) (gin.H, error) {
	var rows []model.Attendance
	if err := db.Where("employee_id = ? AND date = ?", employeeID, today).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	var presentDays int64
	err := db.Model(&model.Attendance{}).
		Where("employee_id = ? AND date BETWEEN ? AND ? AND check_in_time IS NOT NULL", employeeID, monthStart, today).
		Count(&presentDays).Error
	if err != nil {
		return nil, err
	}
	var leaves []model.Leave
	if err := db.Preload("LeaveType").Where("employee_id = ?", employeeID).
		Order("created_at DESC").Limit(5).Find(&leaves).Error; err != nil {
		return nil, err
	}

	status := gin.H{"checked_in": false}
	if len(rows) > 0 {
		rec := &rows[0]
		status = gin.H{
			"checked_in":     rec.CheckedIn(),
			"check_in_time":  clock(rec.CheckInTime),
			"check_out_time": clock(rec.CheckOutTime),
			"status":         rec.Status,
		}
	}
	return gin.H{
		"today":         status,
		"present_days":  presentDays,
		"recent_leaves": leaves,
	}, nil
}
