package attendance

import (
	"context"
	"time"

	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const monthLayout = "2006-01"

// 日历上每天的状态
const (
	DayPresent  = "present"
	DayAbsent   = "absent"
	DayLeave    = "leave"
	DayWeekend  = "weekend"
	DayToday    = "today" // 今天还没签到
	DayUpcoming = "upcoming"
)

type CalendarDay struct {
	Date     string `json:"date"`
	Weekday  int    `json:"weekday"`
	Status   string `json:"status"`
	CheckIn  string `json:"check_in,omitempty"`
	CheckOut string `json:"check_out,omitempty"`
}

// parseMonth 解析 YYYY-MM，为空时取 today 所在月
func parseMonth(s string, today datatypes.Date) (time.Time, error) {
	if s == "" {
		t := time.Time(today)
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	return time.Parse(monthLayout, s)
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

// buildCalendar 生成一个月的考勤日历。优先级：有签到 > 请假 > 周末 > 未来/今天 > 缺勤
func buildCalendar(month time.Time, today datatypes.Date, rows []model.Attendance, leaves []model.Leave, format func(*time.Time) string) []CalendarDay {
	byDate := make(map[string]*model.Attendance, len(rows))
	for i := range rows {
		byDate[model.FormatDate(rows[i].Date)] = &rows[i]
	}
	todayKey := model.FormatDate(today)

	days := make([]CalendarDay, 0, 31)
	for d := month; d.Month() == month.Month(); d = d.AddDate(0, 0, 1) {
		date := model.DateOf(d)
		key := model.FormatDate(date)
		day := CalendarDay{Date: key, Weekday: int(d.Weekday())}

		switch rec := byDate[key]; {
		case rec != nil && rec.CheckInTime != nil:
			day.Status = DayPresent
			day.CheckIn = format(rec.CheckInTime)
			day.CheckOut = format(rec.CheckOutTime)
		case onLeave(leaves, date):
			day.Status = DayLeave
		case isWeekend(d):
			day.Status = DayWeekend
		case key > todayKey:
			day.Status = DayUpcoming
		case key == todayKey:
			day.Status = DayToday
		default:
			day.Status = DayAbsent
		}
		days = append(days, day)
	}
	return days
}

func onLeave(leaves []model.Leave, d datatypes.Date) bool {
	for i := range leaves {
		if leaves[i].Status == model.LeaveApproved && leaves[i].Covers(d) {
			return true
		}
	}
	return false
}

// Calendar 员工某月的考勤日历，?month=YYYY-MM
func (h *Handler) Calendar(c *gin.Context) {
	employeeID, ok := jwt.CurrentEmployee(c)
	if !ok {
		response.Fail(c, response.ErrForbidden.WithTips("当前账号未关联员工"))
		return
	}
	today := h.client.Today()
	month, err := parseMonth(c.Query("month"), today)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("月份格式应为 YYYY-MM"))
		return
	}
	first := model.DateOf(month)
	last := model.DateOf(month.AddDate(0, 1, -1))

	db := h.db.WithContext(c.Request.Context())
	var rows []model.Attendance
	if err := db.Where("employee_id = ? AND date BETWEEN ? AND ?", employeeID, first, last).
		Find(&rows).Error; err != nil {
		requestLog(c).Error("查询考勤日历失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var leaves []model.Leave
	if err := db.Where("employee_id = ? AND status = ? AND start_date <= ? AND end_date >= ?",
		employeeID, model.LeaveApproved, last, first).Find(&leaves).Error; err != nil {
		requestLog(c).Error("查询请假记录失败", "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	response.Success(c, gin.H{
		"month": month.Format(monthLayout),
		"days":  buildCalendar(month, today, rows, leaves, h.client.FormatTime),
	})
}

type recordView struct {
	ID            uuid.UUID `json:"id"`
	EmployeeID    uuid.UUID `json:"employee_id"`
	EmployeeName  string    `json:"employee_name"`
	Department    string    `json:"department"`
	Date          string    `json:"date"`
	CheckInTime   string    `json:"check_in_time"`
	CheckOutTime  string    `json:"check_out_time"`
	CheckInPhoto  string    `json:"check_in_photo"`
	CheckOutPhoto string    `json:"check_out_photo"`
	Status        string    `json:"status"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (h *Handler) toView(ctx context.Context, rec *model.Attendance) recordView {
	v := recordView{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		Date:          model.FormatDate(rec.Date),
		CheckInTime:   h.client.FormatTime(rec.CheckInTime),
		CheckOutTime:  h.client.FormatTime(rec.CheckOutTime),
		CheckInPhoto:  h.photos.PresignedPhotoURL(ctx, deref(rec.CheckInPhoto)),
		CheckOutPhoto: h.photos.PresignedPhotoURL(ctx, deref(rec.CheckOutPhoto)),
		Status:        rec.Status,
	}
	if rec.Employee != nil {
		v.EmployeeName = rec.Employee.Name
		v.Department = rec.Employee.Department
	}
	return v
}

// queryDate ?date=YYYY-MM-DD，为空时取今天
func (h *Handler) queryDate(c *gin.Context) (datatypes.Date, bool) {
	s := c.Query("date")
	if s == "" {
		return h.client.Today(), true
	}
	d, err := model.ParseDate(s)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("日期格式应为 YYYY-MM-DD"))
		return d, false
	}
	return d, true
}

func (h *Handler) recordsOn(ctx context.Context, date datatypes.Date) ([]model.Attendance, error) {
	var rows []model.Attendance
	err := h.db.WithContext(ctx).Preload("Employee").
		Where("date = ?", date).
		Order("check_in_time").
		Find(&rows).Error
	return rows, err
}

// List 管理端查看某天所有员工的考勤
func (h *Handler) List(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}
	rows, err := h.recordsOn(c.Request.Context(), date)
	if err != nil {
		log.Error("查询考勤列表失败", "date", model.FormatDate(date), "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	views := make([]recordView, 0, len(rows))
	present := 0
	for i := range rows {
		if rows[i].CheckInTime != nil {
			present++
		}
		views = append(views, h.toView(c.Request.Context(), &rows[i]))
	}
	response.Success(c, gin.H{
		"date":    model.FormatDate(date),
		"present": present,
		"records": views,
	})
}

func (h *Handler) exportRows(rows []model.Attendance) []model.AttendanceRow {
	out := make([]model.AttendanceRow, 0, len(rows))
	for i := range rows {
		rec := &rows[i]
		row := model.AttendanceRow{
			Date:     model.FormatDate(rec.Date),
			CheckIn:  h.client.FormatTime(rec.CheckInTime),
			CheckOut: h.client.FormatTime(rec.CheckOutTime),
			Status:   rec.Status,
			InPhoto:  deref(rec.CheckInPhoto),
			OutPhoto: deref(rec.CheckOutPhoto),
		}
		if rec.Employee != nil {
			row.Employee = rec.Employee.Name
			row.Department = rec.Employee.Department
		}
		out = append(out, row)
	}
	return out
}

// Export 导出某天考勤为 xlsx
func (h *Handler) Export(c *gin.Context) {
	date, ok := h.queryDate(c)
	if !ok {
		return
	}
	rows, err := h.recordsOn(c.Request.Context(), date)
	if err != nil {
		log.Error("导出考勤查询失败", "date", model.FormatDate(date), "error", err)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	name := "考勤_" + model.FormatDate(date) + ".xlsx"
	if err := tools.SendExcel(c, name, "考勤", h.exportRows(rows)); err != nil {
		log.Error("导出考勤失败", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
	}
}
