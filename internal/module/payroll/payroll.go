package payroll

import (
	"attendance-system/internal/global/database"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GenerateRequest struct {
	Month string `json:"month" binding:"required"`
}

type UpdateRequest struct {
	Bonus  *float64 `json:"bonus" binding:"omitempty,gte=0"`
	Status string   `json:"status" binding:"omitempty,oneof=draft paid"`
}

// exportRow 导出时带上员工姓名和部门
type exportRow struct {
	Name       string `excel:"员工"`
	Department string `excel:"部门"`
	model.Payroll
}

func monthOf(c *gin.Context) (string, bool) {
	month := c.Query("month")
	if _, err := ParseMonth(month); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("月份格式应为 YYYY-MM"))
		return "", false
	}
	return month, true
}

func listMonth(db *gorm.DB, month string) ([]model.Payroll, error) {
	var rows []model.Payroll
	err := db.Preload("Employee").Where("month = ?", month).Order("net_salary DESC").Find(&rows).Error
	return rows, err
}

// List 某月工资条
func List(c *gin.Context) {
	month, ok := monthOf(c)
	if !ok {
		return
	}
	rows, err := listMonth(database.DB.WithContext(c.Request.Context()), month)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, rows)
}

// Generate 按考勤和请假重新计算某月所有员工的工资条；已发放的不再覆盖，奖金保留
func Generate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	month, err := ParseMonth(req.Month)
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("月份格式应为 YYYY-MM"))
		return
	}
	first, last := MonthRange(month)

	generated := 0
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var employees []model.Employee
		if err := tx.Find(&employees).Error; err != nil {
			return err
		}
		var existing []model.Payroll
		if err := tx.Where("month = ?", req.Month).Find(&existing).Error; err != nil {
			return err
		}
		prev := make(map[uuid.UUID]model.Payroll, len(existing))
		for _, p := range existing {
			prev[p.EmployeeID] = p
		}

		var rows []model.Attendance
		if err := tx.Where("date BETWEEN ? AND ?", first, last).Find(&rows).Error; err != nil {
			return err
		}
		var leaves []model.Leave
		if err := tx.Where("status = ? AND start_date <= ? AND end_date >= ?", model.LeaveApproved, last, first).
			Find(&leaves).Error; err != nil {
			return err
		}
		rowsBy := make(map[uuid.UUID][]model.Attendance)
		for _, r := range rows {
			rowsBy[r.EmployeeID] = append(rowsBy[r.EmployeeID], r)
		}
		leavesBy := make(map[uuid.UUID][]model.Leave)
		for _, l := range leaves {
			leavesBy[l.EmployeeID] = append(leavesBy[l.EmployeeID], l)
		}

		for i := range employees {
			e := &employees[i]
			old, ok := prev[e.ID]
			if ok && old.Status == model.PayrollPaid {
				continue
			}
			p := Calculate(e, month, rowsBy[e.ID], leavesBy[e.ID], old.Bonus)
			err := tx.Clauses(clause.OnConflict{
				Columns: []clause.Column{{Name: "employee_id"}, {Name: "month"}},
				DoUpdates: clause.AssignmentColumns([]string{
					"base_salary", "deductions", "net_salary",
					"working_days", "present_days", "leaves_taken", "updated_at",
				}),
			}).Create(&p).Error
			if err != nil {
				return err
			}
			generated++
		}
		return nil
	})
	if err != nil {
		log.Error("生成工资条失败", "error", err, "month", req.Month)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("生成工资条", "month", req.Month, "count", generated)
	response.Success(c, gin.H{"month": req.Month, "generated": generated})
}

// Update 调整奖金或标记已发放，实发金额随奖金重算
func Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("id 格式错误"))
		return
	}
	var req UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var p model.Payroll
	err = database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&p, "id = ?", id).Error; err != nil {
			return err
		}
		if p.Status == model.PayrollPaid {
			return response.ErrInvalidState.WithTips("工资已发放")
		}
		if req.Bonus != nil {
			p.Bonus = *req.Bonus
			p.NetSalary = round2(p.BaseSalary - p.Deductions + p.Bonus)
		}
		if req.Status != "" {
			p.Status = req.Status
		}
		return tx.Model(&p).Select("bonus", "net_salary", "status").Updates(&p).Error
	})

	var re *response.Error
	switch {
	case errors.As(err, &re):
		response.Fail(c, re)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound)
		return
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, p)
}

// Export 导出某月工资条
func Export(c *gin.Context) {
	month, ok := monthOf(c)
	if !ok {
		return
	}
	rows, err := listMonth(database.DB.WithContext(c.Request.Context()), month)
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	out := make([]exportRow, 0, len(rows))
	for _, p := range rows {
		row := exportRow{Payroll: p}
		if p.Employee != nil {
			row.Name = p.Employee.Name
			row.Department = p.Employee.Department
		}
		out = append(out, row)
	}
	if err := tools.SendExcel(c, "工资_"+month+".xlsx", "工资", out); err != nil {
		log.Error("导出工资条失败", "error", err)
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
	}
}
