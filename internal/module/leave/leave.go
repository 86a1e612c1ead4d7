package leave

import (
	"strings"
	"time"

	"attendance-system/internal/global/database"
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplyRequest struct {
	LeaveTypeID uuid.UUID `json:"leave_type_id" binding:"required"`
	StartDate   string    `json:"start_date" binding:"required"`
	EndDate     string    `json:"end_date" binding:"required"`
	Reason      string    `json:"reason" binding:"max=512"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type TypeRequest struct {
	Name        string `json:"name" binding:"required,max=64"`
	Description string `json:"description" binding:"max=255"`
	DefaultDays int    `json:"default_days" binding:"gte=0"`
}

type BalanceRequest struct {
	EmployeeID  uuid.UUID `json:"employee_id" binding:"required"`
	LeaveTypeID uuid.UUID `json:"leave_type_id" binding:"required"`
	Year        int       `json:"year" binding:"required,gte=2000"`
	TotalDays   int       `json:"total_days" binding:"gte=0"`
}

func currentEmployee(c *gin.Context) (uuid.UUID, bool) {
	id, ok := jwt.CurrentEmployee(c)
	if !ok {
		response.Fail(c, response.ErrForbidden.WithTips("当前账号未关联员工"))
	}
	return id, ok
}

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("id 格式错误"))
		return uuid.Nil, false
	}
	return id, true
}

// ListMine 自己的请假记录，新的在前
func ListMine(c *gin.Context) {
	employeeID, ok := currentEmployee(c)
	if !ok {
		return
	}
	offset, limit := tools.GetPage(c)
	var leaves []model.Leave
	err := database.DB.WithContext(c.Request.Context()).Preload("LeaveType").
		Where("employee_id = ?", employeeID).
		Order("start_date DESC").Offset(offset).Limit(limit).
		Find(&leaves).Error
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, leaves)
}

// Apply 提交请假申请，与自己未被拒绝的申请日期重叠时拒绝
func Apply(c *gin.Context) {
	employeeID, ok := currentEmployee(c)
	if !ok {
		return
	}
	var req ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	start, err1 := model.ParseDate(req.StartDate)
	end, err2 := model.ParseDate(req.EndDate)
	if err1 != nil || err2 != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("日期格式应为 YYYY-MM-DD"))
		return
	}
	if e := validateRange(start, end, today()); e != nil {
		response.Fail(c, e)
		return
	}

	leave := model.Leave{
		EmployeeID:  employeeID,
		LeaveTypeID: req.LeaveTypeID,
		StartDate:   start,
		EndDate:     end,
		Reason:      strings.TrimSpace(req.Reason),
		Status:      model.LeavePending,
	}
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		var lt model.LeaveType
		if err := tx.First(&lt, "id = ?", req.LeaveTypeID).Error; err != nil {
			return err
		}
		var overlap int64
		err := tx.Model(&model.Leave{}).
			Where("employee_id = ? AND status <> ? AND start_date <= ? AND end_date >= ?",
				employeeID, model.LeaveRejected, end, start).
			Count(&overlap).Error
		if err != nil {
			return err
		}
		if overlap > 0 {
			return response.ErrAlreadyExists.WithTips("与已有的请假申请日期重叠")
		}
		return tx.Create(&leave).Error
	})

	var re *response.Error
	switch {
	case errors.As(err, &re):
		response.Fail(c, re)
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("假期类型不存在"))
		return
	case err != nil:
		log.Error("提交请假失败", "error", err, "employee_id", employeeID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("提交请假", "employee_id", employeeID, "days", leave.Days())
	response.Success(c, leave)
}

// Balance 当年各类假期的额度
func Balance(c *gin.Context) {
	employeeID, ok := currentEmployee(c)
	if !ok {
		return
	}
	views, err := Balances(database.DB.WithContext(c.Request.Context()), employeeID, time.Time(today()).Year())
	if err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, views)
}

// Balances 供看板复用
func Balances(db *gorm.DB, employeeID uuid.UUID, year int) ([]BalanceView, error) {
	var types []model.LeaveType
	if err := db.Order("name").Find(&types).Error; err != nil {
		return nil, err
	}
	var balances []model.LeaveBalance
	if err := db.Where("employee_id = ? AND year = ?", employeeID, year).Find(&balances).Error; err != nil {
		return nil, err
	}
	return buildBalances(types, balances), nil
}

func ListTypes(c *gin.Context) {
	var types []model.LeaveType
	if err := database.DB.WithContext(c.Request.Context()).Order("name").Find(&types).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, types)
}

// ListAll 管理端查看申请，?status= 过滤
func ListAll(c *gin.Context) {
	offset, limit := tools.GetPage(c)
	query := database.DB.WithContext(c.Request.Context()).Preload("Employee").Preload("LeaveType")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	var leaves []model.Leave
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&leaves).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, leaves)
}

// UpdateStatus 审批：批准时在同一事务中扣减额度
func UpdateStatus(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var leave model.Leave
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&leave, "id = ?", id).Error; err != nil {
			return err
		}
		if e := validateTransition(leave.Status, req.Status); e != nil {
			return e
		}
		if req.Status == model.LeaveApproved {
			if err := deductBalance(tx, &leave); err != nil {
				return err
			}
		}
		leave.Status = req.Status
		return tx.Model(&leave).Update("status", req.Status).Error
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
		log.Error("审批请假失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("审批请假", "id", id, "status", req.Status)
	response.Success(c, leave)
}

func CreateType(c *gin.Context) {
	var req TypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	lt := model.LeaveType{Name: strings.TrimSpace(req.Name), Description: req.Description, DefaultDays: req.DefaultDays}
	err := database.DB.WithContext(c.Request.Context()).Create(&lt).Error
	switch {
	case database.IsDuplicateKey(err):
		response.Fail(c, response.ErrAlreadyExists.WithTips("假期类型已存在"))
		return
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, lt)
}

func UpdateType(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req TypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	res := database.DB.WithContext(c.Request.Context()).Model(&model.LeaveType{}).Where("id = ?", id).
		Updates(map[string]any{
			"name":         strings.TrimSpace(req.Name),
			"description":  req.Description,
			"default_days": req.DefaultDays,
		})
	switch {
	case database.IsDuplicateKey(res.Error):
		response.Fail(c, response.ErrAlreadyExists.WithTips("假期类型已存在"))
		return
	case res.Error != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(res.Error))
		return
	case res.RowsAffected == 0:
		response.Fail(c, response.ErrNotFound)
		return
	}
	response.Success(c)
}

// DeleteType 仍有申请引用时不允许删除
func DeleteType(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	db := database.DB.WithContext(c.Request.Context())
	var used int64
	if err := db.Model(&model.Leave{}).Where("leave_type_id = ?", id).Count(&used).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if used > 0 {
		response.Fail(c, response.ErrForbidden.WithTips("该假期类型已被使用"))
		return
	}
	res := db.Delete(&model.LeaveType{}, "id = ?", id)
	switch {
	case res.Error != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(res.Error))
		return
	case res.RowsAffected == 0:
		response.Fail(c, response.ErrNotFound)
		return
	}
	response.Success(c)
}

// SetBalance 设置员工某类假期某年的总天数，已用天数不变
func SetBalance(c *gin.Context) {
	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	balance := model.LeaveBalance{
		EmployeeID:  req.EmployeeID,
		LeaveTypeID: req.LeaveTypeID,
		Year:        req.Year,
		TotalDays:   req.TotalDays,
	}
	err := database.DB.WithContext(c.Request.Context()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "employee_id"}, {Name: "leave_type_id"}, {Name: "year"}},
		DoUpdates: clause.AssignmentColumns([]string{"total_days", "updated_at"}),
	}).Create(&balance).Error
	if err != nil {
		log.Error("设置假期额度失败", "error", err, "employee_id", req.EmployeeID)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c)
}
