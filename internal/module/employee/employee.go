package employee

import (
	"strings"

	"attendance-system/internal/global/database"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type Request struct {
	Name        string  `json:"name" binding:"required,max=64"`
	Email       string  `json:"email" binding:"required,email"`
	Department  string  `json:"department" binding:"max=64"`
	Designation string  `json:"designation" binding:"max=64"`
	JoinDate    string  `json:"join_date"` // YYYY-MM-DD
	Salary      float64 `json:"salary" binding:"gte=0"`
}

// apply 把请求写入 e，日期格式错误时返回错误
func (r *Request) apply(e *model.Employee) error {
	e.Name = strings.TrimSpace(r.Name)
	e.Email = strings.ToLower(strings.TrimSpace(r.Email))
	e.Department = r.Department
	e.Designation = r.Designation
	e.Salary = r.Salary
	if r.JoinDate != "" {
		d, err := model.ParseDate(r.JoinDate)
		if err != nil {
			return err
		}
		e.JoinDate = d
	}
	return nil
}

func paramID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("id 格式错误"))
		return uuid.Nil, false
	}
	return id, true
}

// List 分页查询，?q= 按姓名/邮箱/部门模糊搜索
func List(c *gin.Context) {
	offset, limit := tools.GetPage(c)
	query := database.DB.WithContext(c.Request.Context()).Model(&model.Employee{})
	if q := strings.TrimSpace(c.Query("q")); q != "" {
		like := "%" + q + "%"
		query = query.Where("name LIKE ? OR email LIKE ? OR department LIKE ?", like, like, like)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	var employees []model.Employee
	if err := query.Order("name").Offset(offset).Limit(limit).Find(&employees).Error; err != nil {
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, gin.H{"total": total, "list": employees})
}

func Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var employee model.Employee
	err := database.DB.WithContext(c.Request.Context()).First(&employee, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound)
		return
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, employee)
}

func Create(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	var employee model.Employee
	if err := req.apply(&employee); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("入职日期格式应为 YYYY-MM-DD"))
		return
	}

	err := database.DB.WithContext(c.Request.Context()).Create(&employee).Error
	switch {
	case database.IsDuplicateKey(err):
		response.Fail(c, response.ErrAlreadyExists.WithTips("邮箱已被使用"))
		return
	case err != nil:
		log.Error("创建员工失败", "error", err, "email", employee.Email)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	log.Info("创建员工", "id", employee.ID, "name", employee.Name)
	response.Success(c, employee)
}

func Update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	db := database.DB.WithContext(c.Request.Context())
	var employee model.Employee
	err := db.First(&employee, "id = ?", id).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound)
		return
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if err := req.apply(&employee); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips("入职日期格式应为 YYYY-MM-DD"))
		return
	}

	err = db.Model(&employee).
		Select("name", "email", "department", "designation", "join_date", "salary").
		Updates(&employee).Error
	switch {
	case database.IsDuplicateKey(err):
		response.Fail(c, response.ErrAlreadyExists.WithTips("邮箱已被使用"))
		return
	case err != nil:
		log.Error("更新员工失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, employee)
}

// Delete 软删除员工，同时解除账号关联
func Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	var deleted int64
	err := database.DB.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&model.Employee{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		deleted = res.RowsAffected
		return tx.Model(&model.User{}).Where("employee_id = ?", id).Update("employee_id", nil).Error
	})
	if err != nil {
		log.Error("删除员工失败", "error", err, "id", id)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	if deleted == 0 {
		response.Fail(c, response.ErrNotFound)
		return
	}
	log.Info("删除员工", "id", id)
	response.Success(c)
}
