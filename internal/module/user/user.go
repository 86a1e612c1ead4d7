package user

import (
	"attendance-system/internal/global/database"
	"attendance-system/internal/global/jwt"
	"attendance-system/internal/global/response"
	"attendance-system/internal/model"
	"attendance-system/tools"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const minPasswordLength = 6

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RegisterRequest struct {
	Username   string     `json:"username" binding:"required,max=32"`
	Password   string     `json:"password" binding:"required"`
	RoleID     int        `json:"role_id" binding:"oneof=0 1"`
	EmployeeID *uuid.UUID `json:"employee_id"`
}

type PasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

func payloadOf(user *model.User) jwt.Payload {
	p := jwt.Payload{
		UserID:   user.ID.String(),
		Username: user.Username,
		RoleID:   user.RoleID,
	}
	if user.EmployeeID != nil {
		p.EmployeeID = user.EmployeeID.String()
	}
	return p
}

// Login 用户名密码登录，返回 JWT
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Error("绑定登录请求失败", "error", err)
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}

	var user model.User
	err := database.DB.Where("username = ?", req.Username).First(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		log.Warn("用户不存在", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	case err != nil:
		log.Error("数据库查询失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	if !tools.PasswordCompare(req.Password, user.Password) {
		log.Warn("密码错误", "username", req.Username)
		response.Fail(c, response.ErrInvalidPassword)
		return
	}

	token, err := jwt.CreateToken(payloadOf(&user))
	if err != nil {
		response.Fail(c, response.ErrServerInternal.WithOrigin(err))
		return
	}
	log.Info("用户登录成功", "username", user.Username, "role_id", user.RoleID)
	response.Success(c, gin.H{
		"token":       token,
		"username":    user.Username,
		"role_id":     user.RoleID,
		"employee_id": user.EmployeeID,
	})
}

// Register 管理员创建账号，可以关联员工
func Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if err := validatePasswordStrength(req.Password); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}

	user := model.User{
		Username:   req.Username,
		Password:   tools.PasswordEncrypt(req.Password),
		RoleID:     req.RoleID,
		EmployeeID: req.EmployeeID,
	}
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if req.EmployeeID != nil {
			var employee model.Employee
			if err := tx.First(&employee, "id = ?", *req.EmployeeID).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		if req.EmployeeID == nil {
			return nil
		}
		return tx.Model(&model.Employee{}).Where("id = ?", *req.EmployeeID).Update("user_id", user.ID).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound.WithTips("员工不存在"))
		return
	case database.IsDuplicateKey(err):
		response.Fail(c, response.ErrAlreadyExists.WithTips("用户名已存在"))
		return
	case err != nil:
		log.Error("创建用户失败", "error", err, "username", req.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}

	log.Info("创建用户", "username", user.Username, "role_id", user.RoleID)
	response.Success(c, user)
}

// ChangePassword 修改自己的密码
func ChangePassword(c *gin.Context) {
	var req PasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithOrigin(err))
		return
	}
	if err := validatePasswordStrength(req.NewPassword); err != nil {
		response.Fail(c, response.ErrInvalidRequest.WithTips(err.Error()))
		return
	}
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}

	var user model.User
	if err := database.DB.First(&user, "id = ?", payload.UserID).Error; err != nil {
		response.Fail(c, response.ErrNotFound.WithOrigin(err))
		return
	}
	if !tools.PasswordCompare(req.OldPassword, user.Password) {
		response.Fail(c, response.ErrInvalidPassword)
		return
	}
	if err := database.DB.Model(&user).Update("password", tools.PasswordEncrypt(req.NewPassword)).Error; err != nil {
		log.Error("更新密码失败", "error", err, "username", user.Username)
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c)
}

// Me 当前用户和关联的员工信息
func Me(c *gin.Context) {
	payload, ok := jwt.GetUserPayload(c)
	if !ok {
		response.Fail(c, response.ErrTokenInvalid)
		return
	}
	var user model.User
	err := database.DB.Preload("Employee").First(&user, "id = ?", payload.UserID).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.Fail(c, response.ErrNotFound)
		return
	case err != nil:
		response.Fail(c, response.ErrDatabase.WithOrigin(err))
		return
	}
	response.Success(c, user)
}

// validatePasswordStrength 验证密码强度
func validatePasswordStrength(password string) error {
	if len(password) < minPasswordLength {
		return errors.Errorf("密码长度至少 %d 位", minPasswordLength)
	}
	return nil
}
