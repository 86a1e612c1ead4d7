package model

import "github.com/google/uuid"

type User struct {
	Model
	Username   string     `gorm:"type:varchar(32);uniqueIndex;not null" json:"username"`
	Password   string     `gorm:"type:varchar(255);not null" json:"-"`
	RoleID     int        `gorm:"default:0;not null" json:"role_id"` // 0 员工 1 管理员
	EmployeeID *uuid.UUID `gorm:"type:char(36)" json:"employee_id"`

	Employee *Employee `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
}
