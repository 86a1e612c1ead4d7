package model

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Employee struct {
	Model
	Name        string         `gorm:"type:varchar(64);not null" json:"name"`
	Email       string         `gorm:"type:varchar(128);uniqueIndex;not null" json:"email"`
	Department  string         `gorm:"type:varchar(64)" json:"department"`
	Designation string         `gorm:"type:varchar(64)" json:"designation"`
	JoinDate    datatypes.Date `gorm:"type:date" json:"join_date"`
	Salary      float64        `gorm:"type:decimal(12,2);default:0" json:"salary"`
	UserID      *uuid.UUID     `gorm:"type:char(36)" json:"user_id"`
}
