package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Model 公共字段，主键为 UUID
type Model struct {
	ID        uuid.UUID      `gorm:"type:char(36);primaryKey" json:"id" excel:"-"`
	CreatedAt time.Time      `json:"created_at" excel:"-"`
	UpdatedAt time.Time      `json:"updated_at" excel:"-"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-" excel:"-"`
}

func (m *Model) BeforeCreate(*gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
