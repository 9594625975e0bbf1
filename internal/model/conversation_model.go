package model

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId       string    `gorm:"type:varchar(255);not null;index"`
	UserName     string    `gorm:"type:varchar(255);not null"`
	Title        string    `gorm:"type:text;not null;default:'Nueva Consulta'"`
	MessageCount int       `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime;index"`
}

func (Conversation) TableName() string {
	return "conversations"
}
