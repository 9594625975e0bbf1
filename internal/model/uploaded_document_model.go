package model

import (
	"time"

	"github.com/google/uuid"
)

type UploadedDocument struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId      string    `gorm:"type:varchar(255);not null;index"`
	Filename    string    `gorm:"type:varchar(255);not null"`
	ContentType string    `gorm:"type:varchar(255)"`
	Size        int64     `gorm:"not null;default:0"`
	Content     string    `gorm:"type:text;not null"`
	UploadedAt  time.Time `gorm:"autoCreateTime"`
}

func (UploadedDocument) TableName() string {
	return "uploaded_documents"
}
