package entity

import (
	"time"

	"github.com/google/uuid"
)

type UploadedDocument struct {
	Id          uuid.UUID
	UserId      string
	Filename    string
	ContentType string
	Size        int64
	Content     string
	UploadedAt  time.Time
}
