package model

import (
	"time"

	"gorm.io/datatypes"
)

// KnowledgeDocument backs the retrieval corpus. Ids are sequential so the
// store keeps insertion order.
type KnowledgeDocument struct {
	Id        uint           `gorm:"primaryKey;autoIncrement"`
	Title     string         `gorm:"type:text;not null;index"`
	Body      string         `gorm:"type:text;not null"`
	Metadata  datatypes.JSON `json:"metadata,omitempty"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (KnowledgeDocument) TableName() string {
	return "knowledge_documents"
}
