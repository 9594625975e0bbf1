package entity

import "time"

// Metadata sources for knowledge documents.
const (
	KnowledgeSourceBase   = "base_knowledge"
	KnowledgeSourceUpload = "upload"
	KnowledgeSourceReseed = "reseed"
)

type KnowledgeDocument struct {
	Id        uint
	Title     string
	Body      string
	Metadata  map[string]interface{}
	CreatedAt time.Time
}
