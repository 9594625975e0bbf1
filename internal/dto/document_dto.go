package dto

import (
	"time"

	"github.com/google/uuid"
)

// UploadDocumentRequest is assembled by the controller from the multipart form.
type UploadDocumentRequest struct {
	UserId      string `validate:"required"`
	Filename    string `validate:"required"`
	ContentType string
	Data        []byte
}

type UploadDocumentResponse struct {
	Success    bool      `json:"success"`
	DocumentId uuid.UUID `json:"document_id"`
	Filename   string    `json:"filename"`
}

// UploadedDocumentResponse omits the content, as listing endpoints do.
type UploadedDocumentResponse struct {
	Id          uuid.UUID `json:"id"`
	UserId      string    `json:"user_id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// IngestUploadMessage is published on the ingestion topic after an upload.
type IngestUploadMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
