package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateConversationRequest struct {
	UserId   string `json:"user_id" validate:"required"`
	UserName string `json:"user_name" validate:"required"`
	Title    string `json:"title" validate:"omitempty,max=255"`
}

type ConversationResponse struct {
	Id           uuid.UUID `json:"id"`
	UserId       string    `json:"user_id"`
	UserName     string    `json:"user_name"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ConversationExport is the rendered PDF of a conversation.
type ConversationExport struct {
	Filename string
	Content  []byte
}
