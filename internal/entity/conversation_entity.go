package entity

import (
	"time"

	"github.com/google/uuid"
)

const DefaultConversationTitle = "Nueva Consulta"

type Conversation struct {
	Id           uuid.UUID
	UserId       string
	UserName     string
	Title        string
	MessageCount int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
