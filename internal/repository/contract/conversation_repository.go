package contract

import (
	"context"
	"time"

	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, conv *entity.Conversation) error
	Update(ctx context.Context, conv *entity.Conversation) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// IncrementMessageCount bumps message_count by n and sets updated_at.
	IncrementMessageCount(ctx context.Context, id uuid.UUID, n int, at time.Time) error
}
