package contract

import (
	"context"

	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/repository/specification"
)

type MessageRepository interface {
	Create(ctx context.Context, msg *entity.Message) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Message, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
