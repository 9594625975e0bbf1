package contract

import (
	"context"

	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/repository/specification"
)

type UploadedDocumentRepository interface {
	Create(ctx context.Context, doc *entity.UploadedDocument) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UploadedDocument, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadedDocument, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
