package implementation

import (
	"context"
	"errors"

	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/mapper"
	"prados-legal-be/internal/model"
	"prados-legal-be/internal/repository/contract"
	"prados-legal-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UploadedDocumentRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.UploadedDocumentMapper
}

func NewUploadedDocumentRepository(db *gorm.DB) contract.UploadedDocumentRepository {
	return &UploadedDocumentRepositoryImpl{
		db:     db,
		mapper: mapper.NewUploadedDocumentMapper(),
	}
}

func (r *UploadedDocumentRepositoryImpl) Create(ctx context.Context, doc *entity.UploadedDocument) error {
	if doc.Id == uuid.Nil {
		doc.Id = uuid.New()
	}
	m := r.mapper.ToModel(doc)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*doc = *r.mapper.ToEntity(m)
	return nil
}

func (r *UploadedDocumentRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.UploadedDocument, error) {
	var m model.UploadedDocument
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *UploadedDocumentRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UploadedDocument, error) {
	var models []*model.UploadedDocument
	query := applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *UploadedDocumentRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := applySpecifications(r.db.WithContext(ctx).Model(&model.UploadedDocument{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
