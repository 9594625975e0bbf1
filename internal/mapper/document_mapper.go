package mapper

import (
	"encoding/json"

	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/model"

	"gorm.io/datatypes"
)

type KnowledgeDocumentMapper struct{}

func NewKnowledgeDocumentMapper() *KnowledgeDocumentMapper {
	return &KnowledgeDocumentMapper{}
}

func (m *KnowledgeDocumentMapper) ToEntity(d *model.KnowledgeDocument) *entity.KnowledgeDocument {
	if d == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(d.Metadata) > 0 {
		// Unreadable metadata degrades to none; the body is what matters.
		_ = json.Unmarshal(d.Metadata, &meta)
	}
	return &entity.KnowledgeDocument{
		Id:        d.Id,
		Title:     d.Title,
		Body:      d.Body,
		Metadata:  meta,
		CreatedAt: d.CreatedAt,
	}
}

func (m *KnowledgeDocumentMapper) ToModel(d *entity.KnowledgeDocument) (*model.KnowledgeDocument, error) {
	if d == nil {
		return nil, nil
	}
	out := &model.KnowledgeDocument{
		Id:        d.Id,
		Title:     d.Title,
		Body:      d.Body,
		CreatedAt: d.CreatedAt,
	}
	if d.Metadata != nil {
		raw, err := json.Marshal(d.Metadata)
		if err != nil {
			return nil, err
		}
		out.Metadata = datatypes.JSON(raw)
	}
	return out, nil
}

func (m *KnowledgeDocumentMapper) ToEntities(docs []*model.KnowledgeDocument) []*entity.KnowledgeDocument {
	entities := make([]*entity.KnowledgeDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

type UploadedDocumentMapper struct{}

func NewUploadedDocumentMapper() *UploadedDocumentMapper {
	return &UploadedDocumentMapper{}
}

func (m *UploadedDocumentMapper) ToEntity(d *model.UploadedDocument) *entity.UploadedDocument {
	if d == nil {
		return nil
	}
	return &entity.UploadedDocument{
		Id:          d.Id,
		UserId:      d.UserId,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		Content:     d.Content,
		UploadedAt:  d.UploadedAt,
	}
}

func (m *UploadedDocumentMapper) ToModel(d *entity.UploadedDocument) *model.UploadedDocument {
	if d == nil {
		return nil
	}
	return &model.UploadedDocument{
		Id:          d.Id,
		UserId:      d.UserId,
		Filename:    d.Filename,
		ContentType: d.ContentType,
		Size:        d.Size,
		Content:     d.Content,
		UploadedAt:  d.UploadedAt,
	}
}

func (m *UploadedDocumentMapper) ToEntities(docs []*model.UploadedDocument) []*entity.UploadedDocument {
	entities := make([]*entity.UploadedDocument, len(docs))
	for i, d := range docs {
		entities[i] = m.ToEntity(d)
	}
	return entities
}
