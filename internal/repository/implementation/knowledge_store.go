package implementation

import (
	"context"
	"strings"

	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/repository/specification"
	"prados-legal-be/pkg/rag/store"

	"gorm.io/gorm"
)

// KnowledgeStore exposes the knowledge_documents table as the retrieval
// corpus.
type KnowledgeStore struct {
	db *gorm.DB
}

var _ store.Store = (*KnowledgeStore)(nil)

func NewKnowledgeStore(db *gorm.DB) *KnowledgeStore {
	return &KnowledgeStore{db: db}
}

func (s *KnowledgeStore) repo(db *gorm.DB) *KnowledgeDocumentRepositoryImpl {
	return NewKnowledgeDocumentRepository(db).(*KnowledgeDocumentRepositoryImpl)
}

func (s *KnowledgeStore) Insert(ctx context.Context, title, body string, metadata map[string]interface{}) (uint, error) {
	doc := &entity.KnowledgeDocument{Title: title, Body: body, Metadata: metadata}
	if err := s.repo(s.db).Create(ctx, doc); err != nil {
		return 0, store.StorageError("insert", err)
	}
	return doc.Id, nil
}

func (s *KnowledgeStore) All(ctx context.Context) ([]store.Document, error) {
	docs, err := s.repo(s.db).FindAll(ctx, specification.OrderBy{Field: "id"})
	if err != nil {
		return nil, store.StorageError("all", err)
	}
	out := make([]store.Document, len(docs))
	for i, d := range docs {
		out[i] = toStoreDocument(d)
	}
	return out, nil
}

func (s *KnowledgeStore) Count(ctx context.Context) (int64, error) {
	n, err := s.repo(s.db).Count(ctx)
	if err != nil {
		return 0, store.StorageError("count", err)
	}
	return n, nil
}

func (s *KnowledgeStore) Clear(ctx context.Context) error {
	if err := s.repo(s.db).DeleteAll(ctx); err != nil {
		return store.StorageError("clear", err)
	}
	return nil
}

func (s *KnowledgeStore) Reseed(ctx context.Context, title, body, marker string) (bool, error) {
	wrote := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo(tx)
		existing, err := repo.FindOne(ctx, specification.ByTitle{Title: title}, specification.OrderBy{Field: "id"})
		if err != nil {
			return err
		}
		if existing == nil {
			wrote = true
			return repo.Create(ctx, &entity.KnowledgeDocument{
				Title:    title,
				Body:     body,
				Metadata: map[string]interface{}{"source": entity.KnowledgeSourceReseed},
			})
		}
		if strings.Contains(existing.Body, marker) {
			return nil
		}
		wrote = true
		return repo.UpdateBody(ctx, existing.Id, body)
	})
	if err != nil {
		return false, store.StorageError("reseed", err)
	}
	return wrote, nil
}

func (s *KnowledgeStore) DeleteByTitle(ctx context.Context, title string) (int64, error) {
	n, err := s.repo(s.db).Delete(ctx, specification.ByTitle{Title: title})
	if err != nil {
		return 0, store.StorageError("delete", err)
	}
	return n, nil
}

func toStoreDocument(d *entity.KnowledgeDocument) store.Document {
	return store.Document{
		ID:        d.Id,
		Title:     d.Title,
		Body:      d.Body,
		Metadata:  d.Metadata,
		CreatedAt: d.CreatedAt,
	}
}
