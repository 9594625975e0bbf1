package unitofwork

import (
	"context"

	"prados-legal-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	ConversationRepository() contract.ConversationRepository
	MessageRepository() contract.MessageRepository
	KnowledgeDocumentRepository() contract.KnowledgeDocumentRepository
	UploadedDocumentRepository() contract.UploadedDocumentRepository
}
