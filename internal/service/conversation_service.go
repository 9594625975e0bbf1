package service

import (
	"context"
	"fmt"
	"strings"

	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/repository/specification"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/pdf"

	"github.com/google/uuid"
)

type IConversationService interface {
	Create(ctx context.Context, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error)
	GetByUser(ctx context.Context, userId string) ([]*dto.ConversationResponse, error)
	GetById(ctx context.Context, id uuid.UUID) (*dto.ConversationResponse, error)
	Export(ctx context.Context, id uuid.UUID) (*dto.ConversationExport, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory) IConversationService {
	return &conversationService{
		uowFactory: uowFactory,
	}
}

func (s *conversationService) Create(ctx context.Context, req *dto.CreateConversationRequest) (*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv := &entity.Conversation{
		UserId:   req.UserId,
		UserName: req.UserName,
		Title:    strings.TrimSpace(req.Title),
	}
	if err := uow.ConversationRepository().Create(ctx, conv); err != nil {
		return nil, err
	}
	return toConversationResponse(conv), nil
}

func (s *conversationService) GetByUser(ctx context.Context, userId string) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	convs, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "updated_at", Desc: true},
		specification.Pagination{Limit: 100},
	)
	if err != nil {
		return nil, err
	}
	return toConversationResponses(convs), nil
}

func (s *conversationService) GetById(ctx context.Context, id uuid.UUID) (*dto.ConversationResponse, error) {
	conv, err := s.find(ctx, s.uowFactory.NewUnitOfWork(ctx), id)
	if err != nil {
		return nil, err
	}
	return toConversationResponse(conv), nil
}

// Export renders the conversation and its messages, oldest first, as PDF.
func (s *conversationService) Export(ctx context.Context, id uuid.UUID) (*dto.ConversationExport, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conv, err := s.find(ctx, uow, id)
	if err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: id},
		specification.OrderBy{Field: "timestamp"},
		specification.Pagination{Limit: 1000},
	)
	if err != nil {
		return nil, err
	}

	lines := make([]pdf.Line, 0, len(messages))
	for _, m := range messages {
		lines = append(lines, pdf.Line{Role: string(m.Role), Content: m.Content, Timestamp: m.Timestamp})
	}

	content, err := pdf.RenderConversation(conv.Title, lines)
	if err != nil {
		return nil, err
	}
	return &dto.ConversationExport{
		Filename: fmt.Sprintf("conversacion_%s.pdf", id),
		Content:  content,
	}, nil
}

func (s *conversationService) find(ctx context.Context, uow unitofwork.UnitOfWork, id uuid.UUID) (*entity.Conversation, error) {
	conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperror.NotFound("Conversación no encontrada")
	}
	return conv, nil
}

func toConversationResponse(c *entity.Conversation) *dto.ConversationResponse {
	return &dto.ConversationResponse{
		Id:           c.Id,
		UserId:       c.UserId,
		UserName:     c.UserName,
		Title:        c.Title,
		MessageCount: c.MessageCount,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func toConversationResponses(convs []*entity.Conversation) []*dto.ConversationResponse {
	result := make([]*dto.ConversationResponse, 0, len(convs))
	for _, c := range convs {
		result = append(result, toConversationResponse(c))
	}
	return result
}
