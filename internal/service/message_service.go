package service

import (
	"context"

	"prados-legal-be/internal/constant"
	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/repository/specification"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/pkg/ai/pipeline"
	"prados-legal-be/pkg/apperror"

	"github.com/google/uuid"
)

// TurnRunner runs one conversational turn. Implemented by the pipeline
// orchestrator.
type TurnRunner interface {
	Run(ctx context.Context, in pipeline.TurnInput) (*pipeline.TurnResult, error)
}

type IMessageService interface {
	Create(ctx context.Context, req *dto.CreateMessageRequest) (*dto.MessageResponse, error)
	GetByConversation(ctx context.Context, conversationId uuid.UUID) ([]*dto.MessageResponse, error)
	// HandleChatFrame answers a message typed on the conversation websocket.
	HandleChatFrame(ctx context.Context, conversationId uuid.UUID, content string) error
}

type messageService struct {
	uowFactory unitofwork.RepositoryFactory
	runner     TurnRunner
}

func NewMessageService(uowFactory unitofwork.RepositoryFactory, runner TurnRunner) IMessageService {
	return &messageService{
		uowFactory: uowFactory,
		runner:     runner,
	}
}

// Create answers content within the conversation. Both the question and the
// answer are stored by the turn hooks; the stored answer is returned.
func (s *messageService) Create(ctx context.Context, req *dto.CreateMessageRequest) (*dto.MessageResponse, error) {
	res, err := s.runTurn(ctx, req.ConversationId, req.Content, constant.ChannelText)
	if err != nil {
		return nil, err
	}

	id, _ := uuid.Parse(res.AssistantMessageID)
	return &dto.MessageResponse{
		Id:             id,
		ConversationId: req.ConversationId,
		Role:           string(entity.MessageRoleAssistant),
		Content:        res.ResponseText,
		Timestamp:      res.RecordedAt,
	}, nil
}

func (s *messageService) HandleChatFrame(ctx context.Context, conversationId uuid.UUID, content string) error {
	_, err := s.runTurn(ctx, conversationId, content, constant.ChannelWs)
	return err
}

func (s *messageService) runTurn(ctx context.Context, conversationId uuid.UUID, content, channel string) (*pipeline.TurnResult, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conv == nil {
		return nil, apperror.NotFound("Conversación no encontrada")
	}

	return s.runner.Run(ctx, pipeline.TurnInput{
		ConversationID: conversationId.String(),
		Text:           content,
		TextOnly:       true,
		Channel:        channel,
	})
}

func (s *messageService) GetByConversation(ctx context.Context, conversationId uuid.UUID) ([]*dto.MessageResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.OrderBy{Field: "timestamp"},
		specification.Pagination{Limit: 1000},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.MessageResponse, 0, len(messages))
	for _, m := range messages {
		result = append(result, toMessageResponse(m))
	}
	return result, nil
}
