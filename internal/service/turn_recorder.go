package service

import (
	"context"
	"time"

	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/repository/specification"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/pkg/ai/pipeline"
	"prados-legal-be/pkg/events"

	"github.com/google/uuid"
)

// TurnDelivery pushes stored messages to live chat clients. The websocket
// hub implements it.
type TurnDelivery interface {
	Send(conversationID uuid.UUID, frameType string, data interface{})
}

type nopDelivery struct{}

func (nopDelivery) Send(uuid.UUID, string, interface{}) {}

// TurnRecorder persists completed turns of known conversations and announces
// them. Turns for ids that are not stored conversations are only announced.
type TurnRecorder struct {
	uowFactory unitofwork.RepositoryFactory
	delivery   TurnDelivery
	events     events.Publisher
	logger     logger.ILogger
	now        func() time.Time
}

func NewTurnRecorder(uowFactory unitofwork.RepositoryFactory, delivery TurnDelivery, eventPublisher events.Publisher, log logger.ILogger) *TurnRecorder {
	if delivery == nil {
		delivery = nopDelivery{}
	}
	if eventPublisher == nil {
		eventPublisher = events.Nop
	}
	return &TurnRecorder{
		uowFactory: uowFactory,
		delivery:   delivery,
		events:     eventPublisher,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Hook adapts the recorder to the orchestrator.
func (r *TurnRecorder) Hook() pipeline.TurnHook {
	return r.Record
}

func (r *TurnRecorder) Record(ctx context.Context, in pipeline.TurnInput, res *pipeline.TurnResult) error {
	if err := r.persist(ctx, res); err != nil {
		return err
	}

	if err := r.events.Publish(ctx, events.TurnCompleted(res.ConversationID, in.Channel, res.UserText, res.ResponseText)); err != nil {
		r.logger.Warn("TURN", "Failed to publish turn event", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func (r *TurnRecorder) persist(ctx context.Context, res *pipeline.TurnResult) error {
	convID, err := uuid.Parse(res.ConversationID)
	if err != nil {
		return nil
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	conv, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: convID})
	if err != nil {
		return err
	}
	if conv == nil {
		r.logger.Debug("TURN", "Turn for unknown conversation not stored", map[string]interface{}{"conversation_id": convID})
		return nil
	}

	at := r.now()
	userMsg := &entity.Message{ConversationId: convID, Role: entity.MessageRoleUser, Content: res.UserText, Timestamp: at}
	// The reply sorts after the question.
	assistantMsg := &entity.Message{ConversationId: convID, Role: entity.MessageRoleAssistant, Content: res.ResponseText, Timestamp: at.Add(time.Millisecond)}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().Create(ctx, userMsg); err != nil {
		return err
	}
	if err := uow.MessageRepository().Create(ctx, assistantMsg); err != nil {
		return err
	}
	if err := uow.ConversationRepository().IncrementMessageCount(ctx, convID, 2, assistantMsg.Timestamp); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	res.UserMessageID = userMsg.Id.String()
	res.AssistantMessageID = assistantMsg.Id.String()
	res.RecordedAt = assistantMsg.Timestamp

	r.delivery.Send(convID, "message", toMessageResponse(userMsg))
	r.delivery.Send(convID, "message", toMessageResponse(assistantMsg))
	return nil
}

func toMessageResponse(m *entity.Message) *dto.MessageResponse {
	return &dto.MessageResponse{
		Id:             m.Id,
		ConversationId: m.ConversationId,
		Role:           string(m.Role),
		Content:        m.Content,
		Timestamp:      m.Timestamp,
	}
}
