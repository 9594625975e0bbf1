package service

import (
	"context"
	"encoding/json"
	"fmt"

	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/entity"
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/repository/specification"
	"prados-legal-be/internal/repository/unitofwork"
	"prados-legal-be/pkg/events"
	"prados-legal-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
)

const (
	ingestChunkSize    = 1500
	ingestChunkOverlap = 200
)

// IConsumerService turns uploaded documents into knowledge documents.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	events     events.Publisher
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	eventPublisher events.Publisher,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		events:     eventPublisher,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IngestUploadMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("CONSUMER", "Failed to unmarshal message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // redelivery cannot fix a malformed payload
		return
	}

	ids, err := cs.ingest(ctx, payload)
	if err != nil {
		cs.logger.Error("CONSUMER", "Ingestion failed", map[string]interface{}{
			"document_id": payload.DocumentId,
			"error":       err.Error(),
		})
		msg.Nack()
		return
	}
	msg.Ack()

	if len(ids) == 0 {
		return
	}
	if err := cs.events.Publish(ctx, events.DocumentIngested(payload.DocumentId.String(), ids)); err != nil {
		cs.logger.Warn("CONSUMER", "Failed to publish ingestion event", map[string]interface{}{"error": err.Error()})
	}
}

// ingest splits the uploaded content into chunks and stores each one as a
// knowledge document. A missing or empty upload is not an error.
func (cs *consumerService) ingest(ctx context.Context, payload dto.IngestUploadMessage) ([]uint, error) {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	doc, err := uow.UploadedDocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		return nil, err
	}
	if doc == nil {
		cs.logger.Warn("CONSUMER", "Uploaded document not found", map[string]interface{}{"document_id": payload.DocumentId})
		return nil, nil
	}

	chunks := utils.SplitText(doc.Content, ingestChunkSize, ingestChunkOverlap)
	if len(chunks) == 0 {
		cs.logger.Info("CONSUMER", "Uploaded document has no text to ingest", map[string]interface{}{"document_id": doc.Id})
		return nil, nil
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	ids := make([]uint, 0, len(chunks))
	for i, chunk := range chunks {
		kd := &entity.KnowledgeDocument{
			Title: chunkTitle(doc.Filename, i, len(chunks)),
			Body:  chunk,
			Metadata: map[string]interface{}{
				"source":               entity.KnowledgeSourceUpload,
				"uploaded_document_id": doc.Id.String(),
				"user_id":              doc.UserId,
				"filename":             doc.Filename,
				"chunk_index":          i,
			},
		}
		if err := uow.KnowledgeDocumentRepository().Create(ctx, kd); err != nil {
			return nil, err
		}
		ids = append(ids, kd.Id)
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	cs.logger.Info("CONSUMER", "Upload ingested", map[string]interface{}{
		"document_id": doc.Id,
		"chunks":      len(ids),
	})
	return ids, nil
}

func chunkTitle(filename string, i, total int) string {
	if total == 1 {
		return filename
	}
	return fmt.Sprintf("%s (parte %d de %d)", filename, i+1, total)
}
