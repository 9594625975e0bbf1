package service

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/repository/specification"
	"prados-legal-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkTitle(t *testing.T) {
	assert.Equal(t, "a.txt", chunkTitle("a.txt", 0, 1))
	assert.Equal(t, "a.txt (parte 2 de 3)", chunkTitle("a.txt", 1, 3))
}

func TestConsumerService_IngestsUpload(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := newTestFactory(t)
	pubsub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubsub.Close()

	pub := &recordingPublisher{}
	consumer := NewConsumerService(pubsub, "ingest", factory, pub, nopLog())
	require.NoError(t, consumer.Consume(ctx))

	docs := NewDocumentService(factory, NewPublisherService("ingest", pubsub), events.Nop, 0, nopLog())
	body := strings.Repeat("Cláusula de posesión legítima. ", 100)
	up, err := docs.Upload(ctx, &dto.UploadDocumentRequest{UserId: "u1", Filename: "clausulas.txt", Data: []byte(body)})
	require.NoError(t, err)

	uow := factory.NewUnitOfWork(ctx)
	require.Eventually(t, func() bool {
		n, err := uow.KnowledgeDocumentRepository().Count(ctx)
		return err == nil && n > 1
	}, 2*time.Second, 10*time.Millisecond)

	kds, err := uow.KnowledgeDocumentRepository().FindAll(ctx, specification.OrderBy{Field: "id"})
	require.NoError(t, err)
	assert.Equal(t, "clausulas.txt (parte 1 de 3)", kds[0].Title)
	assert.Equal(t, "upload", kds[0].Metadata["source"])
	assert.Equal(t, up.DocumentId.String(), kds[0].Metadata["uploaded_document_id"])

	require.Eventually(t, func() bool {
		return len(pub.types()) == 1
	}, time.Second, 10*time.Millisecond)
	assert.Equal(t, events.TypeDocumentIngested, pub.types()[0])
}

func TestConsumerService_MalformedPayloadIsAcked(t *testing.T) {
	cs := NewConsumerService(nil, "ingest", newTestFactory(t), events.Nop, nopLog()).(*consumerService)

	msg := message.NewMessage(watermill.NewUUID(), []byte("{no json"))
	cs.processMessage(context.Background(), msg)

	select {
	case <-msg.Acked():
	default:
		t.Fatal("malformed message not acked")
	}
}

func TestConsumerService_MissingUploadIsAcked(t *testing.T) {
	cs := NewConsumerService(nil, "ingest", newTestFactory(t), events.Nop, nopLog()).(*consumerService)

	payload, _ := json.Marshal(dto.IngestUploadMessage{})
	msg := message.NewMessage(watermill.NewUUID(), payload)
	cs.processMessage(context.Background(), msg)

	select {
	case <-msg.Acked():
	default:
		t.Fatal("message for missing upload not acked")
	}
}
