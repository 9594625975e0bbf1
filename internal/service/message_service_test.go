package service

import (
	"context"
	"sync"
	"testing"

	"prados-legal-be/internal/constant"
	"prados-legal-be/internal/dto"
	"prados-legal-be/pkg/ai/pipeline"
	"prados-legal-be/pkg/apperror"
	"prados-legal-be/pkg/events"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDelivery struct {
	mu     sync.Mutex
	frames []string
}

func (d *recordingDelivery) Send(_ uuid.UUID, frameType string, data interface{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	msg := data.(*dto.MessageResponse)
	d.frames = append(d.frames, frameType+":"+msg.Role)
}

func TestMessageService_CreateStoresTurn(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	delivery := &recordingDelivery{}
	pub := &recordingPublisher{}
	recorder := NewTurnRecorder(factory, delivery, pub, nopLog())
	runner := &fakeRunner{reply: "El proyecto cuenta con posesión legítima.", hooks: []pipeline.TurnHook{recorder.Hook()}}

	conv, err := NewConversationService(factory).Create(ctx, &dto.CreateConversationRequest{UserId: "u1", UserName: "Ana"})
	require.NoError(t, err)

	svc := NewMessageService(factory, runner)
	reply, err := svc.Create(ctx, &dto.CreateMessageRequest{ConversationId: conv.Id, Content: "¿Tiene títulos?"})
	require.NoError(t, err)
	assert.Equal(t, "assistant", reply.Role)
	assert.Equal(t, runner.reply, reply.Content)
	assert.NotEqual(t, uuid.Nil, reply.Id)

	call := runner.lastCall()
	assert.True(t, call.TextOnly)
	assert.Equal(t, constant.ChannelText, call.Channel)

	history, err := svc.GetByConversation(ctx, conv.Id)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "¿Tiene títulos?", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)

	stored, err := NewConversationService(factory).GetById(ctx, conv.Id)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.MessageCount)

	assert.Equal(t, []string{"message:user", "message:assistant"}, delivery.frames)
	assert.Equal(t, []string{events.TypeTurnCompleted}, pub.types())
}

func TestMessageService_UnknownConversation(t *testing.T) {
	runner := &fakeRunner{reply: "x"}
	svc := NewMessageService(newTestFactory(t), runner)

	_, err := svc.Create(context.Background(), &dto.CreateMessageRequest{ConversationId: uuid.New(), Content: "hola"})
	assert.Equal(t, apperror.KindNotFound, kindOf(err))
	assert.Empty(t, runner.calls)
}

func TestMessageService_HandleChatFrame(t *testing.T) {
	ctx := context.Background()
	factory := newTestFactory(t)
	runner := &fakeRunner{reply: "Respuesta."}

	conv, err := NewConversationService(factory).Create(ctx, &dto.CreateConversationRequest{UserId: "u1", UserName: "Ana"})
	require.NoError(t, err)

	require.NoError(t, NewMessageService(factory, runner).HandleChatFrame(ctx, conv.Id, "hola"))
	assert.Equal(t, constant.ChannelWs, runner.lastCall().Channel)
}

func TestTurnRecorder_SkipsUnknownConversation(t *testing.T) {
	ctx := context.Background()
	pub := &recordingPublisher{}
	recorder := NewTurnRecorder(newTestFactory(t), nil, pub, nopLog())

	for _, id := range []string{"no-es-uuid", uuid.NewString()} {
		res := &pipeline.TurnResult{ConversationID: id, UserText: "a", ResponseText: "b"}
		require.NoError(t, recorder.Record(ctx, pipeline.TurnInput{}, res))
		assert.Empty(t, res.AssistantMessageID)
	}
	assert.Len(t, pub.types(), 2)
}
