package service

import (
	"context"
	"testing"

	"prados-legal-be/pkg/events"
	pktNats "prados-legal-be/pkg/nats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

type fakeSubscriber struct {
	handlers map[string]pktNats.EventHandler
	durables []string
}

func (f *fakeSubscriber) Subscribe(_ context.Context, pattern, durable string, h pktNats.EventHandler) error {
	if f.handlers == nil {
		f.handlers = map[string]pktNats.EventHandler{}
	}
	f.handlers[pattern] = h
	f.durables = append(f.durables, durable)
	return nil
}

func TestCorpusSync_LocalEvents(t *testing.T) {
	inv := &countingInvalidator{}
	cs := NewCorpusSync(inv, nopLog())
	ctx := context.Background()

	require.NoError(t, cs.Publish(ctx, events.TurnCompleted("c", "text", "a", "b")))
	assert.Zero(t, inv.n)

	require.NoError(t, cs.Publish(ctx, events.DocumentIngested("d", []uint{1})))
	require.NoError(t, cs.Publish(ctx, events.KnowledgeReseeded("Condiciones", true)))
	assert.Equal(t, 2, inv.n)
}

func TestCorpusSync_Listen(t *testing.T) {
	inv := &countingInvalidator{}
	sub := &fakeSubscriber{}
	require.NoError(t, NewCorpusSync(inv, nopLog()).Listen(context.Background(), sub, "host1"))

	assert.ElementsMatch(t, []string{
		"corpus-sync-host1-document_ingested",
		"corpus-sync-host1-knowledge_reseeded",
	}, sub.durables)

	require.NoError(t, sub.handlers[events.TypeKnowledgeReseeded](context.Background(), events.KnowledgeReseeded("x", false)))
	assert.Equal(t, 1, inv.n)
}
