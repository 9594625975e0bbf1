package nats

import (
	"encoding/json"
	"testing"
	"time"

	"prados-legal-be/pkg/events"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	assert.Equal(t, "events.turn.completed", Subject(events.TypeTurnCompleted))
}

func TestDecode_Envelope(t *testing.T) {
	ev := events.TurnCompleted("c1", "text", "hola", "buenas")
	raw, err := json.Marshal(envelope{Type: ev.EventType(), Data: ev.Payload(), OccurredAt: ev.Timestamp()})
	require.NoError(t, err)

	got, err := Decode("events.turn.completed", raw)
	require.NoError(t, err)
	assert.Equal(t, events.TypeTurnCompleted, got.EventType())
	assert.Equal(t, "c1", got.Payload()["conversation_id"])
	assert.True(t, got.Timestamp().Equal(ev.Timestamp()))
}

func TestDecode_FallsBackToSubject(t *testing.T) {
	got, err := Decode("events.knowledge.reseeded", []byte(`{"data":{"wrote":true}}`))
	require.NoError(t, err)
	assert.Equal(t, events.TypeKnowledgeReseeded, got.EventType())
	assert.Equal(t, true, got.Payload()["wrote"])
	assert.WithinDuration(t, time.Now(), got.Timestamp(), time.Minute)
}

func TestDecode_Invalid(t *testing.T) {
	_, err := Decode("events.x", []byte("not json"))
	assert.Error(t, err)
}

func TestConsumerConfig_ExpiresWhenInactive(t *testing.T) {
	cfg := consumerConfig(Subject(events.TypeKnowledgeReseeded), "corpus-sync-host-a-knowledge_reseeded")

	assert.Equal(t, "corpus-sync-host-a-knowledge_reseeded", cfg.Durable)
	assert.Equal(t, "events.knowledge.reseeded", cfg.FilterSubject)
	assert.Equal(t, time.Hour, cfg.InactiveThreshold)
	assert.Equal(t, jetstream.AckExplicitPolicy, cfg.AckPolicy)
}
