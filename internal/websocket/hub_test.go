package websocket

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"prados-legal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) (*Hub, context.CancelFunc) {
	t.Helper()
	hub := NewHub(nil, logger.NewNopLogger())
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)
	return hub, cancel
}

func join(t *testing.T, hub *Hub, conv uuid.UUID, buf int) *Client {
	t.Helper()
	c := newClient(hub, nil, conv, buf)
	t.Cleanup(c.cancel)
	hub.register <- c
	return c
}

func TestHub_SendReachesOnlyTheRoom(t *testing.T) {
	hub, _ := startHub(t)
	convA, convB := uuid.New(), uuid.New()

	a1 := join(t, hub, convA, 4)
	a2 := join(t, hub, convA, 4)
	b := join(t, hub, convB, 4)
	require.Eventually(t, func() bool { return hub.ClientCount(convA) == 2 }, time.Second, 5*time.Millisecond)

	hub.Send(convA, "message", map[string]string{"content": "hola"})

	for _, c := range []*Client{a1, a2} {
		select {
		case raw := <-c.Send:
			var env Envelope
			require.NoError(t, json.Unmarshal(raw, &env))
			assert.Equal(t, "message", env.Type)
		case <-time.After(time.Second):
			t.Fatal("frame not delivered")
		}
	}
	assert.Empty(t, b.Send)
}

func TestHub_FullBufferDropsClient(t *testing.T) {
	hub, _ := startHub(t)
	conv := uuid.New()
	slow := join(t, hub, conv, 1)
	require.Eventually(t, func() bool { return hub.ClientCount(conv) == 1 }, time.Second, 5*time.Millisecond)

	hub.Send(conv, "message", "uno")
	hub.Send(conv, "message", "dos")

	require.Eventually(t, func() bool { return hub.ClientCount(conv) == 0 }, time.Second, 5*time.Millisecond)
	<-slow.Send
	_, open := <-slow.Send
	assert.False(t, open)
}

func TestHub_SendToIgnoresUnregistered(t *testing.T) {
	hub, _ := startHub(t)
	stray := &Client{Hub: hub, ConversationID: uuid.New(), Send: make(chan []byte, 1)}

	hub.sendTo(stray, []byte("x"))
	assert.Empty(t, stray.Send)
}

func TestHub_StopClosesClients(t *testing.T) {
	hub, cancel := startHub(t)
	conv := uuid.New()
	c := join(t, hub, conv, 1)
	require.Eventually(t, func() bool { return hub.ClientCount(conv) == 1 }, time.Second, 5*time.Millisecond)

	cancel()

	select {
	case _, open := <-c.Send:
		assert.False(t, open)
	case <-time.After(time.Second):
		t.Fatal("client channel not closed")
	}
}

func TestClient_TurnRunsOutsideReadLoop(t *testing.T) {
	hub, _ := startHub(t)
	started := make(chan string, 2)
	release := make(chan struct{})
	hub.OnMessage(func(ctx context.Context, _ uuid.UUID, content string) error {
		started <- content
		<-release
		return nil
	})
	conv := uuid.New()
	c := join(t, hub, conv, 4)
	require.Eventually(t, func() bool { return hub.ClientCount(conv) == 1 }, time.Second, 5*time.Millisecond)

	returned := make(chan struct{})
	go func() {
		c.handle([]byte(`{"content":"hola"}`))
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("handle blocked until the turn finished")
	}
	select {
	case content := <-started:
		assert.Equal(t, "hola", content)
	case <-time.After(time.Second):
		t.Fatal("turn not started")
	}

	// A second frame while the turn runs is rejected, not queued.
	c.handle([]byte(`{"content":"otra"}`))
	select {
	case raw := <-c.Send:
		var env Envelope
		require.NoError(t, json.Unmarshal(raw, &env))
		assert.Equal(t, "error", env.Type)
		data, ok := env.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, float64(429), data["status_code"])
	case <-time.After(time.Second):
		t.Fatal("busy frame not delivered")
	}

	close(release)
	require.Eventually(t, func() bool { return len(c.turn) == 0 }, time.Second, 5*time.Millisecond)
	assert.Len(t, started, 0)
}
