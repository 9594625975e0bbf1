package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"prados-legal-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel = "prados_chat_events"
	logModule      = "Hub"
)

// InboundHandler processes a chat message typed by a client of a conversation.
// Replies are delivered through the hub, not returned.
type InboundHandler func(ctx context.Context, conversationID uuid.UUID, content string) error

// Envelope is the frame sent to chat clients.
type Envelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

type clusterMessage struct {
	Origin         string          `json:"origin"`
	ConversationID string          `json:"conversation_id"`
	Message        json.RawMessage `json:"message"`
}

// Hub fans chat frames out to every client watching a conversation. With
// Redis configured, frames are relayed to the other instances as well.
type Hub struct {
	rooms map[uuid.UUID][]*Client

	register   chan *Client
	unregister chan *Client

	mu sync.RWMutex

	rdb      *redis.Client
	origin   string
	inbound  InboundHandler
	logger   logger.ILogger
	stopOnce sync.Once
	done     chan struct{}
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		rooms:      make(map[uuid.UUID][]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client, 64),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
		done:       make(chan struct{}),
	}
}

// OnMessage sets the handler for messages typed by clients.
func (h *Hub) OnMessage(fn InboundHandler) {
	h.inbound = fn
}

func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.rooms[client.ConversationID] = append(h.rooms[client.ConversationID], client)
			h.mu.Unlock()
			h.logger.Info(logModule, "Client registered", map[string]interface{}{"conversation_id": client.ConversationID})

		case client := <-h.unregister:
			h.remove(client)
		}
	}
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.rooms[client.ConversationID]
	if !ok {
		return
	}
	for i, c := range clients {
		if c == client {
			h.rooms[client.ConversationID] = append(clients[:i], clients[i+1:]...)
			close(client.Send)
			break
		}
	}
	if len(h.rooms[client.ConversationID]) == 0 {
		delete(h.rooms, client.ConversationID)
		h.logger.Info(logModule, "Conversation room closed", map[string]interface{}{"conversation_id": client.ConversationID})
	}
}

func (h *Hub) closeAll() {
	h.stopOnce.Do(func() {
		close(h.done)
		h.mu.Lock()
		defer h.mu.Unlock()
		for id, clients := range h.rooms {
			for _, c := range clients {
				close(c.Send)
			}
			delete(h.rooms, id)
		}
	})
}

// Send delivers a frame to the local clients of conversationID and relays it
// to the other instances.
func (h *Hub) Send(conversationID uuid.UUID, frameType string, data interface{}) {
	payload, err := json.Marshal(Envelope{Type: frameType, Data: data})
	if err != nil {
		h.logger.Error(logModule, "Failed to encode frame", map[string]interface{}{"type": frameType, "error": err.Error()})
		return
	}

	h.deliverLocal(conversationID, payload)

	if h.rdb != nil {
		msg, _ := json.Marshal(clusterMessage{
			Origin:         h.origin,
			ConversationID: conversationID.String(),
			Message:        payload,
		})
		if err := h.rdb.Publish(context.Background(), clusterChannel, msg).Err(); err != nil {
			h.logger.Warn(logModule, "Redis relay failed", map[string]interface{}{"error": err.Error()})
		}
	}
}

func (h *Hub) deliverLocal(conversationID uuid.UUID, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, client := range h.rooms[conversationID] {
		select {
		case client.Send <- payload:
		default:
			h.logger.Warn(logModule, "Client send buffer full, dropping client", map[string]interface{}{"conversation_id": conversationID})
			h.drop(client)
		}
	}
}

// sendTo delivers payload to a single client if it is still registered.
func (h *Hub) sendTo(client *Client, payload []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.rooms[client.ConversationID] {
		if c == client {
			select {
			case client.Send <- payload:
			default:
			}
			return
		}
	}
}

// drop schedules an unregister without blocking the caller.
func (h *Hub) drop(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	default:
		go func() {
			select {
			case h.unregister <- client:
			case <-h.done:
			}
		}()
	}
}

// ClientCount reports local clients watching conversationID.
func (h *Hub) ClientCount(conversationID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[conversationID])
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		var cm clusterMessage
		if err := json.Unmarshal([]byte(msg.Payload), &cm); err != nil {
			h.logger.Warn(logModule, "Redis message parse error", map[string]interface{}{"error": err.Error()})
			continue
		}
		if cm.Origin == h.origin {
			continue
		}
		convID, err := uuid.Parse(cm.ConversationID)
		if err != nil {
			continue
		}
		h.deliverLocal(convID, cm.Message)
	}
}
