package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"prados-legal-be/pkg/apperror"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 16 * 1024
	turnTimeout    = 2 * time.Minute
)

// Client is one websocket connection watching a conversation.
type Client struct {
	Hub            *Hub
	Conn           *websocket.Conn
	ConversationID uuid.UUID

	// Buffered channel of outbound frames.
	Send chan []byte

	// turn holds a token while a chat turn runs; one turn per connection.
	turn   chan struct{}
	ctx    context.Context
	cancel context.CancelFunc
}

func newClient(hub *Hub, conn *websocket.Conn, conversationID uuid.UUID, buffer int) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		Hub:            hub,
		Conn:           conn,
		ConversationID: conversationID,
		Send:           make(chan []byte, buffer),
		turn:           make(chan struct{}, 1),
		ctx:            ctx,
		cancel:         cancel,
	}
}

type inboundFrame struct {
	Content string `json:"content"`
}

// readPump turns incoming frames into chat turns. Turns run outside the read
// loop so pings keep the read deadline fresh while a reply is produced.
func (c *Client) readPump() {
	defer func() {
		c.cancel()
		c.Hub.drop(c)
		c.Conn.Close()
	}()
	c.Conn.SetReadLimit(maxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(pongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Warn(logModule, "Unexpected websocket close", map[string]interface{}{
					"conversation_id": c.ConversationID,
					"error":           err.Error(),
				})
			}
			return
		}
		c.Conn.SetReadDeadline(time.Now().Add(pongWait))
		c.handle(raw)
	}
}

func (c *Client) handle(raw []byte) {
	var frame inboundFrame
	if err := json.Unmarshal(raw, &frame); err != nil || strings.TrimSpace(frame.Content) == "" {
		c.sendError(apperror.Input("El mensaje debe ser JSON con un campo content no vacío"))
		return
	}
	if c.Hub.inbound == nil {
		c.sendError(apperror.Unavailable("El chat"))
		return
	}

	select {
	case c.turn <- struct{}{}:
	default:
		c.sendError(apperror.SessionBusy())
		return
	}

	go func() {
		defer func() { <-c.turn }()
		ctx, cancel := context.WithTimeout(c.ctx, turnTimeout)
		defer cancel()
		if err := c.Hub.inbound(ctx, c.ConversationID, frame.Content); err != nil {
			c.sendError(err)
		}
	}()
}

func (c *Client) sendError(err error) {
	data, _ := json.Marshal(Envelope{
		Type: "error",
		Data: map[string]interface{}{
			"status_code": apperror.StatusCode(err),
			"detail":      apperror.PublicMessage(err),
		},
	})
	c.Hub.sendTo(c, data)
}

// writePump pumps frames from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			// One JSON frame per websocket message.
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
