package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs attaches a connection to the conversation room and blocks until it
// closes.
func ServeWs(hub *Hub, c *websocket.Conn, conversationID uuid.UUID) {
	client := newClient(hub, c, conversationID, 256)
	select {
	case hub.register <- client:
	case <-hub.done:
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
