package handler

import (
	"prados-legal-be/internal/pkg/logger"
	"prados-legal-be/internal/service"
	internalWS "prados-legal-be/internal/websocket"
	"prados-legal-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ChatHandler upgrades chat connections for a stored conversation. Messages
// typed by a client run as turns; both stored messages are broadcast to every
// client of the conversation.
type ChatHandler struct {
	conversations service.IConversationService
	messages      service.IMessageService
	hub           *internalWS.Hub
	logger        logger.ILogger
}

func NewChatHandler(conversations service.IConversationService, messages service.IMessageService, hub *internalWS.Hub, log logger.ILogger) *ChatHandler {
	hub.OnMessage(messages.HandleChatFrame)
	return &ChatHandler{
		conversations: conversations,
		messages:      messages,
		hub:           hub,
		logger:        log,
	}
}

func (h *ChatHandler) ServeWs(c *fiber.Ctx) error {
	conversationID, err := uuid.Parse(c.Params("conversationId"))
	if err != nil {
		return apperror.Input("Identificador inválido: conversationId")
	}
	if _, err := h.conversations.GetById(c.UserContext(), conversationID); err != nil {
		return err
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return websocket.New(func(conn *websocket.Conn) {
		h.logger.Info("ChatHandler", "Starting WebSocket session", map[string]interface{}{"conversation_id": conversationID})
		internalWS.ServeWs(h.hub, conn, conversationID)
		h.logger.Info("ChatHandler", "WebSocket session ended", map[string]interface{}{"conversation_id": conversationID})
	})(c)
}

func (h *ChatHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/chat/:conversationId", h.ServeWs)
}
