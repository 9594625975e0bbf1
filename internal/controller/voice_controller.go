package controller

import (
	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/service"
	"prados-legal-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

// IVoiceController serves the conversational endpoints. Their bodies are
// returned bare, as the web client reads them.
type IVoiceController interface {
	RegisterRoutes(r fiber.Router)
	TTS(ctx *fiber.Ctx) error
	VoiceChat(ctx *fiber.Ctx) error
	TextChat(ctx *fiber.Ctx) error
	Chat(ctx *fiber.Ctx) error
}

type voiceController struct {
	service service.IVoiceService
}

func NewVoiceController(service service.IVoiceService) IVoiceController {
	return &voiceController{service: service}
}

func (c *voiceController) RegisterRoutes(r fiber.Router) {
	r.Post("/tts", c.TTS)
	r.Post("/voice-chat", c.VoiceChat)
	r.Post("/text-chat", c.TextChat)
	r.Post("/chat", c.Chat)
}

func (c *voiceController) TTS(ctx *fiber.Ctx) error {
	var req dto.TTSRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.TTS(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

// VoiceChat expects a multipart form with "audio" and an optional
// "conversation_id".
func (c *voiceController) VoiceChat(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("audio")
	if err != nil {
		return apperror.Input("El archivo de audio es obligatorio")
	}
	audio, err := readFormFile(fh)
	if err != nil {
		return err
	}

	res, err := c.service.VoiceChat(ctx.UserContext(), audio, fh.Header.Get(fiber.HeaderContentType), ctx.FormValue("conversation_id"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *voiceController) TextChat(ctx *fiber.Ctx) error {
	var req dto.TextChatRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.TextChat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *voiceController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Chat(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
