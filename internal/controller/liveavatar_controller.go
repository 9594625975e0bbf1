package controller

import (
	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ILiveAvatarController interface {
	RegisterRoutes(r fiber.Router)
	Config(ctx *fiber.Ctx) error
	CreateSession(ctx *fiber.Ctx) error
	Speak(ctx *fiber.Ctx) error
	SpeakText(ctx *fiber.Ctx) error
	Interrupt(ctx *fiber.Ctx) error
	CloseSession(ctx *fiber.Ctx) error
}

type liveAvatarController struct {
	service service.IAvatarService
}

func NewLiveAvatarController(service service.IAvatarService) ILiveAvatarController {
	return &liveAvatarController{service: service}
}

func (c *liveAvatarController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/liveavatar")
	h.Get("/config", c.Config)
	h.Post("/create-session", c.CreateSession)
	h.Post("/speak", c.Speak)
	h.Post("/speak-text", c.SpeakText)
	h.Post("/interrupt", c.Interrupt)
	h.Delete("/close-session/:sessionId", c.CloseSession)
}

func (c *liveAvatarController) Config(ctx *fiber.Ctx) error {
	return ctx.JSON(c.service.Config())
}

func (c *liveAvatarController) CreateSession(ctx *fiber.Ctx) error {
	res, err := c.service.CreateSession(ctx.UserContext())
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *liveAvatarController) Speak(ctx *fiber.Ctx) error {
	var req dto.AvatarSpeakRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Speak(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *liveAvatarController) SpeakText(ctx *fiber.Ctx) error {
	var req dto.AvatarSpeakTextRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.SpeakText(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *liveAvatarController) Interrupt(ctx *fiber.Ctx) error {
	var req dto.AvatarInterruptRequest
	if err := parseBody(ctx, &req); err != nil {
		return err
	}

	res, err := c.service.Interrupt(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}

func (c *liveAvatarController) CloseSession(ctx *fiber.Ctx) error {
	res, err := c.service.CloseSession(ctx.UserContext(), ctx.Params("sessionId"))
	if err != nil {
		return err
	}
	return ctx.JSON(res)
}
