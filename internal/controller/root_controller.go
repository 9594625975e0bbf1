package controller

import (
	"prados-legal-be/internal/constant"

	"github.com/gofiber/fiber/v2"
)

type IRootController interface {
	RegisterRoutes(r fiber.Router)
	Banner(ctx *fiber.Ctx) error
}

type rootController struct{}

func NewRootController() IRootController {
	return &rootController{}
}

func (c *rootController) RegisterRoutes(r fiber.Router) {
	r.Get("/", c.Banner)
}

func (c *rootController) Banner(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{"message": constant.ApiBanner})
}
