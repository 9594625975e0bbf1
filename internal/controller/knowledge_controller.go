package controller

import (
	"prados-legal-be/internal/pkg/serverutils"
	"prados-legal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IKnowledgeController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Count(ctx *fiber.Ctx) error
}

type knowledgeController struct {
	service service.IKnowledgeService
}

func NewKnowledgeController(service service.IKnowledgeService) IKnowledgeController {
	return &knowledgeController{service: service}
}

func (c *knowledgeController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/knowledge")
	h.Get("/search", c.Search)
	h.Get("/count", c.Count)
}

func (c *knowledgeController) Search(ctx *fiber.Ctx) error {
	res, err := c.service.Search(ctx.UserContext(), ctx.Query("q"), ctx.QueryInt("top_k", 0))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search knowledge", res))
}

func (c *knowledgeController) Count(ctx *fiber.Ctx) error {
	res, err := c.service.Count(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success count knowledge", res))
}
