package controller

import (
	"prados-legal-be/internal/pkg/serverutils"
	"prados-legal-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISearchController interface {
	RegisterRoutes(r fiber.Router)
	Search(ctx *fiber.Ctx) error
	Overview(ctx *fiber.Ctx) error
}

type searchController struct {
	service service.ISearchService
}

func NewSearchController(service service.ISearchService) ISearchController {
	return &searchController{service: service}
}

func (c *searchController) RegisterRoutes(r fiber.Router) {
	r.Get("/search", c.Search)
	r.Get("/analytics/overview", c.Overview)
}

func (c *searchController) Search(ctx *fiber.Ctx) error {
	res, err := c.service.Search(ctx.UserContext(), ctx.Query("q"), ctx.Query("user_id"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success search", res))
}

func (c *searchController) Overview(ctx *fiber.Ctx) error {
	res, err := c.service.Overview(ctx.UserContext())
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get analytics", res))
}
