package controller

import (
	"strings"

	"prados-legal-be/internal/dto"
	"prados-legal-be/internal/pkg/serverutils"
	"prados-legal-be/internal/service"
	"prados-legal-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(r fiber.Router)
	Upload(ctx *fiber.Ctx) error
	GetByUser(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/documents")
	h.Post("", c.Upload)
	h.Get("/user/:userId", c.GetByUser)
}

// Upload expects a multipart form with "file" and "user_id".
func (c *documentController) Upload(ctx *fiber.Ctx) error {
	fh, err := ctx.FormFile("file")
	if err != nil {
		return apperror.Input("El archivo es obligatorio")
	}
	data, err := readFormFile(fh)
	if err != nil {
		return err
	}

	req := dto.UploadDocumentRequest{
		UserId:      strings.TrimSpace(ctx.FormValue("user_id")),
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Data:        data,
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Upload(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(res)
}

func (c *documentController) GetByUser(ctx *fiber.Ctx) error {
	res, err := c.service.GetByUser(ctx.UserContext(), ctx.Params("userId"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get documents", res))
}
