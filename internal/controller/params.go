package controller

import (
	"io"
	"mime/multipart"

	"prados-legal-be/internal/pkg/serverutils"
	"prados-legal-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// parseBody decodes and validates a JSON request body.
func parseBody(ctx *fiber.Ctx, req interface{}) error {
	if err := ctx.BodyParser(req); err != nil {
		return apperror.Input("Cuerpo de la solicitud inválido")
	}
	return serverutils.ValidateRequest(req)
}

func uuidParam(ctx *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params(name))
	if err != nil {
		return uuid.Nil, apperror.Input("Identificador inválido: " + name)
	}
	return id, nil
}

func readFormFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Input("No se pudo leer el archivo")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, apperror.Input("No se pudo leer el archivo")
	}
	return data, nil
}
