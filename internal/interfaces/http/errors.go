package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/vortex-catalogo/internal/application/dto"
	"github.com/jhoicas/vortex-catalogo/internal/domain"
)

// conflictCodes códigos específicos para los conflictos que el cliente suele distinguir.
var conflictCodes = []struct {
	err  error
	code string
}{
	{domain.ErrInsufficientStock, "INSUFFICIENT_STOCK"},
	{domain.ErrEmailAlreadyExists, "EMAIL_EXISTS"},
	{domain.ErrPhoneAlreadyExists, "PHONE_EXISTS"},
	{domain.ErrLastManager, "LAST_MANAGER"},
	{domain.ErrOrderPending, "ORDER_PENDING"},
	{domain.ErrProductInPendingOrder, "PRODUCT_IN_PENDING_ORDER"},
}

// writeError traduce un error de dominio a status HTTP + dto.ErrorResponse.
// Los errores internos se registran y su detalle no sale en la respuesta.
func writeError(c *fiber.Ctx, err error) error {
	switch domain.KindOf(err) {
	case domain.KindInvalidArgument:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case domain.KindNotFound:
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case domain.KindConflict:
		code := "CONFLICT"
		for _, cc := range conflictCodes {
			if errors.Is(err, cc.err) {
				code = cc.code
				break
			}
		}
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: code, Message: err.Error()})
	case domain.KindForbidden:
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: err.Error()})
	case domain.KindUnauthorized:
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	}
	zerolog.Ctx(c.UserContext()).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno del servidor"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

func validationError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}
