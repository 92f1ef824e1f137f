package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/kardex-io/kardex-api/internal/application/dto"
	"github.com/kardex-io/kardex-api/internal/domain"
)

// respondError mapea errores de dominio a respuestas HTTP. Todo lo no
// reconocido es un 500 INTERNAL: los fallos de transacción ya llegaron aquí
// con rollback completo hecho.
func respondError(c *fiber.Ctx, err error) error {
	var stockErr *domain.StockInsuficienteError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "INSUFFICIENT_STOCK",
			Message: stockErr.Error(),
		})
	}
	switch {
	case errors.Is(err, domain.ErrCantidadInvalida):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el código ya existe"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
