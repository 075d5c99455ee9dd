package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/mrp-api/internal/application/dto"
	"github.com/jhoicas/mrp-api/internal/domain"
)

// respondError traduce los errores de dominio al código HTTP y al cuerpo {code, detail}.
func respondError(c *fiber.Ctx, err error) error {
	status, code := classify(err)
	detail := err.Error()
	if status == fiber.StatusInternalServerError {
		requestLog(c).Error().Err(err).Str("method", c.Method()).Str("path", c.Path()).Msg("error interno")
		detail = "error interno del servidor"
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: code, Detail: detail})
}

func classify(err error) (int, string) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation), errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest, "VALIDATION"
	case errors.Is(err, domain.ErrUnresolvedBOM):
		return fiber.StatusUnprocessableEntity, "UNRESOLVED_BOM"
	case errors.Is(err, domain.ErrCyclicBOM):
		return fiber.StatusUnprocessableEntity, "CYCLIC_BOM"
	case errors.Is(err, domain.ErrIneligibleSourceOrder):
		return fiber.StatusUnprocessableEntity, "INELIGIBLE_SOURCE_ORDER"
	case errors.Is(err, domain.ErrLocked):
		return fiber.StatusConflict, "LOCKED"
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict, "CONFLICT"
	case errors.Is(err, domain.ErrDuplicate):
		return fiber.StatusConflict, "DUPLICATE"
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		return fiber.StatusConflict, "EMAIL_EXISTS"
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound, "NOT_FOUND"
	case errors.Is(err, domain.ErrUserNotFound), errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized, "UNAUTHORIZED"
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden, "FORBIDDEN"
	}
	return fiber.StatusInternalServerError, "INTERNAL"
}

// parseBody decodifica el JSON del cuerpo y aplica las reglas de validación del DTO.
func parseBody(c *fiber.Ctx, v *Validator, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return domain.NewValidationError("body", "cuerpo inválido: "+err.Error())
	}
	return v.Validate(out)
}
