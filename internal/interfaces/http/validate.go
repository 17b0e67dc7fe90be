package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain"
)

var validate = validator.New()

// bindBody parsea el body JSON y lo valida contra las etiquetas `validate`
// del DTO. Si falla, escribe la respuesta 400 y devuelve el error de Fiber;
// el handler solo tiene que retornarlo.
func bindBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		msg := "datos inválidos"
		if errors.As(err, &verrs) && len(verrs) > 0 {
			msg = "campo inválido: " + verrs[0].Field()
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
	}
	return nil
}

// errorHTTP mapea los errores de dominio al status HTTP correspondiente.
// Los handlers interceptan antes los casos que merecen un mensaje propio.
func errorHTTP(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrPeriodoBloqueado):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "PERIODO_BLOQUEADO", Message: "otra operación está usando el período, reintente"})
	case errors.Is(err, domain.ErrCuotaPagada):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CUOTA_PAGADA", Message: "la cuota tiene pagos registrados"})
	case errors.Is(err, domain.ErrSinTarifario):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "SIN_TARIFARIO", Message: "no hay categorías con cuota base configurada"})
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
