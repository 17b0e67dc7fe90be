package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/application/facturacion"
)

// AjusteHandler maneja los ajustes manuales por socio y su auditoría.
type AjusteHandler struct {
	uc *facturacion.AjustesUseCase
}

// NewAjusteHandler construye el handler.
func NewAjusteHandler(uc *facturacion.AjustesUseCase) *AjusteHandler {
	return &AjusteHandler{uc: uc}
}

// Crear godoc
// @Summary      Crear un ajuste manual para un socio
// @Tags         ajustes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CrearAjusteRequest  true  "socio, tipo, valor, concepto, vigencia y alcance"
// @Success      201   {object}  dto.AjusteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ajustes [post]
func (h *AjusteHandler) Crear(c *fiber.Ctx) error {
	var in dto.CrearAjusteRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.uc.Crear(GetUserID(c), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Actualizar godoc
// @Summary      Modificar un ajuste manual existente
// @Tags         ajustes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del ajuste"
// @Param        body  body  dto.ActualizarAjusteRequest  true  "campos a cambiar; los omitidos no se tocan"
// @Success      200   {object}  dto.AjusteResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/ajustes/{id} [put]
func (h *AjusteHandler) Actualizar(c *fiber.Ctx) error {
	var in dto.ActualizarAjusteRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.uc.Actualizar(GetUserID(c), c.Params("id"), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// Desactivar godoc
// @Summary      Desactivar un ajuste manual (soft delete)
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del ajuste"
// @Param        motivo  query  string  false  "motivo de la baja para la auditoría"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ajustes/{id} [delete]
func (h *AjusteHandler) Desactivar(c *fiber.Ctx) error {
	if err := h.uc.Desactivar(GetUserID(c), c.Params("id"), c.Query("motivo")); err != nil {
		return errorHTTP(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener un ajuste manual
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {object}  dto.AjusteResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ajustes/{id} [get]
func (h *AjusteHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.uc.GetByID(c.Params("id"))
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// ListBySocio godoc
// @Summary      Listar los ajustes manuales de un socio
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        socioId  path  string  true  "ID del socio"
// @Success      200  {array}  dto.AjusteResponse
// @Router       /api/socios/{socioId}/ajustes [get]
func (h *AjusteHandler) ListBySocio(c *fiber.Ctx) error {
	resp, err := h.uc.ListBySocio(c.Params("socioId"))
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// Historial godoc
// @Summary      Historial de auditoría de un ajuste
// @Tags         ajustes
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del ajuste"
// @Success      200  {array}  dto.HistorialResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/ajustes/{id}/historial [get]
func (h *AjusteHandler) Historial(c *fiber.Ctx) error {
	resp, err := h.uc.Historial(c.Params("id"))
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}
