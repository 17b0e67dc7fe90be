package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/application/facturacion"
)

// CuotaHandler maneja la generación masiva, los cambios por lote y el
// rollback de cuotas (protegido).
type CuotaHandler struct {
	generar   *facturacion.GenerarCuotasUseCase
	masivo    *facturacion.AjusteMasivoUseCase
	rollback  *facturacion.RollbackCuotasUseCase
	consultas *facturacion.ConsultaCuotasUseCase
}

// NewCuotaHandler construye el handler.
func NewCuotaHandler(
	generar *facturacion.GenerarCuotasUseCase,
	masivo *facturacion.AjusteMasivoUseCase,
	rollback *facturacion.RollbackCuotasUseCase,
	consultas *facturacion.ConsultaCuotasUseCase,
) *CuotaHandler {
	return &CuotaHandler{generar: generar, masivo: masivo, rollback: rollback, consultas: consultas}
}

// Generar godoc
// @Summary      Generar cuotas del período para todo el padrón activo
// @Tags         cuotas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.GenerarCuotasRequest  true  "mes, anio, categorias opcionales, aplicarDescuentos"
// @Success      200   {object}  dto.GenerarCuotasResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cuotas/generar [post]
func (h *CuotaHandler) Generar(c *fiber.Ctx) error {
	var in dto.GenerarCuotasRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.generar.Generar(c.Context(), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// AjusteMasivo godoc
// @Summary      Aplicar (o previsualizar) un cambio masivo sobre cuotas generadas
// @Tags         cuotas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AjusteMasivoRequest  true  "modo PREVIEW|APLICAR, filtro y cambio"
// @Success      200   {object}  dto.AjusteMasivoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cuotas/ajuste-masivo [post]
func (h *CuotaHandler) AjusteMasivo(c *fiber.Ctx) error {
	var in dto.AjusteMasivoRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.masivo.Aplicar(c.Context(), GetUserID(c), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// DescuentoGlobal godoc
// @Summary      Aplicar un descuento global a todas las cuotas del período
// @Tags         cuotas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DescuentoGlobalRequest  true  "mes, anio, tipoDescuento FIJO|PORCENTAJE, valor, modo"
// @Success      200   {object}  dto.DescuentoGlobalResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cuotas/descuento-global [post]
func (h *CuotaHandler) DescuentoGlobal(c *fiber.Ctx) error {
	var in dto.DescuentoGlobalRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.masivo.DescuentoGlobal(c.Context(), GetUserID(c), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// ActualizarMasivo godoc
// @Summary      Actualizar campos no monetarios de un lote de cuotas
// @Tags         cuotas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ActualizacionMasivaRequest  true  "cuotaIds y updates"
// @Success      200   {object}  dto.ActualizacionMasivaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cuotas/actualizar-masivo [post]
func (h *CuotaHandler) ActualizarMasivo(c *fiber.Ctx) error {
	var in dto.ActualizacionMasivaRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.masivo.ActualizarMasivo(c.Context(), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// RollbackPeriodo godoc
// @Summary      Eliminar las cuotas de un período respetando la guarda de pagos
// @Tags         cuotas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RollbackRequest  true  "mes, anio, modo PREVIEW|APLICAR"
// @Success      200   {object}  dto.RollbackResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cuotas/rollback [post]
func (h *CuotaHandler) RollbackPeriodo(c *fiber.Ctx) error {
	var in dto.RollbackRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.rollback.RollbackPeriodo(c.Context(), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// RollbackCuota godoc
// @Summary      Eliminar una cuota individual si no tiene pagos
// @Tags         cuotas
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la cuota"
// @Param        body  body  dto.RollbackCuotaRequest  true  "modo PREVIEW|APLICAR"
// @Success      200   {object}  dto.RollbackResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cuotas/{id}/rollback [post]
func (h *CuotaHandler) RollbackCuota(c *fiber.Ctx) error {
	var in dto.RollbackCuotaRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.rollback.RollbackCuota(c.Context(), c.Params("id"), in.Modo)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// ValidarRollback godoc
// @Summary      Verificar si un período admite rollback, sin efectos
// @Tags         cuotas
// @Security     Bearer
// @Produce      json
// @Param        mes   query  int  true  "mes del período"
// @Param        anio  query  int  true  "año del período"
// @Success      200   {object}  dto.ValidarRollbackResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cuotas/rollback/validar [get]
func (h *CuotaHandler) ValidarRollback(c *fiber.Ctx) error {
	mes := c.QueryInt("mes")
	anio := c.QueryInt("anio")
	resp, err := h.rollback.ValidarRollback(mes, anio)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// ListByPeriodo godoc
// @Summary      Listar cuotas de un período con su detalle
// @Tags         cuotas
// @Security     Bearer
// @Produce      json
// @Param        mes   query  int  true  "mes del período"
// @Param        anio  query  int  true  "año del período"
// @Success      200   {array}  dto.CuotaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/cuotas [get]
func (h *CuotaHandler) ListByPeriodo(c *fiber.Ctx) error {
	mes := c.QueryInt("mes")
	anio := c.QueryInt("anio")
	resp, err := h.consultas.ListByPeriodo(mes, anio)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// GetByID godoc
// @Summary      Obtener una cuota con sus ítems
// @Tags         cuotas
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la cuota"
// @Success      200  {object}  dto.CuotaResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cuotas/{id} [get]
func (h *CuotaHandler) GetByID(c *fiber.Ctx) error {
	resp, err := h.consultas.GetByID(c.Params("id"))
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}
