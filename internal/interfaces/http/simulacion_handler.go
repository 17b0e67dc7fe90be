package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/application/facturacion"
)

// SimulacionHandler maneja las proyecciones de facturación: ninguna de
// estas rutas escribe en la base.
type SimulacionHandler struct {
	sim *facturacion.SimuladorCuotas
}

// NewSimulacionHandler construye el handler.
func NewSimulacionHandler(sim *facturacion.SimuladorCuotas) *SimulacionHandler {
	return &SimulacionHandler{sim: sim}
}

// Generacion godoc
// @Summary      Simular la generación de cuotas de un período
// @Tags         simulaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SimularGeneracionRequest  true  "mes, anio, categorias, aplicarDescuentos"
// @Success      200   {object}  dto.SimulacionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/simulaciones/generacion [post]
func (h *SimulacionHandler) Generacion(c *fiber.Ctx) error {
	var in dto.SimularGeneracionRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.sim.SimularGeneracion(c.Context(), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// Regla godoc
// @Summary      Simular el impacto de agregar o reemplazar una regla de descuento
// @Tags         simulaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SimularReglaRequest  true  "período, regla hipotética y reemplazaReglaId opcional"
// @Success      200   {object}  dto.SimularReglaResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/simulaciones/regla [post]
func (h *SimulacionHandler) Regla(c *fiber.Ctx) error {
	var in dto.SimularReglaRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.sim.SimularRegla(c.Context(), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// Escenarios godoc
// @Summary      Comparar escenarios de facturación nombrados
// @Tags         simulaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EscenariosRequest  true  "al menos dos escenarios"
// @Success      200   {object}  dto.EscenariosResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/simulaciones/escenarios [post]
func (h *SimulacionHandler) Escenarios(c *fiber.Ctx) error {
	var in dto.EscenariosRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.sim.CompararEscenarios(c.Context(), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}

// ImpactoMasivo godoc
// @Summary      Proyectar un descuento o recargo global sobre el padrón activo
// @Tags         simulaciones
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ImpactoMasivoRequest  true  "período, tipoDescuento y valor"
// @Success      200   {object}  dto.ImpactoMasivoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/simulaciones/impacto-masivo [post]
func (h *SimulacionHandler) ImpactoMasivo(c *fiber.Ctx) error {
	var in dto.ImpactoMasivoRequest
	if err := bindBody(c, &in); err != nil {
		return err
	}
	resp, err := h.sim.ProyectarImpactoMasivo(c.Context(), in)
	if err != nil {
		return errorHTTP(c, err)
	}
	return c.JSON(resp)
}
