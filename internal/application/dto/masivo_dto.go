package dto

import "github.com/shopspring/decimal"

// Tipos de cambio masivo sobre cuotas ya generadas.
const (
	CambioDescuentoFijo       = "DESCUENTO_FIJO"
	CambioDescuentoPorcentaje = "DESCUENTO_PORCENTAJE"
	CambioRecargoFijo         = "RECARGO_FIJO"
	CambioRecargoPorcentaje   = "RECARGO_PORCENTAJE"
	CambioPrecioItem          = "PRECIO_ITEM" // repone el monto de los ítems de una actividad
)

// FiltroCuotasDTO filtra las cuotas objetivo de un cambio masivo.
// Mes y Anio son obligatorios; Categorias y SocioIDs acotan el conjunto.
type FiltroCuotasDTO struct {
	Mes        int      `json:"mes" validate:"required,min=1,max=12"`
	Anio       int      `json:"anio" validate:"required,min=2000,max=2100"`
	Categorias []string `json:"categorias,omitempty"`
	SocioIDs   []string `json:"socioIds,omitempty"`
}

// CambioMasivoDTO describe el cambio a aplicar sobre cada cuota filtrada.
// ActividadID solo aplica a PRECIO_ITEM; AplicaA acota el alcance de los
// descuentos/recargos.
type CambioMasivoDTO struct {
	Tipo        string          `json:"tipo" validate:"required,oneof=DESCUENTO_FIJO DESCUENTO_PORCENTAJE RECARGO_FIJO RECARGO_PORCENTAJE PRECIO_ITEM"`
	Valor       decimal.Decimal `json:"valor" validate:"required"`
	AplicaA     string          `json:"aplicaA,omitempty"`
	ActividadID string          `json:"actividadId,omitempty"`
	Concepto    string          `json:"concepto,omitempty"`
}

// AjusteMasivoRequest body para POST /api/cuotas/ajuste-masivo.
type AjusteMasivoRequest struct {
	Modo   string          `json:"modo" validate:"required,oneof=PREVIEW APLICAR"`
	Filtro FiltroCuotasDTO `json:"filtro" validate:"required"`
	Cambio CambioMasivoDTO `json:"cambio" validate:"required"`
}

// AjusteMasivoResponse resultado del ajuste masivo. PREVIEW y APLICAR
// comparten el cálculo: los números del preview son los del apply.
// Errores no vacío fuerza Exito=false aun en PREVIEW.
type AjusteMasivoResponse struct {
	Exito            bool            `json:"exito"`
	Modo             string          `json:"modo"`
	CuotasAfectadas  int             `json:"cuotasAfectadas"`
	ItemsAfectados   int             `json:"itemsAfectados"`
	ImpactoEconomico decimal.Decimal `json:"impactoEconomico"`
	Errores          []string        `json:"errores"`
}

// DescuentoGlobalRequest body para POST /api/cuotas/descuento-global.
type DescuentoGlobalRequest struct {
	Mes           int             `json:"mes" validate:"required,min=1,max=12"`
	Anio          int             `json:"anio" validate:"required,min=2000,max=2100"`
	TipoDescuento string          `json:"tipoDescuento" validate:"required,oneof=FIJO PORCENTAJE"`
	Valor         decimal.Decimal `json:"valor" validate:"required"`
	Modo          string          `json:"modo" validate:"required,oneof=PREVIEW APLICAR"`
}

// DescuentoGlobalResponse resultado del descuento global.
type DescuentoGlobalResponse struct {
	CuotasAfectadas int             `json:"cuotasAfectadas"`
	DescuentoTotal  decimal.Decimal `json:"descuentoTotal"`
	Errores         []string        `json:"errores"`
}
