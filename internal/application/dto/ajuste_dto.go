package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CrearAjusteRequest body para POST /api/ajustes.
// Las invariantes (porcentaje <= 100, ITEMS_ESPECIFICOS con ítems, fechas
// coherentes) se validan en el caso de uso además del esquema.
type CrearAjusteRequest struct {
	SocioID        string          `json:"socioId" validate:"required"`
	Tipo           string          `json:"tipo" validate:"required,oneof=DESCUENTO_FIJO DESCUENTO_PORCENTAJE RECARGO_FIJO RECARGO_PORCENTAJE MONTO_FIJO_TOTAL"`
	Valor          decimal.Decimal `json:"valor" validate:"required"`
	Concepto       string          `json:"concepto" validate:"required"`
	FechaInicio    time.Time       `json:"fechaInicio" validate:"required"`
	FechaFin       *time.Time      `json:"fechaFin,omitempty"`
	AplicaA        string          `json:"aplicaA" validate:"required,oneof=TODOS SOLO_BASE SOLO_ACTIVIDADES ITEMS_ESPECIFICOS"`
	ItemsAfectados []string        `json:"itemsAfectados,omitempty"`
	Motivo         string          `json:"motivo,omitempty"`
}

// ActualizarAjusteRequest body para PUT /api/ajustes/:id. Campos nil no
// se modifican.
type ActualizarAjusteRequest struct {
	Valor          *decimal.Decimal `json:"valor,omitempty"`
	Concepto       *string          `json:"concepto,omitempty"`
	FechaFin       *time.Time       `json:"fechaFin,omitempty"`
	AplicaA        *string          `json:"aplicaA,omitempty"`
	ItemsAfectados []string         `json:"itemsAfectados,omitempty"`
	Motivo         string           `json:"motivo,omitempty"`
}

// AjusteResponse ajuste manual en respuestas.
type AjusteResponse struct {
	ID             string          `json:"id"`
	SocioID        string          `json:"socioId"`
	Tipo           string          `json:"tipo"`
	Valor          decimal.Decimal `json:"valor"`
	Concepto       string          `json:"concepto"`
	FechaInicio    string          `json:"fechaInicio"`
	FechaFin       string          `json:"fechaFin,omitempty"`
	Activo         bool            `json:"activo"`
	AplicaA        string          `json:"aplicaA"`
	ItemsAfectados []string        `json:"itemsAfectados,omitempty"`
	AprobadoPor    string          `json:"aprobadoPor,omitempty"`
}

// HistorialResponse entrada del historial de auditoría.
type HistorialResponse struct {
	ID             string `json:"id"`
	AjusteID       string `json:"ajusteId,omitempty"`
	CuotaID        string `json:"cuotaId,omitempty"`
	Accion         string `json:"accion"`
	EstadoAnterior string `json:"estadoAnterior,omitempty"`
	EstadoNuevo    string `json:"estadoNuevo,omitempty"`
	Usuario        string `json:"usuario"`
	Motivo         string `json:"motivo,omitempty"`
	Fecha          string `json:"fecha"`
}
