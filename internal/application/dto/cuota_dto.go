package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// GenerarCuotasRequest body para POST /api/cuotas/generar.
// AplicarDescuentos nil equivale a true.
type GenerarCuotasRequest struct {
	Mes               int      `json:"mes" validate:"required,min=1,max=12"`
	Anio              int      `json:"anio" validate:"required,min=2000,max=2100"`
	Categorias        []string `json:"categorias,omitempty"`
	AplicarDescuentos *bool    `json:"aplicarDescuentos,omitempty"`
	Notas             string   `json:"notas,omitempty"`
}

// GenerarCuotasResponse resultado de una generación masiva.
type GenerarCuotasResponse struct {
	Generadas   int             `json:"generadas"`
	Omitidas    int             `json:"omitidas"` // ya tenían cuota en el período
	Errores     []ErrorSocioDTO `json:"errores"`
	Advertencias []string       `json:"advertencias,omitempty"`
	Performance PerformanceDTO  `json:"performance"`
}

// CuotaResponse cuota con detalle.
type CuotaResponse struct {
	ID               string              `json:"id"`
	SocioID          string              `json:"socioId"`
	Mes              int                 `json:"mes"`
	Anio             int                 `json:"anio"`
	MontoBase        decimal.Decimal     `json:"montoBase"`
	MontoActividades decimal.Decimal     `json:"montoActividades"`
	MontoAjustes     decimal.Decimal     `json:"montoAjustes"`
	MontoTotal       decimal.Decimal     `json:"montoTotal"`
	FechaGeneracion  string              `json:"fechaGeneracion"`
	Observaciones    string              `json:"observaciones,omitempty"`
	Items            []ItemCuotaResponse `json:"items"`
}

// ItemCuotaResponse línea de la cuota en respuestas.
type ItemCuotaResponse struct {
	ID       string          `json:"id"`
	Tipo     string          `json:"tipo"`
	Concepto string          `json:"concepto"`
	Monto    decimal.Decimal `json:"monto"`
	Formula  string          `json:"formula,omitempty"`
}

// ActualizacionMasivaRequest body para POST /api/cuotas/actualizar-masivo.
type ActualizacionMasivaRequest struct {
	CuotaIDs []string                 `json:"cuotaIds" validate:"required,min=1"`
	Updates  ActualizacionCamposDTO   `json:"updates" validate:"required"`
}

// ActualizacionCamposDTO campos no monetarios actualizables en lote.
type ActualizacionCamposDTO struct {
	Observaciones    *string    `json:"observaciones,omitempty"`
	FechaVencimiento *time.Time `json:"fechaVencimiento,omitempty"`
}

// ActualizacionMasivaResponse resultado de la actualización por lote.
type ActualizacionMasivaResponse struct {
	UpdatedCount int `json:"updatedCount"`
}
