package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ajuste manual.
const (
	AjusteDescuentoFijo       = "DESCUENTO_FIJO"
	AjusteDescuentoPorcentaje = "DESCUENTO_PORCENTAJE"
	AjusteRecargoFijo         = "RECARGO_FIJO"
	AjusteRecargoPorcentaje   = "RECARGO_PORCENTAJE"
	AjusteMontoFijoTotal      = "MONTO_FIJO_TOTAL" // pisa el total de la cuota
)

// Alcances de un ajuste o exención dentro de la cuota.
const (
	AlcanceTodos            = "TODOS"
	AlcanceSoloBase         = "SOLO_BASE"
	AlcanceSoloActividades  = "SOLO_ACTIVIDADES"
	AlcanceItemsEspecificos = "ITEMS_ESPECIFICOS"
)

// AjusteCuotaSocio es un descuento/recargo manual definido por un
// administrador para un socio, independiente de las reglas globales.
// Invariantes: tipos porcentuales con Valor <= 100; AplicaA =
// ITEMS_ESPECIFICOS exige ItemsAfectados no vacío; FechaFin >= FechaInicio.
type AjusteCuotaSocio struct {
	ID             string
	SocioID        string
	Tipo           string // DESCUENTO_FIJO, DESCUENTO_PORCENTAJE, ...
	Valor          decimal.Decimal
	Concepto       string
	FechaInicio    time.Time
	FechaFin       *time.Time // nil = sin vencimiento
	Activo         bool
	AplicaA        string   // TODOS, SOLO_BASE, SOLO_ACTIVIDADES, ITEMS_ESPECIFICOS
	ItemsAfectados []string // IDs de actividad cuando AplicaA = ITEMS_ESPECIFICOS
	AprobadoPor    string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EsPorcentual indica si el valor del ajuste se interpreta como porcentaje.
func (a *AjusteCuotaSocio) EsPorcentual() bool {
	return a.Tipo == AjusteDescuentoPorcentaje || a.Tipo == AjusteRecargoPorcentaje
}

// VigenteEn indica si el ajuste está activo y su ventana de validez se
// superpone con el rango [inicio, fin] del período.
func (a *AjusteCuotaSocio) VigenteEn(inicio, fin time.Time) bool {
	if !a.Activo {
		return false
	}
	if a.FechaInicio.After(fin) {
		return false
	}
	if a.FechaFin != nil && a.FechaFin.Before(inicio) {
		return false
	}
	return true
}

// Acciones registradas en el historial de ajustes.
const (
	HistorialCreado      = "CREADO"
	HistorialModificado  = "MODIFICADO"
	HistorialDesactivado = "DESACTIVADO"
	HistorialAplicado    = "APLICADO"
)

// HistorialAjusteCuota es una entrada inmutable de auditoría: se agrega en
// cada mutación de un ajuste o aplicación masiva sobre cuotas, nunca se
// actualiza ni se borra.
type HistorialAjusteCuota struct {
	ID             string
	AjusteID       string // vacío si la entrada refiere solo a una cuota
	CuotaID        string // vacío si la entrada refiere solo a un ajuste
	Accion         string // CREADO, MODIFICADO, DESACTIVADO, APLICADO
	EstadoAnterior string // snapshot JSON del estado previo
	EstadoNuevo    string // snapshot JSON del estado resultante
	Usuario        string
	Motivo         string
	CreatedAt      time.Time
}
