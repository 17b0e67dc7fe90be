package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de ítem dentro de una cuota.
const (
	ItemBase      = "BASE"      // cuota base de la categoría
	ItemActividad = "ACTIVIDAD" // arancel de una inscripción
	ItemAjuste    = "AJUSTE"    // efecto de una regla de descuento/recargo
	ItemManual    = "MANUAL"    // ajuste manual del socio o exención
)

// Cuota representa la cuota de un socio para un período (mes, año).
// Invariante: a lo sumo una cuota por (socio, mes, año), salvo regeneración
// posterior a un rollback. MontoTotal debe igualar la suma de sus ítems.
type Cuota struct {
	ID               string
	SocioID          string
	Mes              int
	Anio             int
	MontoBase        decimal.Decimal
	MontoActividades decimal.Decimal
	MontoAjustes     decimal.Decimal // suma de ítems AJUSTE y MANUAL (con signo)
	MontoTotal       decimal.Decimal
	FechaGeneracion  time.Time
	FechaVencimiento *time.Time
	ReciboID         string // vacío hasta que se emite el recibo
	Observaciones    string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ItemCuota es una línea valorizada de la cuota. Pertenece a exactamente
// una cuota (borrado en cascada con ella).
type ItemCuota struct {
	ID      string
	CuotaID string
	Tipo    string // BASE, ACTIVIDAD, AJUSTE, MANUAL
	// Referencia al origen del ítem: categoría, inscripción, regla o ajuste.
	// Las cuotas históricas guardan el monto resuelto, nunca una referencia
	// viva: borrar el origen no altera cuotas ya generadas.
	OrigenID string
	Concepto string
	Monto    decimal.Decimal
	// Fórmula de procedencia, ej: "10% sobre 5000.00". Solo informativa.
	Formula   string
	CreatedAt time.Time
}
