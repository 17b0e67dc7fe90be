package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un recibo. PAGADO es la guarda del rollback: una cuota con
// recibo PAGADO (o con medios de pago asociados) nunca es eliminable.
const (
	ReciboPendiente = "PENDIENTE"
	ReciboPagado    = "PAGADO"
	ReciboAnulado   = "ANULADO"
)

// Recibo pertenece a una cuota (borrado en cascada con ella cuando la
// guarda lo permite).
type Recibo struct {
	ID           string
	CuotaID      string
	Numero       string
	Estado       string
	Monto        decimal.Decimal
	FechaEmision time.Time
	FechaPago    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MedioPago registra un pago (o pago parcial) aplicado a un recibo.
// Su sola existencia bloquea el rollback de la cuota.
type MedioPago struct {
	ID         string
	ReciboID   string
	CuotaID    string
	Tipo       string // EFECTIVO, TRANSFERENCIA, DEBITO, TARJETA
	Monto      decimal.Decimal
	Referencia string
	Fecha      time.Time
	CreatedAt  time.Time
}
