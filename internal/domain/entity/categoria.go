package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Categoria representa una categoría de socio con su cuota base mensual
// (tarifario). La cuota base es el primer componente de toda cuota generada.
type Categoria struct {
	ID        string
	Nombre    string
	Codigo    string
	CuotaBase decimal.Decimal
	Activa    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
