package cuotas

import (
	"fmt"
	"time"

	"github.com/tu-usuario/club-socios/internal/domain"
)

// Periodo identifica un período de facturación (mes, año).
type Periodo struct {
	Mes  int
	Anio int
}

// Validar verifica que el período esté en rango.
func (p Periodo) Validar() error {
	if p.Mes < 1 || p.Mes > 12 {
		return fmt.Errorf("%w: mes %d fuera de rango", domain.ErrInvalidInput, p.Mes)
	}
	if p.Anio < 2000 || p.Anio > 2100 {
		return fmt.Errorf("%w: año %d fuera de rango", domain.ErrInvalidInput, p.Anio)
	}
	return nil
}

// Inicio devuelve el primer instante del período.
func (p Periodo) Inicio() time.Time {
	return time.Date(p.Anio, time.Month(p.Mes), 1, 0, 0, 0, 0, time.UTC)
}

// Fin devuelve el último día del período (23:59:59).
func (p Periodo) Fin() time.Time {
	return p.Inicio().AddDate(0, 1, 0).Add(-time.Second)
}

func (p Periodo) String() string {
	return fmt.Sprintf("%02d/%04d", p.Mes, p.Anio)
}
