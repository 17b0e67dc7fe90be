package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Actividad representa una actividad del club (natación, tenis, gimnasio)
// con su arancel mensual.
type Actividad struct {
	ID            string
	Nombre        string
	Codigo        string
	PrecioMensual decimal.Decimal
	Activa        bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InscripcionActividad vincula un socio con una actividad. Una inscripción
// activa genera un ItemCuota de tipo ACTIVIDAD en cada período que cubra
// su ventana de vigencia.
type InscripcionActividad struct {
	ID          string
	SocioID     string
	ActividadID string
	// Precio congelado al momento de inscribirse; si es cero se usa el
	// precio mensual vigente de la actividad.
	Precio      decimal.Decimal
	FechaInicio time.Time
	FechaFin    *time.Time // nil = sin fecha de baja
	Activa      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// VigenteEn indica si la inscripción cubre el rango [inicio, fin] del período.
func (i *InscripcionActividad) VigenteEn(inicio, fin time.Time) bool {
	if !i.Activa {
		return false
	}
	if i.FechaInicio.After(fin) {
		return false
	}
	if i.FechaFin != nil && i.FechaFin.Before(inicio) {
		return false
	}
	return true
}
