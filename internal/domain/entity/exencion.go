package entity

import "time"

// Estados de una exención. Transiciones unidireccionales
// (PENDIENTE_APROBACION → APROBADA → VIGENTE → VENCIDA); REVOCADA es
// terminal desde cualquier estado activo. Solo APROBADA y VIGENTE
// afectan el cálculo de cuotas.
const (
	ExencionPendiente = "PENDIENTE_APROBACION"
	ExencionAprobada  = "APROBADA"
	ExencionRechazada = "RECHAZADA"
	ExencionVigente   = "VIGENTE"
	ExencionVencida   = "VENCIDA"
	ExencionRevocada  = "REVOCADA"
)

// Exencion es una dispensa total o parcial de la cuota de un socio.
// Cuando está presente (APROBADA/VIGENTE) suprime todo efecto monetario
// dentro de su alcance declarado, sin importar reglas ni ajustes.
type Exencion struct {
	ID          string
	SocioID     string
	Estado      string
	AplicaA     string // TODOS, SOLO_BASE, SOLO_ACTIVIDADES
	Prioridad   int    // mayor gana cuando hay más de una vigente
	Motivo      string
	AprobadoPor string
	FechaInicio time.Time
	FechaFin    *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Computable indica si la exención afecta el cálculo (APROBADA o VIGENTE).
func (e *Exencion) Computable() bool {
	return e.Estado == ExencionAprobada || e.Estado == ExencionVigente
}

// VigenteEn indica si la ventana de la exención cubre el rango del período.
func (e *Exencion) VigenteEn(inicio, fin time.Time) bool {
	if e.FechaInicio.After(fin) {
		return false
	}
	if e.FechaFin != nil && e.FechaFin.Before(inicio) {
		return false
	}
	return true
}
