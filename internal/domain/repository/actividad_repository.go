package repository

import (
	"time"

	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// ActividadRepository define el puerto para actividades e inscripciones.
// Los listados son masivos: la precarga del batch los agrupa por socio en
// memoria para no consultar por socio.
type ActividadRepository interface {
	ListActivas() ([]*entity.Actividad, error)
	ListInscripcionesVigentes(inicio, fin time.Time) ([]*entity.InscripcionActividad, error)
}
