package repository

import (
	"time"

	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// ExencionRepository define el puerto para exenciones.
type ExencionRepository interface {
	GetByID(id string) (*entity.Exencion, error)
	// ListComputablesEn devuelve las exenciones APROBADA/VIGENTE cuya
	// ventana se superpone con [inicio, fin], para la precarga del batch.
	ListComputablesEn(inicio, fin time.Time) ([]*entity.Exencion, error)
}
