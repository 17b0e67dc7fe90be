package repository

import (
	"time"

	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// AjusteRepository define el puerto para ajustes manuales de cuota.
type AjusteRepository interface {
	Create(a *entity.AjusteCuotaSocio) error
	Update(a *entity.AjusteCuotaSocio) error
	GetByID(id string) (*entity.AjusteCuotaSocio, error)
	ListBySocio(socioID string) ([]*entity.AjusteCuotaSocio, error)
	// ListVigentesEn devuelve todos los ajustes activos cuya ventana se
	// superpone con [inicio, fin], para la precarga masiva del batch.
	ListVigentesEn(inicio, fin time.Time) ([]*entity.AjusteCuotaSocio, error)
}

// HistorialRepository es el puerto del log de auditoría: solo append y
// lectura, nunca update ni delete.
type HistorialRepository interface {
	Append(h *entity.HistorialAjusteCuota) error
	ListByAjuste(ajusteID string) ([]*entity.HistorialAjusteCuota, error)
	ListByCuota(cuotaID string) ([]*entity.HistorialAjusteCuota, error)
}
