package repository

import "github.com/tu-usuario/club-socios/internal/domain/entity"

// ReglaRepository define el puerto para las reglas de descuento.
// Las reglas son datos: el evaluador las interpreta, nunca las ejecuta.
type ReglaRepository interface {
	GetByID(id string) (*entity.ReglaDescuento, error)
	ListActivas() ([]*entity.ReglaDescuento, error)
}
