package repository

import "github.com/tu-usuario/club-socios/internal/domain/entity"

// SocioRepository define el puerto de persistencia para Socio.
type SocioRepository interface {
	GetByID(id string) (*entity.Socio, error)
	// ListActivos devuelve los socios ACTIVO, opcionalmente filtrados por
	// categorías. El filtro se aplica a nivel de consulta, nunca por socio.
	ListActivos(categoriaIDs []string) ([]*entity.Socio, error)
}
