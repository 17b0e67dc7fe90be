package repository

import "github.com/tu-usuario/club-socios/internal/domain/entity"

// CategoriaRepository define el puerto para el tarifario de categorías.
type CategoriaRepository interface {
	GetByID(id string) (*entity.Categoria, error)
	ListActivas() ([]*entity.Categoria, error)
}
