package repository

import "github.com/tu-usuario/club-socios/internal/domain/entity"

// UsuarioRepository define el puerto de persistencia para Usuario (auth).
type UsuarioRepository interface {
	Create(u *entity.Usuario) error
	GetByID(id string) (*entity.Usuario, error)
	GetByEmail(email string) (*entity.Usuario, error)
}
