package entity

import "time"

// Roles válidos para Usuario.
const (
	RolAdmin    = "admin"
	RolTesorero = "tesorero"
	RolOperador = "operador"
)

// Usuario representa un usuario administrativo del sistema.
type Usuario struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Nombre       string
	Rol          string // admin, tesorero, operador
	Estado       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
