package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

var _ repository.SocioRepository = (*SocioRepo)(nil)

// SocioRepo implementación de SocioRepository sobre PostgreSQL.
type SocioRepo struct {
	q Querier
}

// NewSocioRepository construye el adaptador de socios. Pasar pool o tx (Querier).
func NewSocioRepository(q Querier) *SocioRepo {
	return &SocioRepo{q: q}
}

const socioColumns = `id, nombre, apellido, documento, email, categoria_id,
	fecha_nacimiento, fecha_alta, estado, created_at, updated_at`

// GetByID obtiene un socio por ID. Devuelve domain.ErrNotFound si no existe.
func (r *SocioRepo) GetByID(id string) (*entity.Socio, error) {
	query := `SELECT ` + socioColumns + ` FROM socios WHERE id = $1`
	var s entity.Socio
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&s.ID, &s.Nombre, &s.Apellido, &s.Documento, &s.Email, &s.CategoriaID,
		&s.FechaNacimiento, &s.FechaAlta, &s.Estado, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get socio: %w", err)
	}
	return &s, nil
}

// ListActivos lista los socios ACTIVO, opcionalmente filtrados por categorías.
// El filtro se resuelve en la consulta, nunca fila por fila.
func (r *SocioRepo) ListActivos(categoriaIDs []string) ([]*entity.Socio, error) {
	query := `SELECT ` + socioColumns + ` FROM socios WHERE estado = $1`
	args := []any{entity.SocioActivo}
	if len(categoriaIDs) > 0 {
		query += ` AND categoria_id = ANY($2)`
		args = append(args, categoriaIDs)
	}
	query += ` ORDER BY apellido, nombre`

	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list socios activos: %w", err)
	}
	defer rows.Close()
	var list []*entity.Socio
	for rows.Next() {
		var s entity.Socio
		if err := rows.Scan(
			&s.ID, &s.Nombre, &s.Apellido, &s.Documento, &s.Email, &s.CategoriaID,
			&s.FechaNacimiento, &s.FechaAlta, &s.Estado, &s.CreatedAt, &s.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan socio: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
