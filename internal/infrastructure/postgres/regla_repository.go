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

var _ repository.ReglaRepository = (*ReglaRepo)(nil)

// ReglaRepo implementación de ReglaRepository sobre PostgreSQL.
// Las reglas se guardan aplanadas: condición y efecto en columnas propias,
// la expresión JsonLogic en jsonb.
type ReglaRepo struct {
	q Querier
}

// NewReglaRepository construye el adaptador de reglas de descuento.
func NewReglaRepository(q Querier) *ReglaRepo {
	return &ReglaRepo{q: q}
}

const reglaColumns = `id, nombre, orden, alcance, COALESCE(alcance_ref, ''), exclusiva, activa,
	condicion_tipo, COALESCE(condicion_valor, ''), condicion_expresion,
	efecto_tipo, efecto_valor, efecto_aplica_a, created_at, updated_at`

// GetByID obtiene una regla por ID. Devuelve domain.ErrNotFound si no existe.
func (r *ReglaRepo) GetByID(id string) (*entity.ReglaDescuento, error) {
	query := `SELECT ` + reglaColumns + ` FROM reglas_descuento WHERE id = $1`
	regla, err := scanRegla(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get regla: %w", err)
	}
	return regla, nil
}

// ListActivas lista las reglas activas. El evaluador reordena por
// (orden, id); acá el ORDER BY es solo por estabilidad de lectura.
func (r *ReglaRepo) ListActivas() ([]*entity.ReglaDescuento, error) {
	query := `SELECT ` + reglaColumns + ` FROM reglas_descuento WHERE activa ORDER BY orden, id`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list reglas activas: %w", err)
	}
	defer rows.Close()
	var list []*entity.ReglaDescuento
	for rows.Next() {
		regla, err := scanRegla(rows)
		if err != nil {
			return nil, fmt.Errorf("scan regla: %w", err)
		}
		list = append(list, regla)
	}
	return list, rows.Err()
}

func scanRegla(row pgx.Row) (*entity.ReglaDescuento, error) {
	var regla entity.ReglaDescuento
	var expresion []byte
	err := row.Scan(
		&regla.ID, &regla.Nombre, &regla.Orden, &regla.Alcance, &regla.AlcanceRef,
		&regla.Exclusiva, &regla.Activa,
		&regla.Condicion.Tipo, &regla.Condicion.Valor, &expresion,
		&regla.Efecto.Tipo, &regla.Efecto.Valor, &regla.Efecto.AplicaA,
		&regla.CreatedAt, &regla.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	regla.Condicion.Expresion = expresion
	return &regla, nil
}
