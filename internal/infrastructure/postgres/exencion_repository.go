package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

var _ repository.ExencionRepository = (*ExencionRepo)(nil)

// ExencionRepo implementación de ExencionRepository sobre PostgreSQL.
type ExencionRepo struct {
	q Querier
}

// NewExencionRepository construye el adaptador de exenciones.
func NewExencionRepository(q Querier) *ExencionRepo {
	return &ExencionRepo{q: q}
}

const exencionColumns = `id, socio_id, estado, aplica_a, prioridad, motivo, aprobado_por,
	fecha_inicio, fecha_fin, created_at, updated_at`

// GetByID obtiene una exención por ID. Devuelve domain.ErrNotFound si no existe.
func (r *ExencionRepo) GetByID(id string) (*entity.Exencion, error) {
	query := `SELECT ` + exencionColumns + ` FROM exenciones WHERE id = $1`
	var e entity.Exencion
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&e.ID, &e.SocioID, &e.Estado, &e.AplicaA, &e.Prioridad, &e.Motivo, &e.AprobadoPor,
		&e.FechaInicio, &e.FechaFin, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get exención: %w", err)
	}
	return &e, nil
}

// ListComputablesEn devuelve las exenciones APROBADA/VIGENTE cuya ventana
// se superpone con [inicio, fin], para la precarga del batch.
func (r *ExencionRepo) ListComputablesEn(inicio, fin time.Time) ([]*entity.Exencion, error) {
	query := `
		SELECT ` + exencionColumns + `
		FROM exenciones
		WHERE estado IN ($1, $2) AND fecha_inicio <= $4 AND (fecha_fin IS NULL OR fecha_fin >= $3)
		ORDER BY socio_id, prioridad DESC, id`
	rows, err := r.q.Query(context.Background(), query, entity.ExencionAprobada, entity.ExencionVigente, inicio, fin)
	if err != nil {
		return nil, fmt.Errorf("list exenciones computables: %w", err)
	}
	defer rows.Close()
	var list []*entity.Exencion
	for rows.Next() {
		var e entity.Exencion
		if err := rows.Scan(
			&e.ID, &e.SocioID, &e.Estado, &e.AplicaA, &e.Prioridad, &e.Motivo, &e.AprobadoPor,
			&e.FechaInicio, &e.FechaFin, &e.CreatedAt, &e.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan exención: %w", err)
		}
		list = append(list, &e)
	}
	return list, rows.Err()
}
