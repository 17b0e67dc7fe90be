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

var _ repository.AjusteRepository = (*AjusteRepo)(nil)

// AjusteRepo implementación de AjusteRepository sobre PostgreSQL.
type AjusteRepo struct {
	q Querier
}

// NewAjusteRepository construye el adaptador de ajustes manuales.
func NewAjusteRepository(q Querier) *AjusteRepo {
	return &AjusteRepo{q: q}
}

const ajusteColumns = `id, socio_id, tipo, valor, concepto, fecha_inicio, fecha_fin,
	activo, aplica_a, items_afectados, aprobado_por, created_at, updated_at`

// Create inserta un ajuste.
func (r *AjusteRepo) Create(a *entity.AjusteCuotaSocio) error {
	query := `
		INSERT INTO ajustes_cuota_socio (` + ajusteColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(context.Background(), query,
		a.ID, a.SocioID, a.Tipo, a.Valor, a.Concepto, a.FechaInicio, a.FechaFin,
		a.Activo, a.AplicaA, a.ItemsAfectados, a.AprobadoPor, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert ajuste: %w", err)
	}
	return nil
}

// Update persiste los campos mutables de un ajuste.
func (r *AjusteRepo) Update(a *entity.AjusteCuotaSocio) error {
	query := `
		UPDATE ajustes_cuota_socio
		SET valor = $2, concepto = $3, fecha_fin = $4, activo = $5, aplica_a = $6,
		    items_afectados = $7, updated_at = $8
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		a.ID, a.Valor, a.Concepto, a.FechaFin, a.Activo, a.AplicaA, a.ItemsAfectados, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update ajuste: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// GetByID obtiene un ajuste por ID. Devuelve domain.ErrNotFound si no existe.
func (r *AjusteRepo) GetByID(id string) (*entity.AjusteCuotaSocio, error) {
	query := `SELECT ` + ajusteColumns + ` FROM ajustes_cuota_socio WHERE id = $1`
	a, err := scanAjuste(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get ajuste: %w", err)
	}
	return a, nil
}

// ListBySocio lista los ajustes de un socio, activos e inactivos.
func (r *AjusteRepo) ListBySocio(socioID string) ([]*entity.AjusteCuotaSocio, error) {
	query := `SELECT ` + ajusteColumns + ` FROM ajustes_cuota_socio WHERE socio_id = $1 ORDER BY created_at DESC`
	return r.list(query, socioID)
}

// ListVigentesEn devuelve todos los ajustes activos cuya ventana se
// superpone con [inicio, fin], para la precarga del batch.
func (r *AjusteRepo) ListVigentesEn(inicio, fin time.Time) ([]*entity.AjusteCuotaSocio, error) {
	query := `
		SELECT ` + ajusteColumns + `
		FROM ajustes_cuota_socio
		WHERE activo AND fecha_inicio <= $2 AND (fecha_fin IS NULL OR fecha_fin >= $1)
		ORDER BY socio_id, id`
	return r.list(query, inicio, fin)
}

func (r *AjusteRepo) list(query string, args ...any) ([]*entity.AjusteCuotaSocio, error) {
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list ajustes: %w", err)
	}
	defer rows.Close()
	var list []*entity.AjusteCuotaSocio
	for rows.Next() {
		a, err := scanAjuste(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ajuste: %w", err)
		}
		list = append(list, a)
	}
	return list, rows.Err()
}

func scanAjuste(row pgx.Row) (*entity.AjusteCuotaSocio, error) {
	var a entity.AjusteCuotaSocio
	err := row.Scan(
		&a.ID, &a.SocioID, &a.Tipo, &a.Valor, &a.Concepto, &a.FechaInicio, &a.FechaFin,
		&a.Activo, &a.AplicaA, &a.ItemsAfectados, &a.AprobadoPor, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

var _ repository.HistorialRepository = (*HistorialRepo)(nil)

// HistorialRepo implementación de HistorialRepository sobre PostgreSQL.
// La tabla es solo-inserción: acá no hay UPDATE ni DELETE.
type HistorialRepo struct {
	q Querier
}

// NewHistorialRepository construye el adaptador del log de auditoría.
func NewHistorialRepository(q Querier) *HistorialRepo {
	return &HistorialRepo{q: q}
}

// Append agrega una entrada de auditoría.
func (r *HistorialRepo) Append(h *entity.HistorialAjusteCuota) error {
	query := `
		INSERT INTO historial_ajustes (id, ajuste_id, cuota_id, accion, estado_anterior, estado_nuevo, usuario, motivo, created_at)
		VALUES ($1, NULLIF($2, ''), NULLIF($3, ''), $4, NULLIF($5, '')::jsonb, NULLIF($6, '')::jsonb, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		h.ID, h.AjusteID, h.CuotaID, h.Accion, h.EstadoAnterior, h.EstadoNuevo, h.Usuario, h.Motivo, h.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert historial: %w", err)
	}
	return nil
}

// ListByAjuste lista las entradas de un ajuste en orden cronológico.
func (r *HistorialRepo) ListByAjuste(ajusteID string) ([]*entity.HistorialAjusteCuota, error) {
	return r.list(`ajuste_id = $1`, ajusteID)
}

// ListByCuota lista las entradas asociadas a una cuota en orden cronológico.
func (r *HistorialRepo) ListByCuota(cuotaID string) ([]*entity.HistorialAjusteCuota, error) {
	return r.list(`cuota_id = $1`, cuotaID)
}

func (r *HistorialRepo) list(where string, arg any) ([]*entity.HistorialAjusteCuota, error) {
	query := `
		SELECT id, COALESCE(ajuste_id, ''), COALESCE(cuota_id, ''), accion,
		       COALESCE(estado_anterior::text, ''), COALESCE(estado_nuevo::text, ''), usuario, motivo, created_at
		FROM historial_ajustes WHERE ` + where + ` ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, arg)
	if err != nil {
		return nil, fmt.Errorf("list historial: %w", err)
	}
	defer rows.Close()
	var list []*entity.HistorialAjusteCuota
	for rows.Next() {
		var h entity.HistorialAjusteCuota
		if err := rows.Scan(
			&h.ID, &h.AjusteID, &h.CuotaID, &h.Accion,
			&h.EstadoAnterior, &h.EstadoNuevo, &h.Usuario, &h.Motivo, &h.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan historial: %w", err)
		}
		list = append(list, &h)
	}
	return list, rows.Err()
}
