package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

var _ repository.ActividadRepository = (*ActividadRepo)(nil)

// ActividadRepo implementación de ActividadRepository sobre PostgreSQL.
type ActividadRepo struct {
	q Querier
}

// NewActividadRepository construye el adaptador de actividades e inscripciones.
func NewActividadRepository(q Querier) *ActividadRepo {
	return &ActividadRepo{q: q}
}

// ListActivas lista las actividades disponibles.
func (r *ActividadRepo) ListActivas() ([]*entity.Actividad, error) {
	query := `
		SELECT id, nombre, codigo, precio_mensual, activa, created_at, updated_at
		FROM actividades WHERE activa ORDER BY codigo`
	rows, err := r.q.Query(context.Background(), query)
	if err != nil {
		return nil, fmt.Errorf("list actividades activas: %w", err)
	}
	defer rows.Close()
	var list []*entity.Actividad
	for rows.Next() {
		var a entity.Actividad
		if err := rows.Scan(&a.ID, &a.Nombre, &a.Codigo, &a.PrecioMensual, &a.Activa, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan actividad: %w", err)
		}
		list = append(list, &a)
	}
	return list, rows.Err()
}

// ListInscripcionesVigentes lista todas las inscripciones activas cuya
// ventana se superpone con [inicio, fin], en una sola consulta para todo
// el padrón.
func (r *ActividadRepo) ListInscripcionesVigentes(inicio, fin time.Time) ([]*entity.InscripcionActividad, error) {
	query := `
		SELECT id, socio_id, actividad_id, precio, fecha_inicio, fecha_fin, activa, created_at, updated_at
		FROM inscripciones_actividad
		WHERE activa AND fecha_inicio <= $2 AND (fecha_fin IS NULL OR fecha_fin >= $1)
		ORDER BY socio_id, id`
	rows, err := r.q.Query(context.Background(), query, inicio, fin)
	if err != nil {
		return nil, fmt.Errorf("list inscripciones vigentes: %w", err)
	}
	defer rows.Close()
	var list []*entity.InscripcionActividad
	for rows.Next() {
		var ins entity.InscripcionActividad
		if err := rows.Scan(
			&ins.ID, &ins.SocioID, &ins.ActividadID, &ins.Precio,
			&ins.FechaInicio, &ins.FechaFin, &ins.Activa, &ins.CreatedAt, &ins.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inscripción: %w", err)
		}
		list = append(list, &ins)
	}
	return list, rows.Err()
}
