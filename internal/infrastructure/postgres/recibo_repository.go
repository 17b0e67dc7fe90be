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

var _ repository.ReciboRepository = (*ReciboRepo)(nil)

// ReciboRepo implementación de ReciboRepository sobre PostgreSQL.
// Es el puerto que alimenta la guarda del rollback: recibos y medios de
// pago del período se leen en bloque, nunca cuota por cuota.
type ReciboRepo struct {
	q Querier
}

// NewReciboRepository construye el adaptador de recibos y medios de pago.
func NewReciboRepository(q Querier) *ReciboRepo {
	return &ReciboRepo{q: q}
}

const reciboColumns = `id, cuota_id, numero, estado, monto, fecha_emision, fecha_pago, created_at, updated_at`

// GetByCuotaID obtiene el recibo de una cuota. Devuelve domain.ErrNotFound si no existe.
func (r *ReciboRepo) GetByCuotaID(cuotaID string) (*entity.Recibo, error) {
	query := `SELECT ` + reciboColumns + ` FROM recibos WHERE cuota_id = $1`
	var rec entity.Recibo
	err := r.q.QueryRow(context.Background(), query, cuotaID).Scan(
		&rec.ID, &rec.CuotaID, &rec.Numero, &rec.Estado, &rec.Monto,
		&rec.FechaEmision, &rec.FechaPago, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get recibo: %w", err)
	}
	return &rec, nil
}

// RecibosPorCuota devuelve los recibos del período indexados por cuota.
func (r *ReciboRepo) RecibosPorCuota(mes, anio int) (map[string]*entity.Recibo, error) {
	query := `
		SELECT r.id, r.cuota_id, r.numero, r.estado, r.monto, r.fecha_emision, r.fecha_pago, r.created_at, r.updated_at
		FROM recibos r
		JOIN cuotas c ON c.id = r.cuota_id
		WHERE c.mes = $1 AND c.anio = $2`
	rows, err := r.q.Query(context.Background(), query, mes, anio)
	if err != nil {
		return nil, fmt.Errorf("recibos del período: %w", err)
	}
	defer rows.Close()
	out := make(map[string]*entity.Recibo)
	for rows.Next() {
		var rec entity.Recibo
		if err := rows.Scan(
			&rec.ID, &rec.CuotaID, &rec.Numero, &rec.Estado, &rec.Monto,
			&rec.FechaEmision, &rec.FechaPago, &rec.CreatedAt, &rec.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan recibo: %w", err)
		}
		out[rec.CuotaID] = &rec
	}
	return out, rows.Err()
}

// MediosPagoPorCuota devuelve la cantidad de medios de pago por cuota del período.
func (r *ReciboRepo) MediosPagoPorCuota(mes, anio int) (map[string]int, error) {
	query := `
		SELECT m.cuota_id, COUNT(*)
		FROM medios_pago m
		JOIN cuotas c ON c.id = m.cuota_id
		WHERE c.mes = $1 AND c.anio = $2
		GROUP BY m.cuota_id`
	rows, err := r.q.Query(context.Background(), query, mes, anio)
	if err != nil {
		return nil, fmt.Errorf("medios de pago del período: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var cuotaID string
		var n int
		if err := rows.Scan(&cuotaID, &n); err != nil {
			return nil, fmt.Errorf("scan medios de pago: %w", err)
		}
		out[cuotaID] = n
	}
	return out, rows.Err()
}

// CountMediosPago cuenta los medios de pago de una cuota puntual.
func (r *ReciboRepo) CountMediosPago(cuotaID string) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM medios_pago WHERE cuota_id = $1`, cuotaID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count medios de pago: %w", err)
	}
	return n, nil
}

// DeleteByCuotaID borra el recibo de una cuota (si existe). Lo llama el
// rollback solo después de verificar la guarda.
func (r *ReciboRepo) DeleteByCuotaID(cuotaID string) error {
	_, err := r.q.Exec(context.Background(), `DELETE FROM recibos WHERE cuota_id = $1`, cuotaID)
	if err != nil {
		return fmt.Errorf("delete recibo: %w", err)
	}
	return nil
}
