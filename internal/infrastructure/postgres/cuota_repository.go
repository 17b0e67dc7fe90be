package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

var _ repository.CuotaRepository = (*CuotaRepo)(nil)

// CuotaRepo implementación de CuotaRepository sobre PostgreSQL (usable con pool o tx).
// La unicidad (socio, mes, año) descansa en el índice único
// uq_cuotas_socio_periodo; la violación se traduce a domain.ErrDuplicate.
type CuotaRepo struct {
	q Querier
}

// NewCuotaRepository construye el adaptador de cuotas. Pasar pool o tx (Querier).
func NewCuotaRepository(q Querier) *CuotaRepo {
	return &CuotaRepo{q: q}
}

const cuotaColumns = `id, socio_id, mes, anio, monto_base, monto_actividades, monto_ajustes,
	monto_total, fecha_generacion, fecha_vencimiento, recibo_id, observaciones, created_at, updated_at`

// Create inserta una cuota. Un duplicado (socio, mes, año) devuelve domain.ErrDuplicate.
func (r *CuotaRepo) Create(c *entity.Cuota) error {
	query := `
		INSERT INTO cuotas (` + cuotaColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NULLIF($11, ''), $12, $13, $14)`
	_, err := r.q.Exec(context.Background(), query,
		c.ID, c.SocioID, c.Mes, c.Anio, c.MontoBase, c.MontoActividades, c.MontoAjustes,
		c.MontoTotal, c.FechaGeneracion, c.FechaVencimiento, c.ReciboID, c.Observaciones,
		c.CreatedAt, c.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert cuota: %w", err)
	}
	return nil
}

// CreateItem inserta un ítem de cuota.
func (r *CuotaRepo) CreateItem(it *entity.ItemCuota) error {
	query := `
		INSERT INTO items_cuota (id, cuota_id, tipo, origen_id, concepto, monto, formula, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		it.ID, it.CuotaID, it.Tipo, it.OrigenID, it.Concepto, it.Monto, it.Formula, it.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert item de cuota: %w", err)
	}
	return nil
}

// GetByID obtiene una cuota por ID. Devuelve domain.ErrNotFound si no existe.
func (r *CuotaRepo) GetByID(id string) (*entity.Cuota, error) {
	query := `SELECT ` + cuotaColumns + ` FROM cuotas WHERE id = $1`
	c, err := scanCuota(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get cuota: %w", err)
	}
	return c, nil
}

// GetItems lista los ítems de una cuota.
func (r *CuotaRepo) GetItems(cuotaID string) ([]*entity.ItemCuota, error) {
	query := `
		SELECT id, cuota_id, tipo, COALESCE(origen_id, ''), concepto, monto, formula, created_at
		FROM items_cuota WHERE cuota_id = $1 ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, cuotaID)
	if err != nil {
		return nil, fmt.Errorf("get items de cuota: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// ListByPeriodo lista las cuotas de un período.
func (r *CuotaRepo) ListByPeriodo(mes, anio int) ([]*entity.Cuota, error) {
	query := `SELECT ` + cuotaColumns + ` FROM cuotas WHERE mes = $1 AND anio = $2 ORDER BY socio_id`
	rows, err := r.q.Query(context.Background(), query, mes, anio)
	if err != nil {
		return nil, fmt.Errorf("list cuotas del período: %w", err)
	}
	defer rows.Close()
	var list []*entity.Cuota
	for rows.Next() {
		c, err := scanCuota(rows)
		if err != nil {
			return nil, fmt.Errorf("scan cuota: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// ListItemsByPeriodo lista todos los ítems de las cuotas del período en
// una sola consulta (para operaciones masivas sobre ítems).
func (r *CuotaRepo) ListItemsByPeriodo(mes, anio int) ([]*entity.ItemCuota, error) {
	query := `
		SELECT i.id, i.cuota_id, i.tipo, COALESCE(i.origen_id, ''), i.concepto, i.monto, i.formula, i.created_at
		FROM items_cuota i
		JOIN cuotas c ON c.id = i.cuota_id
		WHERE c.mes = $1 AND c.anio = $2
		ORDER BY i.cuota_id, i.created_at, i.id`
	rows, err := r.q.Query(context.Background(), query, mes, anio)
	if err != nil {
		return nil, fmt.Errorf("list items del período: %w", err)
	}
	defer rows.Close()
	return scanItems(rows)
}

// SociosConCuota devuelve el set de socios con cuota en el período en una
// sola consulta (chequeo de idempotencia de la generación).
func (r *CuotaRepo) SociosConCuota(mes, anio int) (map[string]bool, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT socio_id FROM cuotas WHERE mes = $1 AND anio = $2`, mes, anio)
	if err != nil {
		return nil, fmt.Errorf("socios con cuota: %w", err)
	}
	defer rows.Close()
	out := make(map[string]bool)
	for rows.Next() {
		var socioID string
		if err := rows.Scan(&socioID); err != nil {
			return nil, fmt.Errorf("scan socio con cuota: %w", err)
		}
		out[socioID] = true
	}
	return out, rows.Err()
}

// CountByPeriodo cuenta las cuotas del período.
func (r *CuotaRepo) CountByPeriodo(mes, anio int) (int, error) {
	var n int
	err := r.q.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM cuotas WHERE mes = $1 AND anio = $2`, mes, anio).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count cuotas del período: %w", err)
	}
	return n, nil
}

// UpdateMontos actualiza los subtotales y el total de una cuota.
func (r *CuotaRepo) UpdateMontos(c *entity.Cuota) error {
	query := `
		UPDATE cuotas
		SET monto_base = $2, monto_actividades = $3, monto_ajustes = $4, monto_total = $5, updated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query,
		c.ID, c.MontoBase, c.MontoActividades, c.MontoAjustes, c.MontoTotal, c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update montos de cuota: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateItem actualiza el monto y el concepto de un ítem.
func (r *CuotaRepo) UpdateItem(it *entity.ItemCuota) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE items_cuota SET monto = $2, concepto = $3 WHERE id = $1`,
		it.ID, it.Monto, it.Concepto,
	)
	if err != nil {
		return fmt.Errorf("update item de cuota: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateMasivo actualiza campos no monetarios de un lote de cuotas.
// Devuelve la cantidad de filas afectadas.
func (r *CuotaRepo) UpdateMasivo(ids []string, observaciones *string, vencimiento *time.Time) (int, error) {
	sets := []string{"updated_at = now()"}
	args := []any{ids}
	pos := 2
	if observaciones != nil {
		sets = append(sets, fmt.Sprintf("observaciones = $%d", pos))
		args = append(args, *observaciones)
		pos++
	}
	if vencimiento != nil {
		sets = append(sets, fmt.Sprintf("fecha_vencimiento = $%d", pos))
		args = append(args, *vencimiento)
	}
	query := fmt.Sprintf(`UPDATE cuotas SET %s WHERE id = ANY($1)`, strings.Join(sets, ", "))
	tag, err := r.q.Exec(context.Background(), query, args...)
	if err != nil {
		return 0, fmt.Errorf("update masivo de cuotas: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// DeleteConItems borra la cuota y sus ítems.
func (r *CuotaRepo) DeleteConItems(id string) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM items_cuota WHERE cuota_id = $1`, id); err != nil {
		return fmt.Errorf("delete items de cuota: %w", err)
	}
	tag, err := r.q.Exec(ctx, `DELETE FROM cuotas WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete cuota: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCuota(row pgx.Row) (*entity.Cuota, error) {
	var c entity.Cuota
	var reciboID *string
	err := row.Scan(
		&c.ID, &c.SocioID, &c.Mes, &c.Anio, &c.MontoBase, &c.MontoActividades, &c.MontoAjustes,
		&c.MontoTotal, &c.FechaGeneracion, &c.FechaVencimiento, &reciboID, &c.Observaciones,
		&c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if reciboID != nil {
		c.ReciboID = *reciboID
	}
	return &c, nil
}

func scanItems(rows pgx.Rows) ([]*entity.ItemCuota, error) {
	var list []*entity.ItemCuota
	for rows.Next() {
		var it entity.ItemCuota
		if err := rows.Scan(&it.ID, &it.CuotaID, &it.Tipo, &it.OrigenID, &it.Concepto, &it.Monto, &it.Formula, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan item de cuota: %w", err)
		}
		list = append(list, &it)
	}
	return list, rows.Err()
}
