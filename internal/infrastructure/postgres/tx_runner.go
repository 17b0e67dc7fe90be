package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tu-usuario/club-socios/internal/application/facturacion"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

var _ facturacion.CuotasTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// espacioLockCuotas separa las claves de lock del motor de cuotas de
// cualquier otro advisory lock de la base.
const espacioLockCuotas int64 = 77_000_000

// lockPeriodo deriva la clave del advisory lock de un período.
func lockPeriodo(p cuotas.Periodo) int64 {
	return espacioLockCuotas + int64(p.Anio)*100 + int64(p.Mes)
}

// RunCuotas inicia una transacción, toma el advisory lock del período y
// ejecuta fn con repos atados a la tx. Si otro proceso tiene el lock la
// llamada falla rápido con domain.ErrPeriodoBloqueado en lugar de
// encolarse: generación y rollback del mismo período nunca se intercalan.
// El lock es pg_try_advisory_xact_lock: se libera solo con el commit o
// rollback de la transacción.
func (r *TxRunner) RunCuotas(ctx context.Context, periodo cuotas.Periodo, fn func(
	cuotaRepo repository.CuotaRepository,
	reciboRepo repository.ReciboRepository,
	historialRepo repository.HistorialRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var obtenido bool
	if err := tx.QueryRow(ctx, `SELECT pg_try_advisory_xact_lock($1)`, lockPeriodo(periodo)).Scan(&obtenido); err != nil {
		return fmt.Errorf("advisory lock del período: %w", err)
	}
	if !obtenido {
		return domain.ErrPeriodoBloqueado
	}

	if err := fn(NewCuotaRepository(tx), NewReciboRepository(tx), NewHistorialRepository(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
