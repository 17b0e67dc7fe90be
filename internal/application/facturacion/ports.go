package facturacion

import (
	"context"

	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

// CuotasTxRunner ejecuta una función dentro de una transacción con los
// repos de cuotas, recibos e historial atados a la transacción.
//
// El runner toma un lock de asesoría por período antes de ejecutar fn:
// generación y rollback sobre el mismo período nunca corren en paralelo.
// Un escritor concurrente falla rápido con domain.ErrPeriodoBloqueado en
// lugar de intercalarse en silencio.
type CuotasTxRunner interface {
	RunCuotas(ctx context.Context, periodo cuotas.Periodo, fn func(
		cuotaRepo repository.CuotaRepository,
		reciboRepo repository.ReciboRepository,
		historialRepo repository.HistorialRepository,
	) error) error
}
