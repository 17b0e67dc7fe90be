package facturacion

import (
	"context"
	"errors"
	"fmt"

	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
	"github.com/tu-usuario/club-socios/pkg/logger"
)

// RollbackCuotasUseCase deshace generaciones de cuotas. La guarda es
// absoluta: una cuota con recibo PAGADO o con al menos un medio de pago
// registrado nunca se elimina, sin importar el modo.
type RollbackCuotasUseCase struct {
	cuotaRepo  repository.CuotaRepository
	reciboRepo repository.ReciboRepository
	txRunner   CuotasTxRunner
	log        *logger.Logger
}

// NewRollbackCuotasUseCase construye el caso de uso.
func NewRollbackCuotasUseCase(
	cuotaRepo repository.CuotaRepository,
	reciboRepo repository.ReciboRepository,
	txRunner CuotasTxRunner,
	log *logger.Logger,
) *RollbackCuotasUseCase {
	return &RollbackCuotasUseCase{
		cuotaRepo:  cuotaRepo,
		reciboRepo: reciboRepo,
		txRunner:   txRunner,
		log:        log,
	}
}

// particion separa las cuotas de un período entre eliminables y
// bloqueadas según la guarda de pagos.
type particion struct {
	eliminables []*entity.Cuota
	bloqueadas  []dto.CuotaBloqueadaDTO
}

// RollbackPeriodo elimina (o previsualiza la eliminación de) todas las
// cuotas eliminables de un período. Las bloqueadas se reportan con su
// motivo y el resto se procesa igual: una cuota pagada nunca aborta el
// rollback de las demás.
func (uc *RollbackCuotasUseCase) RollbackPeriodo(ctx context.Context, in dto.RollbackRequest) (*dto.RollbackResponse, error) {
	periodo := cuotas.Periodo{Mes: in.Mes, Anio: in.Anio}
	if err := periodo.Validar(); err != nil {
		return nil, err
	}
	part, err := uc.particionar(periodo)
	if err != nil {
		return nil, err
	}
	resp := &dto.RollbackResponse{
		Modo:              in.Modo,
		CuotasEliminables: len(part.eliminables),
		CuotasBloqueadas:  len(part.bloqueadas),
		Bloqueadas:        part.bloqueadas,
		Errores:           []string{},
	}
	if in.Modo != dto.ModoAplicar || len(part.eliminables) == 0 {
		return resp, nil
	}

	if err := uc.txRunner.RunCuotas(ctx, periodo, func(cuotaRepo repository.CuotaRepository, reciboRepo repository.ReciboRepository, _ repository.HistorialRepository) error {
		for _, c := range part.eliminables {
			// La guarda se reevalúa dentro de la transacción: un pago
			// registrado entre el preview y el apply bloquea la cuota.
			n, err := reciboRepo.CountMediosPago(c.ID)
			if err != nil {
				return fmt.Errorf("cuota %s: %w", c.ID, err)
			}
			if n > 0 {
				resp.Bloqueadas = append(resp.Bloqueadas, dto.CuotaBloqueadaDTO{
					CuotaID: c.ID,
					SocioID: c.SocioID,
					Motivo:  "registró medios de pago durante el rollback",
				})
				continue
			}
			if err := reciboRepo.DeleteByCuotaID(c.ID); err != nil {
				return fmt.Errorf("recibo de cuota %s: %w", c.ID, err)
			}
			if err := cuotaRepo.DeleteConItems(c.ID); err != nil {
				return fmt.Errorf("cuota %s: %w", c.ID, err)
			}
			resp.Eliminadas++
		}
		return nil
	}); err != nil {
		return nil, err
	}
	resp.CuotasBloqueadas = len(resp.Bloqueadas)

	// Verificación post-commit: lo que queda en el período debe ser
	// exactamente lo bloqueado. Cualquier otra cosa es una discrepancia
	// a revisar a mano, no un error del rollback.
	restantes, err := uc.cuotaRepo.CountByPeriodo(in.Mes, in.Anio)
	if err != nil {
		resp.Errores = append(resp.Errores, "verificación post-rollback: "+err.Error())
		return resp, nil
	}
	if restantes != len(resp.Bloqueadas) {
		resp.Discrepancia = true
		resp.Errores = append(resp.Errores, fmt.Sprintf(
			"verificación post-rollback: quedaron %d cuotas en %s, se esperaban %d", restantes, periodo, len(resp.Bloqueadas)))
		uc.log.Error().
			Str("periodo", periodo.String()).
			Int("restantes", restantes).
			Int("esperadas", len(resp.Bloqueadas)).
			Msg("discrepancia post-rollback")
	}
	uc.log.Info().
		Str("periodo", periodo.String()).
		Int("eliminadas", resp.Eliminadas).
		Int("bloqueadas", len(resp.Bloqueadas)).
		Msg("rollback de período")
	return resp, nil
}

// RollbackCuota elimina (o previsualiza) una cuota puntual. Una cuota
// pagada devuelve domain.ErrCuotaPagada en cualquier modo.
func (uc *RollbackCuotasUseCase) RollbackCuota(ctx context.Context, cuotaID, modo string) (*dto.RollbackResponse, error) {
	c, err := uc.cuotaRepo.GetByID(cuotaID)
	if err != nil {
		return nil, err
	}
	if motivo, bloqueada, err := uc.guardaCuota(cuotaID); err != nil {
		return nil, err
	} else if bloqueada {
		return nil, fmt.Errorf("%w: %s", domain.ErrCuotaPagada, motivo)
	}
	resp := &dto.RollbackResponse{Modo: modo, CuotasEliminables: 1, Errores: []string{}}
	if modo != dto.ModoAplicar {
		return resp, nil
	}
	periodo := cuotas.Periodo{Mes: c.Mes, Anio: c.Anio}
	err = uc.txRunner.RunCuotas(ctx, periodo, func(cuotaRepo repository.CuotaRepository, reciboRepo repository.ReciboRepository, _ repository.HistorialRepository) error {
		n, err := reciboRepo.CountMediosPago(cuotaID)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%w: registró medios de pago durante el rollback", domain.ErrCuotaPagada)
		}
		if err := reciboRepo.DeleteByCuotaID(cuotaID); err != nil {
			return err
		}
		return cuotaRepo.DeleteConItems(cuotaID)
	})
	if err != nil {
		return nil, err
	}
	resp.Eliminadas = 1
	uc.log.Info().Str("cuota_id", cuotaID).Msg("rollback de cuota individual")
	return resp, nil
}

// ValidarRollback responde si un período admite rollback y cuántas
// cuotas caerían de cada lado, sin tocar nada.
func (uc *RollbackCuotasUseCase) ValidarRollback(mes, anio int) (*dto.ValidarRollbackResponse, error) {
	periodo := cuotas.Periodo{Mes: mes, Anio: anio}
	if err := periodo.Validar(); err != nil {
		return nil, err
	}
	part, err := uc.particionar(periodo)
	if err != nil {
		return nil, err
	}
	resp := &dto.ValidarRollbackResponse{
		PuedeHacerRollback: len(part.eliminables) > 0,
		CuotasEliminables:  len(part.eliminables),
		CuotasBloqueadas:   len(part.bloqueadas),
		Errores:            []string{},
	}
	if len(part.eliminables) == 0 && len(part.bloqueadas) == 0 {
		resp.Errores = append(resp.Errores, fmt.Sprintf("no hay cuotas generadas en %s", periodo))
	}
	return resp, nil
}

// particionar evalúa la guarda para todo el período con tres consultas
// fijas: cuotas, recibos y conteo de medios de pago.
func (uc *RollbackCuotasUseCase) particionar(periodo cuotas.Periodo) (*particion, error) {
	lista, err := uc.cuotaRepo.ListByPeriodo(periodo.Mes, periodo.Anio)
	if err != nil {
		return nil, fmt.Errorf("listar cuotas de %s: %w", periodo, err)
	}
	recibos, err := uc.reciboRepo.RecibosPorCuota(periodo.Mes, periodo.Anio)
	if err != nil {
		return nil, fmt.Errorf("recibos de %s: %w", periodo, err)
	}
	medios, err := uc.reciboRepo.MediosPagoPorCuota(periodo.Mes, periodo.Anio)
	if err != nil {
		return nil, fmt.Errorf("medios de pago de %s: %w", periodo, err)
	}
	part := &particion{}
	for _, c := range lista {
		if r, ok := recibos[c.ID]; ok && r.Estado == entity.ReciboPagado {
			part.bloqueadas = append(part.bloqueadas, dto.CuotaBloqueadaDTO{
				CuotaID: c.ID, SocioID: c.SocioID, Motivo: "recibo en estado PAGADO",
			})
			continue
		}
		if medios[c.ID] > 0 {
			part.bloqueadas = append(part.bloqueadas, dto.CuotaBloqueadaDTO{
				CuotaID: c.ID, SocioID: c.SocioID,
				Motivo: fmt.Sprintf("tiene %d medio(s) de pago registrados", medios[c.ID]),
			})
			continue
		}
		part.eliminables = append(part.eliminables, c)
	}
	return part, nil
}

// guardaCuota evalúa la guarda para una cuota puntual.
func (uc *RollbackCuotasUseCase) guardaCuota(cuotaID string) (string, bool, error) {
	recibo, err := uc.reciboRepo.GetByCuotaID(cuotaID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", false, err
	}
	if recibo != nil && recibo.Estado == entity.ReciboPagado {
		return "recibo en estado PAGADO", true, nil
	}
	n, err := uc.reciboRepo.CountMediosPago(cuotaID)
	if err != nil {
		return "", false, err
	}
	if n > 0 {
		return fmt.Sprintf("tiene %d medio(s) de pago registrados", n), true, nil
	}
	return "", false, nil
}
