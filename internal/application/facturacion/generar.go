package facturacion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
	"github.com/tu-usuario/club-socios/pkg/logger"
)

// GenerarCuotasUseCase genera las cuotas de un período para todo el padrón
// elegible: precarga los datos de referencia una sola vez, compone cada
// cuota en memoria y persiste lo compuesto por chunks transaccionales.
type GenerarCuotasUseCase struct {
	precarga       *PrecargaDatos
	txRunner       CuotasTxRunner
	log            *logger.Logger
	chunkSize      int
	diaVencimiento int
}

// NewGenerarCuotasUseCase construye el caso de uso. chunkSize acota las
// filas por transacción (límite de tamaño de sentencia, no de atomicidad
// de negocio); <= 0 usa 500. diaVencimiento fija el día del mes del
// vencimiento de las cuotas generadas; 0 genera sin vencimiento.
func NewGenerarCuotasUseCase(precarga *PrecargaDatos, txRunner CuotasTxRunner, log *logger.Logger, chunkSize, diaVencimiento int) *GenerarCuotasUseCase {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &GenerarCuotasUseCase{precarga: precarga, txRunner: txRunner, log: log, chunkSize: chunkSize, diaVencimiento: diaVencimiento}
}

// Generar ejecuta la generación masiva del período.
//
// Idempotente: un socio que ya tiene cuota en el período se omite, no
// duplica ni falla. Errores por socio (ej. categoría sin tarifa) se
// acumulan en errores[] sin abortar al resto; errores sistémicos
// (tarifario vacío, fallo de precarga o transacción) abortan antes de
// escribir.
func (uc *GenerarCuotasUseCase) Generar(ctx context.Context, in dto.GenerarCuotasRequest) (*dto.GenerarCuotasResponse, error) {
	periodo := cuotas.Periodo{Mes: in.Mes, Anio: in.Anio}
	if err := periodo.Validar(); err != nil {
		return nil, err
	}
	inicio := time.Now()
	aplicarDescuentos := in.AplicarDescuentos == nil || *in.AplicarDescuentos

	datos, err := uc.precarga.Cargar(periodo, in.Categorias)
	if err != nil {
		return nil, err
	}

	resp := &dto.GenerarCuotasResponse{Errores: []dto.ErrorSocioDTO{}}
	ahora := time.Now()
	var vencimiento *time.Time
	if uc.diaVencimiento > 0 {
		v := time.Date(periodo.Anio, time.Month(periodo.Mes), uc.diaVencimiento, 0, 0, 0, 0, time.UTC)
		vencimiento = &v
	}
	var borradores []*cuotas.CuotaBorrador
	for _, socio := range datos.Socios {
		if datos.CuotasExistentes[socio.ID] {
			resp.Omitidas++
			continue
		}
		snap, err := datos.Snapshot(socio)
		if err != nil {
			resp.Errores = append(resp.Errores, dto.ErrorSocioDTO{SocioID: socio.ID, Motivo: err.Error()})
			continue
		}
		b := cuotas.Componer(snap, periodo, datos.Reglas, datos.Resolucion(socio.ID), aplicarDescuentos, ahora)
		b.Cuota.Observaciones = in.Notas
		b.Cuota.FechaVencimiento = vencimiento
		resp.Advertencias = append(resp.Advertencias, b.Advertencias...)
		borradores = append(borradores, b)
	}

	consultas := datos.Consultas
	generadas, omitidas, errores, escrituras, err := uc.persistir(ctx, periodo, borradores)
	if err != nil {
		return nil, err
	}
	resp.Generadas = generadas
	resp.Omitidas += omitidas
	resp.Errores = append(resp.Errores, errores...)

	resp.Performance = dto.PerformanceDTO{
		SociosProcesados:    len(datos.Socios),
		DuracionMs:          time.Since(inicio).Milliseconds(),
		ConsultasEjecutadas: consultas + escrituras,
	}
	uc.log.Info().
		Str("periodo", periodo.String()).
		Int("generadas", resp.Generadas).
		Int("omitidas", resp.Omitidas).
		Int("errores", len(resp.Errores)).
		Int64("duracion_ms", resp.Performance.DuracionMs).
		Msg("generación de cuotas finalizada")
	return resp, nil
}

// persistir escribe los borradores por chunks. Cada chunk es una
// transacción; si la transacción del chunk falla por algo que no sea el
// lock del período, se reintenta socio por socio registrando qué socios
// fallaron y por qué, sin frenar a los que sí pueden persistirse.
// escrituras cuenta solo las sentencias de transacciones confirmadas.
func (uc *GenerarCuotasUseCase) persistir(ctx context.Context, periodo cuotas.Periodo, borradores []*cuotas.CuotaBorrador) (generadas, omitidas int, errores []dto.ErrorSocioDTO, escrituras int, err error) {
	for desde := 0; desde < len(borradores); desde += uc.chunkSize {
		hasta := desde + uc.chunkSize
		if hasta > len(borradores) {
			hasta = len(borradores)
		}
		chunk := borradores[desde:hasta]

		g, o, e := 0, 0, 0
		errTx := uc.txRunner.RunCuotas(ctx, periodo, func(cuotaRepo repository.CuotaRepository, _ repository.ReciboRepository, _ repository.HistorialRepository) error {
			g, o, e = 0, 0, 0
			for _, b := range chunk {
				dup, escr, errP := persistirBorrador(cuotaRepo, b)
				if errP != nil {
					return errP
				}
				e += escr
				if dup {
					o++
				} else {
					g++
				}
			}
			return nil
		})
		if errTx == nil {
			generadas += g
			omitidas += o
			escrituras += e
			continue
		}
		if errors.Is(errTx, domain.ErrPeriodoBloqueado) {
			err = errTx
			return
		}
		uc.log.Warn().Err(errTx).
			Str("periodo", periodo.String()).
			Int("chunk_desde", desde).
			Msg("transacción de chunk rechazada; reintento socio por socio")

		// Aislamiento por socio: cada borrador en su propia transacción.
		for _, b := range chunk {
			var dup bool
			var escr int
			errUno := uc.txRunner.RunCuotas(ctx, periodo, func(cuotaRepo repository.CuotaRepository, _ repository.ReciboRepository, _ repository.HistorialRepository) error {
				var errP error
				dup, escr, errP = persistirBorrador(cuotaRepo, b)
				return errP
			})
			switch {
			case errUno == nil && dup:
				omitidas++
				escrituras += escr
			case errUno == nil:
				generadas++
				escrituras += escr
			case errors.Is(errUno, domain.ErrPeriodoBloqueado):
				err = errUno
				return
			default:
				errores = append(errores, dto.ErrorSocioDTO{SocioID: b.Cuota.SocioID, Motivo: errUno.Error()})
			}
		}
	}
	return
}

// persistirBorrador inserta la cuota y sus ítems. Una violación de
// unicidad (socio, período) es una omisión idempotente, no un error.
// escrituras informa las sentencias ejecutadas (1 para un duplicado: el
// INSERT que chocó con el índice; cuota + ítems en el caso normal).
func persistirBorrador(cuotaRepo repository.CuotaRepository, b *cuotas.CuotaBorrador) (duplicada bool, escrituras int, err error) {
	c := b.Cuota
	c.ID = uuid.New().String()
	now := time.Now()
	c.CreatedAt, c.UpdatedAt = now, now
	if err := cuotaRepo.Create(&c); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return true, 1, nil
		}
		return false, 0, fmt.Errorf("socio %s: %w", c.SocioID, err)
	}
	for i := range b.Items {
		it := b.Items[i]
		it.ID = uuid.New().String()
		it.CuotaID = c.ID
		it.CreatedAt = now
		if err := cuotaRepo.CreateItem(&it); err != nil {
			return false, 0, fmt.Errorf("socio %s: ítem %s: %w", c.SocioID, it.Concepto, err)
		}
	}
	return false, 1 + len(b.Items), nil
}
