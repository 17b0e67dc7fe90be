package facturacion

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
	"github.com/tu-usuario/club-socios/pkg/logger"
)

// AjusteMasivoUseCase aplica un cambio descripto (descuento, recargo o
// edición de ítems) sobre un conjunto filtrado de cuotas ya generadas.
//
// PREVIEW y APLICAR comparten una única función de cálculo puro; APLICAR
// solo agrega el commit. Es estructuralmente imposible que el número del
// preview difiera del aplicado para el mismo input.
type AjusteMasivoUseCase struct {
	cuotaRepo     repository.CuotaRepository
	socioRepo     repository.SocioRepository
	actividadRepo repository.ActividadRepository
	txRunner      CuotasTxRunner
	log           *logger.Logger
}

// NewAjusteMasivoUseCase construye el caso de uso.
func NewAjusteMasivoUseCase(
	cuotaRepo repository.CuotaRepository,
	socioRepo repository.SocioRepository,
	actividadRepo repository.ActividadRepository,
	txRunner CuotasTxRunner,
	log *logger.Logger,
) *AjusteMasivoUseCase {
	return &AjusteMasivoUseCase{
		cuotaRepo:     cuotaRepo,
		socioRepo:     socioRepo,
		actividadRepo: actividadRepo,
		txRunner:      txRunner,
		log:           log,
	}
}

// cambioCalculado es el efecto ya calculado sobre una cuota: el ítem
// nuevo a insertar o los ítems editados, y la cuota con montos nuevos.
type cambioCalculado struct {
	cuota         entity.Cuota // copia con montos actualizados
	nuevoItem     *entity.ItemCuota
	itemsEditados []entity.ItemCuota
	totalAnterior decimal.Decimal
	delta         decimal.Decimal
}

// Aplicar ejecuta el ajuste masivo en el modo pedido. Un errores[] no
// vacío fuerza exito=false incluso en PREVIEW: el preview existe para
// atajar filtros o cambios inválidos antes de comprometerse.
func (uc *AjusteMasivoUseCase) Aplicar(ctx context.Context, usuario string, in dto.AjusteMasivoRequest) (*dto.AjusteMasivoResponse, error) {
	cambios, itemsAfectados, impacto, errores, err := uc.calcular(in.Filtro, in.Cambio)
	if err != nil {
		return nil, err
	}
	resp := &dto.AjusteMasivoResponse{
		Modo:             in.Modo,
		CuotasAfectadas:  len(cambios),
		ItemsAfectados:   itemsAfectados,
		ImpactoEconomico: impacto,
		Errores:          errores,
		Exito:            len(errores) == 0,
	}
	if in.Modo != dto.ModoAplicar || !resp.Exito || len(cambios) == 0 {
		return resp, nil
	}
	motivo := in.Cambio.Concepto
	if motivo == "" {
		motivo = "ajuste masivo"
	}
	if err := uc.commit(ctx, cuotas.Periodo{Mes: in.Filtro.Mes, Anio: in.Filtro.Anio}, cambios, usuario, motivo); err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("modo", in.Modo).
		Int("cuotas", resp.CuotasAfectadas).
		Str("impacto", impacto.StringFixed(2)).
		Msg("ajuste masivo aplicado")
	return resp, nil
}

// DescuentoGlobal aplica (o previsualiza) un descuento a todas las cuotas
// del período. Reusa el mismo cálculo que el ajuste masivo.
func (uc *AjusteMasivoUseCase) DescuentoGlobal(ctx context.Context, usuario string, in dto.DescuentoGlobalRequest) (*dto.DescuentoGlobalResponse, error) {
	tipo := dto.CambioDescuentoFijo
	if in.TipoDescuento == "PORCENTAJE" {
		tipo = dto.CambioDescuentoPorcentaje
	}
	res, err := uc.Aplicar(ctx, usuario, dto.AjusteMasivoRequest{
		Modo:   in.Modo,
		Filtro: dto.FiltroCuotasDTO{Mes: in.Mes, Anio: in.Anio},
		Cambio: dto.CambioMasivoDTO{Tipo: tipo, Valor: in.Valor, Concepto: "Descuento global " + in.Valor.StringFixed(2)},
	})
	if err != nil {
		return nil, err
	}
	return &dto.DescuentoGlobalResponse{
		CuotasAfectadas: res.CuotasAfectadas,
		DescuentoTotal:  res.ImpactoEconomico.Neg(),
		Errores:         res.Errores,
	}, nil
}

// ActualizarMasivo actualiza campos no monetarios de un lote de cuotas
// por lista de IDs.
func (uc *AjusteMasivoUseCase) ActualizarMasivo(ctx context.Context, in dto.ActualizacionMasivaRequest) (*dto.ActualizacionMasivaResponse, error) {
	if len(in.CuotaIDs) == 0 {
		return nil, fmt.Errorf("%w: cuotaIds vacío", domain.ErrInvalidInput)
	}
	if in.Updates.Observaciones == nil && in.Updates.FechaVencimiento == nil {
		return nil, fmt.Errorf("%w: updates sin campos", domain.ErrInvalidInput)
	}
	count, err := uc.cuotaRepo.UpdateMasivo(in.CuotaIDs, in.Updates.Observaciones, in.Updates.FechaVencimiento)
	if err != nil {
		return nil, err
	}
	return &dto.ActualizacionMasivaResponse{UpdatedCount: count}, nil
}

// calcular es el cálculo puro compartido por PREVIEW y APLICAR: resuelve
// el conjunto filtrado, computa el efecto por cuota y acumula el impacto
// económico, sin escribir nada.
func (uc *AjusteMasivoUseCase) calcular(filtro dto.FiltroCuotasDTO, cambio dto.CambioMasivoDTO) ([]cambioCalculado, int, decimal.Decimal, []string, error) {
	var errores []string
	periodo := cuotas.Periodo{Mes: filtro.Mes, Anio: filtro.Anio}
	if err := periodo.Validar(); err != nil {
		errores = append(errores, err.Error())
	}
	if cambio.Valor.IsNegative() {
		errores = append(errores, "valor: no puede ser negativo")
	}
	esPorcentaje := cambio.Tipo == dto.CambioDescuentoPorcentaje || cambio.Tipo == dto.CambioRecargoPorcentaje
	if esPorcentaje && cambio.Valor.GreaterThan(decimal.NewFromInt(100)) {
		errores = append(errores, "valor: porcentaje mayor a 100")
	}
	if cambio.Tipo == dto.CambioPrecioItem && cambio.ActividadID == "" {
		errores = append(errores, "actividadId: requerido para PRECIO_ITEM")
	}
	if len(errores) > 0 {
		return nil, 0, decimal.Zero, errores, nil
	}

	todas, err := uc.cuotaRepo.ListByPeriodo(filtro.Mes, filtro.Anio)
	if err != nil {
		return nil, 0, decimal.Zero, nil, fmt.Errorf("listar cuotas del período: %w", err)
	}
	objetivo, err := uc.filtrar(todas, filtro)
	if err != nil {
		return nil, 0, decimal.Zero, nil, err
	}
	if len(objetivo) == 0 {
		errores = append(errores, fmt.Sprintf("el filtro no alcanza ninguna cuota de %s", periodo))
		return nil, 0, decimal.Zero, errores, nil
	}

	if cambio.Tipo == dto.CambioPrecioItem {
		return uc.calcularPrecioItem(periodo, objetivo, cambio)
	}

	var cambios []cambioCalculado
	impacto := decimal.Zero
	for _, c := range objetivo {
		delta := deltaSobreCuota(c, cambio)
		if delta.IsZero() {
			continue
		}
		nuevo := *c
		nuevo.MontoAjustes = nuevo.MontoAjustes.Add(delta)
		nuevo.MontoTotal = nuevo.MontoTotal.Add(delta)
		concepto := cambio.Concepto
		if concepto == "" {
			concepto = "Ajuste masivo"
		}
		cambios = append(cambios, cambioCalculado{
			cuota:         nuevo,
			totalAnterior: c.MontoTotal,
			delta:         delta,
			nuevoItem: &entity.ItemCuota{
				CuotaID:  c.ID,
				Tipo:     entity.ItemManual,
				Concepto: concepto,
				Monto:    delta,
				Formula:  formulaCambio(c, cambio),
			},
		})
		impacto = impacto.Add(delta)
	}
	return cambios, len(cambios), impacto, nil, nil
}

// calcularPrecioItem repone el monto de los ítems ACTIVIDAD de una
// actividad puntual en todas las cuotas filtradas.
func (uc *AjusteMasivoUseCase) calcularPrecioItem(periodo cuotas.Periodo, objetivo []*entity.Cuota, cambio dto.CambioMasivoDTO) ([]cambioCalculado, int, decimal.Decimal, []string, error) {
	items, err := uc.cuotaRepo.ListItemsByPeriodo(periodo.Mes, periodo.Anio)
	if err != nil {
		return nil, 0, decimal.Zero, nil, fmt.Errorf("listar ítems del período: %w", err)
	}
	inscripciones, err := uc.actividadRepo.ListInscripcionesVigentes(periodo.Inicio(), periodo.Fin())
	if err != nil {
		return nil, 0, decimal.Zero, nil, fmt.Errorf("listar inscripciones: %w", err)
	}
	actividadDeInscripcion := make(map[string]string, len(inscripciones))
	for _, ins := range inscripciones {
		actividadDeInscripcion[ins.ID] = ins.ActividadID
	}
	itemsPorCuota := make(map[string][]*entity.ItemCuota)
	for _, it := range items {
		itemsPorCuota[it.CuotaID] = append(itemsPorCuota[it.CuotaID], it)
	}

	nuevoPrecio := cambio.Valor.Round(2)
	var cambios []cambioCalculado
	itemsAfectados := 0
	impacto := decimal.Zero
	for _, c := range objetivo {
		var editados []entity.ItemCuota
		deltaCuota := decimal.Zero
		for _, it := range itemsPorCuota[c.ID] {
			if it.Tipo != entity.ItemActividad || actividadDeInscripcion[it.OrigenID] != cambio.ActividadID {
				continue
			}
			delta := nuevoPrecio.Sub(it.Monto)
			if delta.IsZero() {
				continue
			}
			ed := *it
			ed.Monto = nuevoPrecio
			editados = append(editados, ed)
			deltaCuota = deltaCuota.Add(delta)
		}
		if len(editados) == 0 {
			continue
		}
		nuevo := *c
		nuevo.MontoActividades = nuevo.MontoActividades.Add(deltaCuota)
		nuevo.MontoTotal = nuevo.MontoTotal.Add(deltaCuota)
		cambios = append(cambios, cambioCalculado{
			cuota:         nuevo,
			totalAnterior: c.MontoTotal,
			delta:         deltaCuota,
			itemsEditados: editados,
		})
		itemsAfectados += len(editados)
		impacto = impacto.Add(deltaCuota)
	}
	return cambios, itemsAfectados, impacto, nil, nil
}

// filtrar acota las cuotas del período al filtro pedido. El filtro por
// categorías se resuelve con una sola consulta de socios.
func (uc *AjusteMasivoUseCase) filtrar(todas []*entity.Cuota, filtro dto.FiltroCuotasDTO) ([]*entity.Cuota, error) {
	permitidos := map[string]bool{}
	restringe := false
	if len(filtro.SocioIDs) > 0 {
		restringe = true
		for _, id := range filtro.SocioIDs {
			permitidos[id] = true
		}
	} else if len(filtro.Categorias) > 0 {
		restringe = true
		socios, err := uc.socioRepo.ListActivos(filtro.Categorias)
		if err != nil {
			return nil, fmt.Errorf("resolver filtro de categorías: %w", err)
		}
		for _, s := range socios {
			permitidos[s.ID] = true
		}
	}
	if !restringe {
		return todas, nil
	}
	var out []*entity.Cuota
	for _, c := range todas {
		if permitidos[c.SocioID] {
			out = append(out, c)
		}
	}
	return out, nil
}

// commit persiste los cambios calculados en una transacción, con entrada
// de auditoría por cuota.
func (uc *AjusteMasivoUseCase) commit(ctx context.Context, periodo cuotas.Periodo, cambios []cambioCalculado, usuario, motivo string) error {
	now := time.Now()
	return uc.txRunner.RunCuotas(ctx, periodo, func(cuotaRepo repository.CuotaRepository, _ repository.ReciboRepository, historialRepo repository.HistorialRepository) error {
		for i := range cambios {
			cb := &cambios[i]
			if cb.nuevoItem != nil {
				it := *cb.nuevoItem
				it.ID = uuid.New().String()
				it.CreatedAt = now
				if err := cuotaRepo.CreateItem(&it); err != nil {
					return fmt.Errorf("cuota %s: %w", cb.cuota.ID, err)
				}
			}
			for j := range cb.itemsEditados {
				if err := cuotaRepo.UpdateItem(&cb.itemsEditados[j]); err != nil {
					return fmt.Errorf("cuota %s: ítem %s: %w", cb.cuota.ID, cb.itemsEditados[j].ID, err)
				}
			}
			cb.cuota.UpdatedAt = now
			if err := cuotaRepo.UpdateMontos(&cb.cuota); err != nil {
				return fmt.Errorf("cuota %s: %w", cb.cuota.ID, err)
			}
			if err := historialRepo.Append(&entity.HistorialAjusteCuota{
				ID:             uuid.New().String(),
				CuotaID:        cb.cuota.ID,
				Accion:         entity.HistorialAplicado,
				EstadoAnterior: fmt.Sprintf(`{"montoTotal":"%s"}`, cb.totalAnterior.StringFixed(2)),
				EstadoNuevo:    fmt.Sprintf(`{"montoTotal":"%s"}`, cb.cuota.MontoTotal.StringFixed(2)),
				Usuario:        usuario,
				Motivo:         motivo,
				CreatedAt:      now,
			}); err != nil {
				return fmt.Errorf("historial cuota %s: %w", cb.cuota.ID, err)
			}
		}
		return nil
	})
}

// deltaSobreCuota calcula el delta (con signo) de un descuento/recargo
// sobre el subtotal del alcance en una cuota ya generada. Los descuentos
// se acotan al subtotal del alcance y además al total vigente de la
// cuota, para no dejar totales negativos: una cuota con ajustes previos
// muy negativos puede tener un total menor que su subtotal de alcance.
func deltaSobreCuota(c *entity.Cuota, cambio dto.CambioMasivoDTO) decimal.Decimal {
	scope := c.MontoTotal
	switch cambio.AplicaA {
	case entity.AlcanceSoloBase:
		scope = c.MontoBase
	case entity.AlcanceSoloActividades:
		scope = c.MontoActividades
	}
	tope := c.MontoTotal
	if tope.IsNegative() {
		tope = decimal.Zero
	}
	switch cambio.Tipo {
	case dto.CambioDescuentoFijo:
		d := cambio.Valor.Round(2)
		if d.GreaterThan(scope) {
			d = scope
		}
		if d.GreaterThan(tope) {
			d = tope
		}
		return d.Neg()
	case dto.CambioRecargoFijo:
		return cambio.Valor.Round(2)
	case dto.CambioDescuentoPorcentaje:
		d := scope.Mul(cambio.Valor).Div(cienDecimal).Round(2)
		if d.GreaterThan(tope) {
			d = tope
		}
		return d.Neg()
	case dto.CambioRecargoPorcentaje:
		return scope.Mul(cambio.Valor).Div(cienDecimal).Round(2)
	}
	return decimal.Zero
}

func formulaCambio(c *entity.Cuota, cambio dto.CambioMasivoDTO) string {
	switch cambio.Tipo {
	case dto.CambioDescuentoPorcentaje, dto.CambioRecargoPorcentaje:
		return fmt.Sprintf("%s%% sobre %s", cambio.Valor.StringFixed(0), c.MontoTotal.StringFixed(2))
	default:
		return "monto fijo " + cambio.Valor.Round(2).StringFixed(2)
	}
}
