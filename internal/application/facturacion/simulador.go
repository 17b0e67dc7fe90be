package facturacion

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// SimuladorCuotas corre el mismo pipeline de composición que la
// generación real pero nunca escribe: sin estado entre llamadas, seguro
// de correr en paralelo con una generación real.
type SimuladorCuotas struct {
	precarga *PrecargaDatos
}

// NewSimuladorCuotas construye el simulador.
func NewSimuladorCuotas(precarga *PrecargaDatos) *SimuladorCuotas {
	return &SimuladorCuotas{precarga: precarga}
}

// SimularGeneracion previsualiza una generación completa del período.
func (s *SimuladorCuotas) SimularGeneracion(ctx context.Context, in dto.SimularGeneracionRequest) (*dto.SimulacionResponse, error) {
	periodo := cuotas.Periodo{Mes: in.Mes, Anio: in.Anio}
	if err := periodo.Validar(); err != nil {
		return nil, err
	}
	aplicar := in.AplicarDescuentos == nil || *in.AplicarDescuentos
	datos, err := s.precarga.Cargar(periodo, in.Categorias)
	if err != nil {
		return nil, err
	}
	resp, _ := simular(datos, aplicar, nil, "")
	return resp, nil
}

// SimularRegla proyecta el impacto de agregar o reemplazar una regla de
// descuento contra el padrón real, sin persistir la regla.
func (s *SimuladorCuotas) SimularRegla(ctx context.Context, in dto.SimularReglaRequest) (*dto.SimularReglaResponse, error) {
	periodo := cuotas.Periodo{Mes: in.Mes, Anio: in.Anio}
	if err := periodo.Validar(); err != nil {
		return nil, err
	}
	hipotetica, err := reglaFromDTO(in.Regla)
	if err != nil {
		return nil, err
	}
	datos, err := s.precarga.Cargar(periodo, nil)
	if err != nil {
		return nil, err
	}
	actual, _ := simular(datos, true, nil, "")
	hipotetico, _ := simular(datos, true, hipotetica, in.ReemplazaReglaID)
	return &dto.SimularReglaResponse{
		Actual:     *actual,
		Hipotetico: *hipotetico,
		Diferencia: hipotetico.TotalRecaudacion.Sub(actual.TotalRecaudacion),
	}, nil
}

// CompararEscenarios corre N escenarios nombrados y reporta el de mayor y
// menor recaudación proyectada.
func (s *SimuladorCuotas) CompararEscenarios(ctx context.Context, in dto.EscenariosRequest) (*dto.EscenariosResponse, error) {
	if len(in.Escenarios) < 2 {
		return nil, fmt.Errorf("%w: se requieren al menos 2 escenarios", domain.ErrInvalidInput)
	}
	resp := &dto.EscenariosResponse{}
	var mayor, menor decimal.Decimal
	for i, esc := range in.Escenarios {
		periodo := cuotas.Periodo{Mes: esc.Mes, Anio: esc.Anio}
		if err := periodo.Validar(); err != nil {
			return nil, fmt.Errorf("escenario %q: %w", esc.Nombre, err)
		}
		var extra *entity.ReglaDescuento
		if esc.Regla != nil {
			var err error
			extra, err = reglaFromDTO(*esc.Regla)
			if err != nil {
				return nil, fmt.Errorf("escenario %q: %w", esc.Nombre, err)
			}
		}
		datos, err := s.precarga.Cargar(periodo, esc.Categorias)
		if err != nil {
			return nil, fmt.Errorf("escenario %q: %w", esc.Nombre, err)
		}
		aplicar := esc.AplicarDescuentos == nil || *esc.AplicarDescuentos
		res, _ := simular(datos, aplicar, extra, "")
		resp.Resultados = append(resp.Resultados, dto.ResultadoEscenarioDTO{Nombre: esc.Nombre, Resultado: *res})

		if i == 0 || res.TotalRecaudacion.GreaterThan(mayor) {
			mayor = res.TotalRecaudacion
			resp.MayorRecaudacion = esc.Nombre
		}
		if i == 0 || res.TotalRecaudacion.LessThan(menor) {
			menor = res.TotalRecaudacion
			resp.MenorRecaudacion = esc.Nombre
		}
	}
	return resp, nil
}

// ProyectarImpactoMasivo proyecta un descuento/recargo global hipotético
// sobre todo el padrón activo del período.
func (s *SimuladorCuotas) ProyectarImpactoMasivo(ctx context.Context, in dto.ImpactoMasivoRequest) (*dto.ImpactoMasivoResponse, error) {
	periodo := cuotas.Periodo{Mes: in.Mes, Anio: in.Anio}
	if err := periodo.Validar(); err != nil {
		return nil, err
	}
	if in.TipoDescuento == "PORCENTAJE" && in.Valor.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: porcentaje mayor a 100", domain.ErrInvalidInput)
	}
	datos, err := s.precarga.Cargar(periodo, nil)
	if err != nil {
		return nil, err
	}

	resp := &dto.ImpactoMasivoResponse{Errores: []dto.ErrorSocioDTO{}}
	ahora := time.Now()
	for _, socio := range datos.Socios {
		snap, err := datos.Snapshot(socio)
		if err != nil {
			resp.Errores = append(resp.Errores, dto.ErrorSocioDTO{SocioID: socio.ID, Motivo: err.Error()})
			continue
		}
		b := cuotas.Componer(snap, periodo, datos.Reglas, datos.Resolucion(socio.ID), true, ahora)
		resp.SociosAlcanzados++
		resp.TotalActual = resp.TotalActual.Add(b.Cuota.MontoTotal)

		descuento := descuentoGlobalSobre(b.Cuota.MontoTotal, in.TipoDescuento, in.Valor)
		resp.DescuentoTotal = resp.DescuentoTotal.Add(descuento)
		resp.TotalProyectado = resp.TotalProyectado.Add(b.Cuota.MontoTotal.Sub(descuento))
	}
	return resp, nil
}

// simular compone todo el padrón en memoria y acumula totales. Nunca
// escribe. Con regla extra se agrega (o reemplaza reemplazaID) en el
// conjunto vigente.
func simular(datos *DatosReferencia, aplicarDescuentos bool, extra *entity.ReglaDescuento, reemplazaID string) (*dto.SimulacionResponse, []*cuotas.CuotaBorrador) {
	reglas := datos.Reglas
	if extra != nil {
		reglas = make([]*entity.ReglaDescuento, 0, len(datos.Reglas)+1)
		for _, r := range datos.Reglas {
			if reemplazaID != "" && r.ID == reemplazaID {
				continue
			}
			reglas = append(reglas, r)
		}
		reglas = append(reglas, extra)
	}

	resp := &dto.SimulacionResponse{Errores: []dto.ErrorSocioDTO{}}
	ahora := time.Now()
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
		b := cuotas.Componer(snap, datos.Periodo, reglas, datos.Resolucion(socio.ID), aplicarDescuentos, ahora)
		resp.Advertencias = append(resp.Advertencias, b.Advertencias...)
		resp.CuotasSimuladas++
		resp.TotalRecaudacion = resp.TotalRecaudacion.Add(b.Cuota.MontoTotal)
		for _, it := range b.Items {
			if it.Tipo != entity.ItemAjuste && it.Tipo != entity.ItemManual {
				continue
			}
			if it.Monto.IsNegative() {
				resp.TotalDescuentos = resp.TotalDescuentos.Add(it.Monto.Neg())
			} else {
				resp.TotalRecargos = resp.TotalRecargos.Add(it.Monto)
			}
		}
		borradores = append(borradores, b)
	}
	return resp, borradores
}

// descuentoGlobalSobre calcula el descuento (positivo) de un cambio
// global sobre un total. Mismo redondeo que el resto del motor: una sola
// vez por monto.
func descuentoGlobalSobre(total decimal.Decimal, tipo string, valor decimal.Decimal) decimal.Decimal {
	if tipo == "PORCENTAJE" {
		return total.Mul(valor).Div(cienDecimal).Round(2)
	}
	d := valor.Round(2)
	if d.GreaterThan(total) {
		return total
	}
	return d
}

var cienDecimal = decimal.NewFromInt(100)

// reglaFromDTO arma una regla hipotética desde el DTO de simulación.
func reglaFromDTO(in dto.ReglaDTO) (*entity.ReglaDescuento, error) {
	if in.EfectoTipo == "" || in.CondicionTipo == "" {
		return nil, fmt.Errorf("%w: la regla requiere condición y efecto", domain.ErrInvalidInput)
	}
	id := in.ID
	if id == "" {
		id = "regla-hipotetica"
	}
	aplicaA := in.EfectoAplicaA
	if aplicaA == "" {
		aplicaA = entity.AlcanceTodos
	}
	return &entity.ReglaDescuento{
		ID:         id,
		Nombre:     in.Nombre,
		Orden:      in.Orden,
		Alcance:    in.Alcance,
		AlcanceRef: in.AlcanceRef,
		Exclusiva:  in.Exclusiva,
		Activa:     true,
		Condicion: entity.CondicionRegla{
			Tipo:      in.CondicionTipo,
			Valor:     in.CondicionValor,
			Expresion: in.CondicionExpresion,
		},
		Efecto: entity.EfectoRegla{
			Tipo:    in.EfectoTipo,
			Valor:   in.EfectoValor,
			AplicaA: aplicaA,
		},
	}, nil
}
