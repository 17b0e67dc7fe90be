package cuotas

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

var cien = decimal.NewFromInt(100)

// subtotales es el estado de composición: subtotal de la cuota base y de
// cada actividad, con atribución proporcional de los deltas aplicados.
// Los deltas llegan ya redondeados a 2 decimales (una sola vez, al cierre
// del cálculo de cada efecto), de modo que el estado siempre coincide con
// la suma de los ítems materializados.
type subtotales struct {
	base         decimal.Decimal
	porActividad map[string]decimal.Decimal
	ordenAct     []string
}

func nuevosSubtotales(snap SocioSnapshot) *subtotales {
	st := &subtotales{
		base:         snap.CuotaBase.Round(2),
		porActividad: make(map[string]decimal.Decimal, len(snap.Actividades)),
	}
	for _, a := range snap.Actividades {
		st.porActividad[a.ActividadID] = st.porActividad[a.ActividadID].Add(a.Precio.Round(2))
		st.ordenAct = append(st.ordenAct, a.ActividadID)
	}
	return st
}

func (s *subtotales) actividades() decimal.Decimal {
	total := decimal.Zero
	for _, id := range s.ordenAct {
		total = total.Add(s.porActividad[id])
	}
	return total
}

func (s *subtotales) total() decimal.Decimal {
	return s.base.Add(s.actividades())
}

// alcance devuelve el subtotal vigente del alcance indicado.
func (s *subtotales) alcance(aplicaA string, items []string) decimal.Decimal {
	switch aplicaA {
	case entity.AlcanceSoloBase:
		return s.base
	case entity.AlcanceSoloActividades:
		return s.actividades()
	case entity.AlcanceItemsEspecificos:
		total := decimal.Zero
		for _, id := range items {
			total = total.Add(s.porActividad[id])
		}
		return total
	default: // TODOS
		return s.total()
	}
}

// aplicar suma un delta al alcance, distribuyéndolo proporcionalmente
// entre sus componentes (precisión completa en la distribución interna).
// Un alcance con subtotal cero atribuye el delta a la base.
func (s *subtotales) aplicar(delta decimal.Decimal, aplicaA string, items []string) {
	if delta.IsZero() {
		return
	}
	switch aplicaA {
	case entity.AlcanceSoloBase:
		s.base = s.base.Add(delta)
	case entity.AlcanceSoloActividades:
		s.repartir(delta, s.ordenAct)
	case entity.AlcanceItemsEspecificos:
		s.repartir(delta, items)
	default: // TODOS
		total := s.total()
		if total.IsZero() {
			s.base = s.base.Add(delta)
			return
		}
		deltaBase := delta.Mul(s.base).Div(total)
		s.base = s.base.Add(deltaBase)
		s.repartir(delta.Sub(deltaBase), s.ordenAct)
	}
}

func (s *subtotales) repartir(delta decimal.Decimal, ids []string) {
	total := decimal.Zero
	for _, id := range ids {
		total = total.Add(s.porActividad[id])
	}
	if total.IsZero() {
		s.base = s.base.Add(delta)
		return
	}
	restante := delta
	for i, id := range ids {
		if i == len(ids)-1 {
			s.porActividad[id] = s.porActividad[id].Add(restante)
			break
		}
		parte := delta.Mul(s.porActividad[id]).Div(total)
		s.porActividad[id] = s.porActividad[id].Add(parte)
		restante = restante.Sub(parte)
	}
}

// calcularEfecto calcula el delta (con signo) del efecto de una regla
// sobre el subtotal vigente de su alcance. El delta se redondea a 2
// decimales una sola vez, al cierre del cálculo.
func (s *subtotales) calcularEfecto(ef entity.EfectoRegla) (decimal.Decimal, string, error) {
	scope := s.alcance(ef.AplicaA, nil)
	switch ef.Tipo {
	case entity.EfectoDescuentoFijo:
		d := ef.Valor.Round(2).Neg()
		return d, fmt.Sprintf("descuento fijo %s", ef.Valor.Round(2).StringFixed(2)), nil
	case entity.EfectoRecargoFijo:
		d := ef.Valor.Round(2)
		return d, fmt.Sprintf("recargo fijo %s", d.StringFixed(2)), nil
	case entity.EfectoDescuentoPorcentaje:
		d := scope.Mul(ef.Valor).Div(cien).Round(2).Neg()
		return d, fmt.Sprintf("%s%% sobre %s", ef.Valor.StringFixed(0), scope.StringFixed(2)), nil
	case entity.EfectoRecargoPorcentaje:
		d := scope.Mul(ef.Valor).Div(cien).Round(2)
		return d, fmt.Sprintf("%s%% sobre %s", ef.Valor.StringFixed(0), scope.StringFixed(2)), nil
	default:
		return decimal.Zero, "", fmt.Errorf("tipo de efecto desconocido: %q", ef.Tipo)
	}
}

// calcularAjuste calcula el delta de un ajuste manual sobre el subtotal
// vigente de su alcance.
func (s *subtotales) calcularAjuste(a *entity.AjusteCuotaSocio) (decimal.Decimal, string, error) {
	scope := s.alcance(a.AplicaA, a.ItemsAfectados)
	switch a.Tipo {
	case entity.AjusteDescuentoFijo:
		return a.Valor.Round(2).Neg(), fmt.Sprintf("descuento fijo %s", a.Valor.Round(2).StringFixed(2)), nil
	case entity.AjusteRecargoFijo:
		return a.Valor.Round(2), fmt.Sprintf("recargo fijo %s", a.Valor.Round(2).StringFixed(2)), nil
	case entity.AjusteDescuentoPorcentaje:
		d := scope.Mul(a.Valor).Div(cien).Round(2).Neg()
		return d, fmt.Sprintf("%s%% sobre %s", a.Valor.StringFixed(0), scope.StringFixed(2)), nil
	case entity.AjusteRecargoPorcentaje:
		d := scope.Mul(a.Valor).Div(cien).Round(2)
		return d, fmt.Sprintf("%s%% sobre %s", a.Valor.StringFixed(0), scope.StringFixed(2)), nil
	case entity.AjusteMontoFijoTotal:
		d := a.Valor.Round(2).Sub(s.total())
		return d, fmt.Sprintf("total fijado en %s", a.Valor.Round(2).StringFixed(2)), nil
	default:
		return decimal.Zero, "", fmt.Errorf("tipo de ajuste desconocido: %q", a.Tipo)
	}
}

// CuotaBorrador es la cuota compuesta aún sin persistir: cabecera, ítems,
// reglas aplicadas y advertencias no fatales.
type CuotaBorrador struct {
	Cuota           entity.Cuota
	Items           []entity.ItemCuota
	ReglasAplicadas []ReglaAplicada
	Advertencias    []string
}

// Componer arma la cuota de un socio para un período. Orden de aplicación
// fijo (sensible al orden por los efectos porcentuales):
//
//  1. cuota base de la categoría
//  2. aranceles de actividades (inscripciones vigentes)
//  3. reglas de descuento/recargo sobre el subtotal 1–2 (según alcance)
//  4. ajustes manuales sobre el subtotal post-reglas (según alcance)
//  5. exención: suprime lo que reste de su alcance declarado
//
// El total de la cuota es exactamente la suma de sus ítems.
// Con aplicarDescuentos=false se omite el paso 3; los ajustes manuales y
// exenciones del socio se honran siempre.
func Componer(snap SocioSnapshot, periodo Periodo, reglas []*entity.ReglaDescuento, res ResolucionAjustes, aplicarDescuentos bool, ahora time.Time) *CuotaBorrador {
	b := &CuotaBorrador{
		Cuota: entity.Cuota{
			SocioID:         snap.SocioID,
			Mes:             periodo.Mes,
			Anio:            periodo.Anio,
			FechaGeneracion: ahora,
		},
	}

	st := nuevosSubtotales(snap)

	// 1. Cuota base
	montoBase := snap.CuotaBase.Round(2)
	b.Items = append(b.Items, entity.ItemCuota{
		Tipo:     entity.ItemBase,
		OrigenID: snap.CategoriaID,
		Concepto: "Cuota social " + snap.CategoriaNombre,
		Monto:    montoBase,
	})

	// 2. Actividades
	montoActividades := decimal.Zero
	for _, a := range snap.Actividades {
		precio := a.Precio.Round(2)
		montoActividades = montoActividades.Add(precio)
		b.Items = append(b.Items, entity.ItemCuota{
			Tipo:     entity.ItemActividad,
			OrigenID: a.InscripcionID,
			Concepto: a.Nombre,
			Monto:    precio,
		})
	}

	// 3. Reglas de descuento/recargo
	montoAjustes := decimal.Zero
	if aplicarDescuentos {
		resultado := EvaluarReglas(snap, periodo, reglas)
		b.ReglasAplicadas = resultado.Aplicadas
		b.Advertencias = append(b.Advertencias, resultado.Advertencias...)
		for _, ra := range resultado.Aplicadas {
			st.aplicar(ra.Delta, ra.Efecto.AplicaA, nil)
			if ra.Delta.IsZero() {
				continue
			}
			montoAjustes = montoAjustes.Add(ra.Delta)
			b.Items = append(b.Items, entity.ItemCuota{
				Tipo:     entity.ItemAjuste,
				OrigenID: ra.ReglaID,
				Concepto: ra.Nombre,
				Monto:    ra.Delta,
				Formula:  ra.Formula,
			})
		}
	}

	// 4. Ajustes manuales (sobre el subtotal post-reglas, según alcance)
	for _, aj := range res.Ajustes {
		delta, formula, err := st.calcularAjuste(aj)
		if err != nil {
			b.Advertencias = append(b.Advertencias,
				fmt.Sprintf("ajuste %s omitido: %v", aj.ID, err))
			continue
		}
		st.aplicar(delta, aj.AplicaA, aj.ItemsAfectados)
		if delta.IsZero() {
			continue
		}
		montoAjustes = montoAjustes.Add(delta)
		b.Items = append(b.Items, entity.ItemCuota{
			Tipo:     entity.ItemManual,
			OrigenID: aj.ID,
			Concepto: aj.Concepto,
			Monto:    delta,
			Formula:  formula,
		})
	}

	// 5. Exención: anula lo que reste de su alcance
	if e := res.Exencion; e != nil {
		delta := st.alcance(e.AplicaA, nil).Neg()
		st.aplicar(delta, e.AplicaA, nil)
		if !delta.IsZero() {
			montoAjustes = montoAjustes.Add(delta)
			b.Items = append(b.Items, entity.ItemCuota{
				Tipo:     entity.ItemManual,
				OrigenID: e.ID,
				Concepto: "Exención: " + e.Motivo,
				Monto:    delta,
				Formula:  "exención " + e.AplicaA,
			})
		}
	}

	b.Cuota.MontoBase = montoBase
	b.Cuota.MontoActividades = montoActividades
	b.Cuota.MontoAjustes = montoAjustes
	b.Cuota.MontoTotal = montoBase.Add(montoActividades).Add(montoAjustes)
	return b
}
