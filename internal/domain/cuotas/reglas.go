package cuotas

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// ReglaAplicada es el efecto calculado de una regla sobre el snapshot.
// Delta es el monto con signo (negativo = descuento) que la composición
// materializa como ítem AJUSTE.
type ReglaAplicada struct {
	ReglaID string
	Nombre  string
	Efecto  entity.EfectoRegla
	Delta   decimal.Decimal
	Formula string
}

// ResultadoReglas es la salida del evaluador: reglas aplicadas en orden y
// advertencias por definiciones malformadas (nunca fatales).
type ResultadoReglas struct {
	Aplicadas    []ReglaAplicada
	Advertencias []string
}

// EvaluarReglas evalúa las reglas de descuento contra el snapshot del socio.
// Función pura: sin efectos secundarios.
//
// Orden de evaluación: campo Orden ascendente, empates por ID ascendente.
// Todas las reglas que coinciden aplican, salvo que una regla Exclusiva
// coincida: en ese caso la evaluación se corta ahí (las coincidencias
// anteriores se conservan; política documentada: la exclusiva siempre gana
// sobre lo que venga después).
//
// Los deltas porcentuales se calculan en cadena sobre el subtotal vigente
// del alcance de cada efecto, partiendo de base y actividades del snapshot.
func EvaluarReglas(snap SocioSnapshot, periodo Periodo, reglas []*entity.ReglaDescuento) ResultadoReglas {
	ordenadas := make([]*entity.ReglaDescuento, 0, len(reglas))
	for _, r := range reglas {
		if r != nil && r.Activa {
			ordenadas = append(ordenadas, r)
		}
	}
	sort.SliceStable(ordenadas, func(i, j int) bool {
		if ordenadas[i].Orden != ordenadas[j].Orden {
			return ordenadas[i].Orden < ordenadas[j].Orden
		}
		return ordenadas[i].ID < ordenadas[j].ID
	})

	st := nuevosSubtotales(snap)
	var out ResultadoReglas
	for _, r := range ordenadas {
		if !reglaAlcanzaSocio(r, snap) {
			continue
		}
		ok, err := cumpleCondicion(r.Condicion, snap)
		if err != nil {
			out.Advertencias = append(out.Advertencias,
				fmt.Sprintf("regla %s (%s) omitida: %v", r.ID, r.Nombre, err))
			continue
		}
		if !ok {
			continue
		}
		delta, formula, err := st.calcularEfecto(r.Efecto)
		if err != nil {
			out.Advertencias = append(out.Advertencias,
				fmt.Sprintf("regla %s (%s) omitida: %v", r.ID, r.Nombre, err))
			continue
		}
		st.aplicar(delta, r.Efecto.AplicaA, nil)
		out.Aplicadas = append(out.Aplicadas, ReglaAplicada{
			ReglaID: r.ID,
			Nombre:  r.Nombre,
			Efecto:  r.Efecto,
			Delta:   delta,
			Formula: formula,
		})
		if r.Exclusiva {
			break
		}
	}
	return out
}

// reglaAlcanzaSocio verifica el alcance declarado de la regla.
func reglaAlcanzaSocio(r *entity.ReglaDescuento, snap SocioSnapshot) bool {
	switch r.Alcance {
	case entity.ReglaGlobal, "":
		return true
	case entity.ReglaCategoria:
		return r.AlcanceRef == snap.CategoriaID || r.AlcanceRef == snap.CategoriaCodigo
	case entity.ReglaSocio:
		return r.AlcanceRef == snap.SocioID
	default:
		return false
	}
}
