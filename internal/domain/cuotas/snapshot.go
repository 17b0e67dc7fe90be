package cuotas

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// ActividadSnapshot es una inscripción valorizada dentro del snapshot.
type ActividadSnapshot struct {
	InscripcionID string
	ActividadID   string
	Nombre        string
	Precio        decimal.Decimal
}

// SocioSnapshot es la foto inmutable del socio contra la que se evalúan
// reglas y se compone la cuota. Se captura una sola vez al inicio del
// batch: nunca se evalúa contra datos mutados a mitad de la corrida.
type SocioSnapshot struct {
	SocioID         string
	NombreCompleto  string
	CategoriaID     string
	CategoriaCodigo string
	CategoriaNombre string
	CuotaBase       decimal.Decimal
	Edad            int // años cumplidos al inicio del período
	AntiguedadAnios int // años desde la fecha de alta al inicio del período
	Actividades     []ActividadSnapshot
}

// NuevoSnapshot arma el snapshot de un socio con su categoría e
// inscripciones vigentes en el período.
func NuevoSnapshot(socio *entity.Socio, cat *entity.Categoria, inscripciones []*entity.InscripcionActividad, actividades map[string]*entity.Actividad, periodo Periodo) SocioSnapshot {
	ref := periodo.Inicio()
	snap := SocioSnapshot{
		SocioID:         socio.ID,
		NombreCompleto:  socio.Apellido + ", " + socio.Nombre,
		CategoriaID:     cat.ID,
		CategoriaCodigo: cat.Codigo,
		CategoriaNombre: cat.Nombre,
		CuotaBase:       cat.CuotaBase,
		Edad:            aniosEntre(socio.FechaNacimiento, ref),
		AntiguedadAnios: aniosEntre(socio.FechaAlta, ref),
	}
	for _, ins := range inscripciones {
		if !ins.VigenteEn(periodo.Inicio(), periodo.Fin()) {
			continue
		}
		act := actividades[ins.ActividadID]
		if act == nil {
			continue
		}
		precio := ins.Precio
		if precio.IsZero() {
			precio = act.PrecioMensual
		}
		snap.Actividades = append(snap.Actividades, ActividadSnapshot{
			InscripcionID: ins.ID,
			ActividadID:   act.ID,
			Nombre:        act.Nombre,
			Precio:        precio,
		})
	}
	return snap
}

// TotalActividades suma los aranceles de las inscripciones del snapshot.
func (s SocioSnapshot) TotalActividades() decimal.Decimal {
	total := decimal.Zero
	for _, a := range s.Actividades {
		total = total.Add(a.Precio)
	}
	return total
}

// Variables expone el snapshot como mapa para condiciones EXPRESION
// (JsonLogic). Las claves son el contrato público de las reglas.
func (s SocioSnapshot) Variables() map[string]interface{} {
	ids := make([]interface{}, 0, len(s.Actividades))
	for _, a := range s.Actividades {
		ids = append(ids, a.ActividadID)
	}
	base, _ := s.CuotaBase.Float64()
	return map[string]interface{}{
		"socio": map[string]interface{}{
			"id":         s.SocioID,
			"categoria":  s.CategoriaCodigo,
			"edad":       s.Edad,
			"antiguedad": s.AntiguedadAnios,
		},
		"cuotaBase":       base,
		"actividades":     ids,
		"cantActividades": len(s.Actividades),
	}
}

// aniosEntre cuenta años cumplidos entre dos fechas.
func aniosEntre(desde, hasta time.Time) int {
	if desde.IsZero() || desde.After(hasta) {
		return 0
	}
	anios := hasta.Year() - desde.Year()
	aniv := desde.AddDate(anios, 0, 0)
	if aniv.After(hasta) {
		anios--
	}
	return anios
}
