package cuotas

import (
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// ResolucionAjustes es la salida del resolutor: ajustes manuales vigentes
// para el período y, si existe, la exención computable de mayor prioridad.
type ResolucionAjustes struct {
	Ajustes  []*entity.AjusteCuotaSocio
	Exencion *entity.Exencion
}

// ResolverAjustes filtra los ajustes manuales y exenciones de un socio que
// están vigentes en el período. Función pura sobre datos precargados:
// selecciona ajustes con activo=true cuya ventana [fechaInicio, fechaFin]
// se superpone con el período, y la única exención APROBADA/VIGENTE de
// mayor prioridad (empates por ID ascendente, determinista).
func ResolverAjustes(periodo Periodo, ajustes []*entity.AjusteCuotaSocio, exenciones []*entity.Exencion) ResolucionAjustes {
	inicio, fin := periodo.Inicio(), periodo.Fin()

	var res ResolucionAjustes
	for _, a := range ajustes {
		if a != nil && a.VigenteEn(inicio, fin) {
			res.Ajustes = append(res.Ajustes, a)
		}
	}
	for _, e := range exenciones {
		if e == nil || !e.Computable() || !e.VigenteEn(inicio, fin) {
			continue
		}
		if res.Exencion == nil ||
			e.Prioridad > res.Exencion.Prioridad ||
			(e.Prioridad == res.Exencion.Prioridad && e.ID < res.Exencion.ID) {
			res.Exencion = e
		}
	}
	return res
}
