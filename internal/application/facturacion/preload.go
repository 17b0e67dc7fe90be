package facturacion

import (
	"fmt"

	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

// DatosReferencia son los datos de referencia de un batch, precargados una
// sola vez e indexados por socio. Que exista este struct es lo que vuelve
// estructural el requisito de performance: componer una cuota no dispara
// ninguna consulta, todo sale de estos mapas.
type DatosReferencia struct {
	Periodo               cuotas.Periodo
	Socios                []*entity.Socio
	Categorias            map[string]*entity.Categoria
	Actividades           map[string]*entity.Actividad
	InscripcionesPorSocio map[string][]*entity.InscripcionActividad
	AjustesPorSocio       map[string][]*entity.AjusteCuotaSocio
	ExencionesPorSocio    map[string][]*entity.Exencion
	Reglas                []*entity.ReglaDescuento
	CuotasExistentes      map[string]bool // socios que ya tienen cuota en el período
	Consultas             int             // consultas ejecutadas en la precarga
}

// Snapshot arma el snapshot inmutable de un socio desde los datos
// precargados. Un socio sin tarifa de categoría es un error por socio,
// no fatal.
func (d *DatosReferencia) Snapshot(socio *entity.Socio) (cuotas.SocioSnapshot, error) {
	cat := d.Categorias[socio.CategoriaID]
	if cat == nil {
		return cuotas.SocioSnapshot{}, fmt.Errorf("socio %s: categoría %q sin tarifa", socio.ID, socio.CategoriaID)
	}
	return cuotas.NuevoSnapshot(socio, cat, d.InscripcionesPorSocio[socio.ID], d.Actividades, d.Periodo), nil
}

// Resolucion filtra ajustes y exención vigentes del socio para el período.
func (d *DatosReferencia) Resolucion(socioID string) cuotas.ResolucionAjustes {
	return cuotas.ResolverAjustes(d.Periodo, d.AjustesPorSocio[socioID], d.ExencionesPorSocio[socioID])
}

// PrecargaDatos construye DatosReferencia con un número fijo de consultas,
// independiente de la cantidad de socios.
type PrecargaDatos struct {
	socioRepo     repository.SocioRepository
	categoriaRepo repository.CategoriaRepository
	actividadRepo repository.ActividadRepository
	ajusteRepo    repository.AjusteRepository
	exencionRepo  repository.ExencionRepository
	reglaRepo     repository.ReglaRepository
	cuotaRepo     repository.CuotaRepository
}

// NewPrecargaDatos construye el precargador.
func NewPrecargaDatos(
	socioRepo repository.SocioRepository,
	categoriaRepo repository.CategoriaRepository,
	actividadRepo repository.ActividadRepository,
	ajusteRepo repository.AjusteRepository,
	exencionRepo repository.ExencionRepository,
	reglaRepo repository.ReglaRepository,
	cuotaRepo repository.CuotaRepository,
) *PrecargaDatos {
	return &PrecargaDatos{
		socioRepo:     socioRepo,
		categoriaRepo: categoriaRepo,
		actividadRepo: actividadRepo,
		ajusteRepo:    ajusteRepo,
		exencionRepo:  exencionRepo,
		reglaRepo:     reglaRepo,
		cuotaRepo:     cuotaRepo,
	}
}

// Cargar precarga todos los datos de referencia del período. El filtro de
// categorías se aplica en la consulta de socios, no por socio. Un error
// acá es sistémico: aborta antes de cualquier escritura.
func (p *PrecargaDatos) Cargar(periodo cuotas.Periodo, categorias []string) (*DatosReferencia, error) {
	d := &DatosReferencia{
		Periodo:               periodo,
		Categorias:            make(map[string]*entity.Categoria),
		Actividades:           make(map[string]*entity.Actividad),
		InscripcionesPorSocio: make(map[string][]*entity.InscripcionActividad),
		AjustesPorSocio:       make(map[string][]*entity.AjusteCuotaSocio),
		ExencionesPorSocio:    make(map[string][]*entity.Exencion),
	}
	inicio, fin := periodo.Inicio(), periodo.Fin()

	cats, err := p.categoriaRepo.ListActivas()
	if err != nil {
		return nil, fmt.Errorf("precargar categorías: %w", err)
	}
	d.Consultas++
	if len(cats) == 0 {
		return nil, domain.ErrSinTarifario
	}
	for _, c := range cats {
		d.Categorias[c.ID] = c
	}

	d.Socios, err = p.socioRepo.ListActivos(categorias)
	if err != nil {
		return nil, fmt.Errorf("precargar socios: %w", err)
	}
	d.Consultas++

	acts, err := p.actividadRepo.ListActivas()
	if err != nil {
		return nil, fmt.Errorf("precargar actividades: %w", err)
	}
	d.Consultas++
	for _, a := range acts {
		d.Actividades[a.ID] = a
	}

	inscripciones, err := p.actividadRepo.ListInscripcionesVigentes(inicio, fin)
	if err != nil {
		return nil, fmt.Errorf("precargar inscripciones: %w", err)
	}
	d.Consultas++
	for _, ins := range inscripciones {
		d.InscripcionesPorSocio[ins.SocioID] = append(d.InscripcionesPorSocio[ins.SocioID], ins)
	}

	ajustes, err := p.ajusteRepo.ListVigentesEn(inicio, fin)
	if err != nil {
		return nil, fmt.Errorf("precargar ajustes: %w", err)
	}
	d.Consultas++
	for _, a := range ajustes {
		d.AjustesPorSocio[a.SocioID] = append(d.AjustesPorSocio[a.SocioID], a)
	}

	exenciones, err := p.exencionRepo.ListComputablesEn(inicio, fin)
	if err != nil {
		return nil, fmt.Errorf("precargar exenciones: %w", err)
	}
	d.Consultas++
	for _, e := range exenciones {
		d.ExencionesPorSocio[e.SocioID] = append(d.ExencionesPorSocio[e.SocioID], e)
	}

	d.Reglas, err = p.reglaRepo.ListActivas()
	if err != nil {
		return nil, fmt.Errorf("precargar reglas: %w", err)
	}
	d.Consultas++

	d.CuotasExistentes, err = p.cuotaRepo.SociosConCuota(periodo.Mes, periodo.Anio)
	if err != nil {
		return nil, fmt.Errorf("precargar cuotas existentes: %w", err)
	}
	d.Consultas++

	return d, nil
}
