package facturacion

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
	"github.com/tu-usuario/club-socios/pkg/logger"
)

// ─────────────────────────────────────────────
// Store en memoria compartido por los fakes
// ─────────────────────────────────────────────

type memStore struct {
	socios        []*entity.Socio
	categorias    []*entity.Categoria
	actividades   []*entity.Actividad
	inscripciones []*entity.InscripcionActividad
	ajustes       map[string]*entity.AjusteCuotaSocio
	exenciones    []*entity.Exencion
	reglas        []*entity.ReglaDescuento
	cuotas        map[string]*entity.Cuota
	items         map[string]*entity.ItemCuota
	recibos       map[string]*entity.Recibo // indexados por cuota
	mediosPago    map[string]int            // cantidad por cuota
	historial     []*entity.HistorialAjusteCuota

	// lockTomado simula otro proceso operando sobre el período.
	lockTomado bool
	// fallaCreate fuerza el error indicado al crear la cuota de un socio.
	fallaCreate map[string]error
	// consultas cuenta las lecturas ejecutadas contra el store.
	consultas int
}

func newMemStore() *memStore {
	return &memStore{
		ajustes:     map[string]*entity.AjusteCuotaSocio{},
		cuotas:      map[string]*entity.Cuota{},
		items:       map[string]*entity.ItemCuota{},
		recibos:     map[string]*entity.Recibo{},
		mediosPago:  map[string]int{},
		fallaCreate: map[string]error{},
	}
}

func (m *memStore) cuotaDeSocio(socioID string, mes, anio int) *entity.Cuota {
	for _, c := range m.cuotas {
		if c.SocioID == socioID && c.Mes == mes && c.Anio == anio {
			return c
		}
	}
	return nil
}

func (m *memStore) cuotasOrdenadas(mes, anio int) []*entity.Cuota {
	var out []*entity.Cuota
	for _, c := range m.cuotas {
		if c.Mes == mes && c.Anio == anio {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SocioID < out[j].SocioID })
	return out
}

// ─────────────────────────────────────────────
// Fakes de repositorios
// ─────────────────────────────────────────────

type fakeSocioRepo struct{ s *memStore }

func (r *fakeSocioRepo) GetByID(id string) (*entity.Socio, error) {
	for _, s := range r.s.socios {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeSocioRepo) ListActivos(categoriaIDs []string) ([]*entity.Socio, error) {
	r.s.consultas++
	permitidas := map[string]bool{}
	for _, id := range categoriaIDs {
		permitidas[id] = true
	}
	var out []*entity.Socio
	for _, s := range r.s.socios {
		if s.Estado != entity.SocioActivo {
			continue
		}
		if len(permitidas) > 0 && !permitidas[s.CategoriaID] {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type fakeCategoriaRepo struct{ s *memStore }

func (r *fakeCategoriaRepo) GetByID(id string) (*entity.Categoria, error) {
	for _, c := range r.s.categorias {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeCategoriaRepo) ListActivas() ([]*entity.Categoria, error) {
	r.s.consultas++
	var out []*entity.Categoria
	for _, c := range r.s.categorias {
		if c.Activa {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeActividadRepo struct{ s *memStore }

func (r *fakeActividadRepo) ListActivas() ([]*entity.Actividad, error) {
	r.s.consultas++
	var out []*entity.Actividad
	for _, a := range r.s.actividades {
		if a.Activa {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeActividadRepo) ListInscripcionesVigentes(inicio, fin time.Time) ([]*entity.InscripcionActividad, error) {
	r.s.consultas++
	var out []*entity.InscripcionActividad
	for _, ins := range r.s.inscripciones {
		if ins.VigenteEn(inicio, fin) {
			out = append(out, ins)
		}
	}
	return out, nil
}

type fakeAjusteRepo struct{ s *memStore }

func (r *fakeAjusteRepo) Create(a *entity.AjusteCuotaSocio) error {
	cp := *a
	r.s.ajustes[a.ID] = &cp
	return nil
}

func (r *fakeAjusteRepo) Update(a *entity.AjusteCuotaSocio) error {
	if _, ok := r.s.ajustes[a.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *a
	r.s.ajustes[a.ID] = &cp
	return nil
}

func (r *fakeAjusteRepo) GetByID(id string) (*entity.AjusteCuotaSocio, error) {
	a, ok := r.s.ajustes[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAjusteRepo) ListBySocio(socioID string) ([]*entity.AjusteCuotaSocio, error) {
	var out []*entity.AjusteCuotaSocio
	for _, a := range r.s.ajustes {
		if a.SocioID == socioID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeAjusteRepo) ListVigentesEn(inicio, fin time.Time) ([]*entity.AjusteCuotaSocio, error) {
	r.s.consultas++
	var out []*entity.AjusteCuotaSocio
	for _, a := range r.s.ajustes {
		if a.VigenteEn(inicio, fin) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type fakeHistorialRepo struct{ s *memStore }

func (r *fakeHistorialRepo) Append(h *entity.HistorialAjusteCuota) error {
	cp := *h
	r.s.historial = append(r.s.historial, &cp)
	return nil
}

func (r *fakeHistorialRepo) ListByAjuste(ajusteID string) ([]*entity.HistorialAjusteCuota, error) {
	var out []*entity.HistorialAjusteCuota
	for _, h := range r.s.historial {
		if h.AjusteID == ajusteID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (r *fakeHistorialRepo) ListByCuota(cuotaID string) ([]*entity.HistorialAjusteCuota, error) {
	var out []*entity.HistorialAjusteCuota
	for _, h := range r.s.historial {
		if h.CuotaID == cuotaID {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeExencionRepo struct{ s *memStore }

func (r *fakeExencionRepo) GetByID(id string) (*entity.Exencion, error) {
	for _, e := range r.s.exenciones {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeExencionRepo) ListComputablesEn(inicio, fin time.Time) ([]*entity.Exencion, error) {
	r.s.consultas++
	var out []*entity.Exencion
	for _, e := range r.s.exenciones {
		if e.Computable() && e.VigenteEn(inicio, fin) {
			out = append(out, e)
		}
	}
	return out, nil
}

type fakeReglaRepo struct{ s *memStore }

func (r *fakeReglaRepo) GetByID(id string) (*entity.ReglaDescuento, error) {
	for _, rg := range r.s.reglas {
		if rg.ID == id {
			return rg, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeReglaRepo) ListActivas() ([]*entity.ReglaDescuento, error) {
	r.s.consultas++
	var out []*entity.ReglaDescuento
	for _, rg := range r.s.reglas {
		if rg.Activa {
			out = append(out, rg)
		}
	}
	return out, nil
}

type fakeCuotaRepo struct{ s *memStore }

func (r *fakeCuotaRepo) Create(c *entity.Cuota) error {
	if err := r.s.fallaCreate[c.SocioID]; err != nil {
		return err
	}
	if r.s.cuotaDeSocio(c.SocioID, c.Mes, c.Anio) != nil {
		return domain.ErrDuplicate
	}
	cp := *c
	r.s.cuotas[c.ID] = &cp
	return nil
}

func (r *fakeCuotaRepo) CreateItem(it *entity.ItemCuota) error {
	cp := *it
	r.s.items[it.ID] = &cp
	return nil
}

func (r *fakeCuotaRepo) GetByID(id string) (*entity.Cuota, error) {
	c, ok := r.s.cuotas[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeCuotaRepo) GetItems(cuotaID string) ([]*entity.ItemCuota, error) {
	var out []*entity.ItemCuota
	for _, it := range r.s.items {
		if it.CuotaID == cuotaID {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCuotaRepo) ListByPeriodo(mes, anio int) ([]*entity.Cuota, error) {
	r.s.consultas++
	return r.s.cuotasOrdenadas(mes, anio), nil
}

func (r *fakeCuotaRepo) ListItemsByPeriodo(mes, anio int) ([]*entity.ItemCuota, error) {
	r.s.consultas++
	var out []*entity.ItemCuota
	for _, it := range r.s.items {
		if c, ok := r.s.cuotas[it.CuotaID]; ok && c.Mes == mes && c.Anio == anio {
			out = append(out, it)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeCuotaRepo) SociosConCuota(mes, anio int) (map[string]bool, error) {
	r.s.consultas++
	out := map[string]bool{}
	for _, c := range r.s.cuotas {
		if c.Mes == mes && c.Anio == anio {
			out[c.SocioID] = true
		}
	}
	return out, nil
}

func (r *fakeCuotaRepo) CountByPeriodo(mes, anio int) (int, error) {
	r.s.consultas++
	n := 0
	for _, c := range r.s.cuotas {
		if c.Mes == mes && c.Anio == anio {
			n++
		}
	}
	return n, nil
}

func (r *fakeCuotaRepo) UpdateMontos(c *entity.Cuota) error {
	prev, ok := r.s.cuotas[c.ID]
	if !ok {
		return domain.ErrNotFound
	}
	prev.MontoBase = c.MontoBase
	prev.MontoActividades = c.MontoActividades
	prev.MontoAjustes = c.MontoAjustes
	prev.MontoTotal = c.MontoTotal
	prev.UpdatedAt = c.UpdatedAt
	return nil
}

func (r *fakeCuotaRepo) UpdateItem(it *entity.ItemCuota) error {
	prev, ok := r.s.items[it.ID]
	if !ok {
		return domain.ErrNotFound
	}
	prev.Monto = it.Monto
	prev.Concepto = it.Concepto
	return nil
}

func (r *fakeCuotaRepo) UpdateMasivo(ids []string, observaciones *string, vencimiento *time.Time) (int, error) {
	n := 0
	for _, id := range ids {
		c, ok := r.s.cuotas[id]
		if !ok {
			continue
		}
		if observaciones != nil {
			c.Observaciones = *observaciones
		}
		if vencimiento != nil {
			v := *vencimiento
			c.FechaVencimiento = &v
		}
		n++
	}
	return n, nil
}

func (r *fakeCuotaRepo) DeleteConItems(id string) error {
	if _, ok := r.s.cuotas[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.cuotas, id)
	for itID, it := range r.s.items {
		if it.CuotaID == id {
			delete(r.s.items, itID)
		}
	}
	return nil
}

type fakeReciboRepo struct{ s *memStore }

func (r *fakeReciboRepo) GetByCuotaID(cuotaID string) (*entity.Recibo, error) {
	rec, ok := r.s.recibos[cuotaID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return rec, nil
}

func (r *fakeReciboRepo) RecibosPorCuota(mes, anio int) (map[string]*entity.Recibo, error) {
	r.s.consultas++
	out := map[string]*entity.Recibo{}
	for cuotaID, rec := range r.s.recibos {
		if c, ok := r.s.cuotas[cuotaID]; ok && c.Mes == mes && c.Anio == anio {
			out[cuotaID] = rec
		}
	}
	return out, nil
}

func (r *fakeReciboRepo) MediosPagoPorCuota(mes, anio int) (map[string]int, error) {
	r.s.consultas++
	out := map[string]int{}
	for cuotaID, n := range r.s.mediosPago {
		if c, ok := r.s.cuotas[cuotaID]; ok && c.Mes == mes && c.Anio == anio && n > 0 {
			out[cuotaID] = n
		}
	}
	return out, nil
}

func (r *fakeReciboRepo) CountMediosPago(cuotaID string) (int, error) {
	return r.s.mediosPago[cuotaID], nil
}

func (r *fakeReciboRepo) DeleteByCuotaID(cuotaID string) error {
	delete(r.s.recibos, cuotaID)
	return nil
}

// ─────────────────────────────────────────────
// TxRunner en memoria con rollback por snapshot
// ─────────────────────────────────────────────

type fakeTxRunner struct{ s *memStore }

func (t *fakeTxRunner) RunCuotas(_ context.Context, _ cuotas.Periodo, fn func(
	repository.CuotaRepository, repository.ReciboRepository, repository.HistorialRepository,
) error) error {
	if t.s.lockTomado {
		return domain.ErrPeriodoBloqueado
	}
	cuotasAntes := clonarCuotas(t.s.cuotas)
	itemsAntes := clonarItems(t.s.items)
	recibosAntes := clonarRecibos(t.s.recibos)
	historialAntes := len(t.s.historial)

	err := fn(&fakeCuotaRepo{t.s}, &fakeReciboRepo{t.s}, &fakeHistorialRepo{t.s})
	if err != nil {
		t.s.cuotas = cuotasAntes
		t.s.items = itemsAntes
		t.s.recibos = recibosAntes
		t.s.historial = t.s.historial[:historialAntes]
	}
	return err
}

func clonarCuotas(in map[string]*entity.Cuota) map[string]*entity.Cuota {
	out := make(map[string]*entity.Cuota, len(in))
	for k, v := range in {
		cp := *v
		out[k] = &cp
	}
	return out
}

func clonarItems(in map[string]*entity.ItemCuota) map[string]*entity.ItemCuota {
	out := make(map[string]*entity.ItemCuota, len(in))
	for k, v := range in {
		cp := *v
		out[k] = &cp
	}
	return out
}

func clonarRecibos(in map[string]*entity.Recibo) map[string]*entity.Recibo {
	out := make(map[string]*entity.Recibo, len(in))
	for k, v := range in {
		cp := *v
		out[k] = &cp
	}
	return out
}

// ─────────────────────────────────────────────
// Armado de escenarios
// ─────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}

func precargaDe(s *memStore) *PrecargaDatos {
	return NewPrecargaDatos(
		&fakeSocioRepo{s}, &fakeCategoriaRepo{s}, &fakeActividadRepo{s},
		&fakeAjusteRepo{s}, &fakeExencionRepo{s}, &fakeReglaRepo{s}, &fakeCuotaRepo{s},
	)
}

// storeConPadron arma un store con una categoría de cuota base 10000 y n
// socios activos, sin actividades ni reglas.
func storeConPadron(n int) *memStore {
	s := newMemStore()
	s.categorias = append(s.categorias, &entity.Categoria{
		ID:        "cat-activo",
		Nombre:    "Activo",
		Codigo:    "ACT",
		CuotaBase: decimal.NewFromInt(10000),
		Activa:    true,
	})
	for i := 1; i <= n; i++ {
		s.socios = append(s.socios, &entity.Socio{
			ID:              fmt.Sprintf("socio-%03d", i),
			Nombre:          fmt.Sprintf("Nombre%d", i),
			Apellido:        fmt.Sprintf("Apellido%d", i),
			CategoriaID:     "cat-activo",
			FechaNacimiento: time.Date(1985, 6, 15, 0, 0, 0, 0, time.UTC),
			FechaAlta:       time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC),
			Estado:          entity.SocioActivo,
		})
	}
	return s
}
