package cuotas_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func snapshotBasico() cuotas.SocioSnapshot {
	return cuotas.SocioSnapshot{
		SocioID:         "socio-1",
		CategoriaID:     "cat-activo",
		CategoriaCodigo: "ACT",
		CategoriaNombre: "Activo",
		CuotaBase:       decimal.NewFromInt(10000),
		Edad:            70,
		AntiguedadAnios: 30,
		Actividades: []cuotas.ActividadSnapshot{
			{InscripcionID: "ins-1", ActividadID: "act-natacion", Nombre: "Natación", Precio: decimal.NewFromInt(5000)},
		},
	}
}

func periodoMarzo() cuotas.Periodo { return cuotas.Periodo{Mes: 3, Anio: 2025} }

func reglaPct(id string, orden int, pct int64, aplicaA string) *entity.ReglaDescuento {
	return &entity.ReglaDescuento{
		ID:     id,
		Nombre: "Regla " + id,
		Orden:  orden,
		Activa: true,
		Condicion: entity.CondicionRegla{
			Tipo: entity.CondSiempre,
		},
		Efecto: entity.EfectoRegla{
			Tipo:    entity.EfectoDescuentoPorcentaje,
			Valor:   decimal.NewFromInt(pct),
			AplicaA: aplicaA,
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Evaluador de reglas
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluarReglas_OrdenYEmpatesPorID(t *testing.T) {
	// Mismo Orden: desempata por ID ascendente.
	r1 := reglaPct("b-regla", 1, 10, entity.AlcanceTodos)
	r2 := reglaPct("a-regla", 1, 10, entity.AlcanceTodos)

	out := cuotas.EvaluarReglas(snapshotBasico(), periodoMarzo(), []*entity.ReglaDescuento{r1, r2})
	require.Len(t, out.Aplicadas, 2)
	assert.Equal(t, "a-regla", out.Aplicadas[0].ReglaID)
	assert.Equal(t, "b-regla", out.Aplicadas[1].ReglaID)

	// Primera: 10% de 15000 = 1500. Segunda: 10% de 13500 = 1350 (en cadena).
	assert.True(t, decimal.NewFromInt(-1500).Equal(out.Aplicadas[0].Delta), out.Aplicadas[0].Delta.String())
	assert.True(t, decimal.NewFromInt(-1350).Equal(out.Aplicadas[1].Delta), out.Aplicadas[1].Delta.String())
}

func TestEvaluarReglas_ExclusivaCortaEvaluacion(t *testing.T) {
	r1 := reglaPct("r1", 1, 10, entity.AlcanceTodos)
	excl := reglaPct("r2", 2, 50, entity.AlcanceTodos)
	excl.Exclusiva = true
	r3 := reglaPct("r3", 3, 10, entity.AlcanceTodos)

	out := cuotas.EvaluarReglas(snapshotBasico(), periodoMarzo(), []*entity.ReglaDescuento{r1, excl, r3})
	require.Len(t, out.Aplicadas, 2, "la exclusiva conserva lo anterior y corta lo posterior")
	assert.Equal(t, "r1", out.Aplicadas[0].ReglaID)
	assert.Equal(t, "r2", out.Aplicadas[1].ReglaID)
}

func TestEvaluarReglas_CondicionMalformadaEsAdvertencia(t *testing.T) {
	mala := reglaPct("rota", 1, 10, entity.AlcanceTodos)
	mala.Condicion = entity.CondicionRegla{Tipo: entity.CondEdadMinima, Valor: "no-numero"}
	buena := reglaPct("sana", 2, 10, entity.AlcanceTodos)

	out := cuotas.EvaluarReglas(snapshotBasico(), periodoMarzo(), []*entity.ReglaDescuento{mala, buena})
	require.Len(t, out.Aplicadas, 1, "la regla malformada se omite, no aborta")
	assert.Equal(t, "sana", out.Aplicadas[0].ReglaID)
	require.Len(t, out.Advertencias, 1)
	assert.Contains(t, out.Advertencias[0], "rota")
}

func TestEvaluarReglas_CondicionesPorTipo(t *testing.T) {
	snap := snapshotBasico() // edad 70, antigüedad 30, 1 actividad, categoría ACT

	casos := []struct {
		nombre  string
		cond    entity.CondicionRegla
		aplica  bool
	}{
		{"siempre", entity.CondicionRegla{Tipo: entity.CondSiempre}, true},
		{"categoria por codigo", entity.CondicionRegla{Tipo: entity.CondCategoria, Valor: "ACT"}, true},
		{"categoria distinta", entity.CondicionRegla{Tipo: entity.CondCategoria, Valor: "CADETE"}, false},
		{"edad minima cumplida", entity.CondicionRegla{Tipo: entity.CondEdadMinima, Valor: "65"}, true},
		{"edad minima no cumplida", entity.CondicionRegla{Tipo: entity.CondEdadMinima, Valor: "75"}, false},
		{"edad maxima", entity.CondicionRegla{Tipo: entity.CondEdadMaxima, Valor: "75"}, true},
		{"antiguedad", entity.CondicionRegla{Tipo: entity.CondAntiguedadMinima, Valor: "25"}, true},
		{"actividades minimas", entity.CondicionRegla{Tipo: entity.CondActividadesMinimas, Valor: "2"}, false},
	}
	for _, c := range casos {
		t.Run(c.nombre, func(t *testing.T) {
			r := reglaPct("r", 1, 10, entity.AlcanceTodos)
			r.Condicion = c.cond
			out := cuotas.EvaluarReglas(snap, periodoMarzo(), []*entity.ReglaDescuento{r})
			if c.aplica {
				assert.Len(t, out.Aplicadas, 1)
			} else {
				assert.Empty(t, out.Aplicadas)
			}
			assert.Empty(t, out.Advertencias)
		})
	}
}

func TestEvaluarReglas_CondicionExpresionJsonLogic(t *testing.T) {
	// Jubilado: edad >= 65 y antigüedad >= 25 → 50% de descuento.
	expr := json.RawMessage(`{"and":[{">=":[{"var":"socio.edad"},65]},{">=":[{"var":"socio.antiguedad"},25]}]}`)
	r := reglaPct("jubilado", 1, 50, entity.AlcanceSoloBase)
	r.Condicion = entity.CondicionRegla{Tipo: entity.CondExpresion, Expresion: expr}

	out := cuotas.EvaluarReglas(snapshotBasico(), periodoMarzo(), []*entity.ReglaDescuento{r})
	require.Len(t, out.Aplicadas, 1)
	// 50% de la base 10000 = 5000
	assert.True(t, decimal.NewFromInt(-5000).Equal(out.Aplicadas[0].Delta), out.Aplicadas[0].Delta.String())
}

func TestEvaluarReglas_ExpresionInvalidaEsAdvertencia(t *testing.T) {
	r := reglaPct("rota", 1, 10, entity.AlcanceTodos)
	r.Condicion = entity.CondicionRegla{Tipo: entity.CondExpresion, Expresion: json.RawMessage(`{`)}

	out := cuotas.EvaluarReglas(snapshotBasico(), periodoMarzo(), []*entity.ReglaDescuento{r})
	assert.Empty(t, out.Aplicadas)
	assert.Len(t, out.Advertencias, 1)
}

func TestEvaluarReglas_AlcanceCategoriaYSocio(t *testing.T) {
	porCategoria := reglaPct("cat", 1, 10, entity.AlcanceTodos)
	porCategoria.Alcance = entity.ReglaCategoria
	porCategoria.AlcanceRef = "cat-activo"

	porSocio := reglaPct("soc", 2, 10, entity.AlcanceTodos)
	porSocio.Alcance = entity.ReglaSocio
	porSocio.AlcanceRef = "otro-socio"

	out := cuotas.EvaluarReglas(snapshotBasico(), periodoMarzo(), []*entity.ReglaDescuento{porCategoria, porSocio})
	require.Len(t, out.Aplicadas, 1)
	assert.Equal(t, "cat", out.Aplicadas[0].ReglaID)
}

func TestEvaluarReglas_InactivaNoAplica(t *testing.T) {
	r := reglaPct("r", 1, 10, entity.AlcanceTodos)
	r.Activa = false
	out := cuotas.EvaluarReglas(snapshotBasico(), periodoMarzo(), []*entity.ReglaDescuento{r})
	assert.Empty(t, out.Aplicadas)
}
