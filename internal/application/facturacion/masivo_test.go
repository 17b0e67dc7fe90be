package facturacion

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

func masivoDe(s *memStore) *AjusteMasivoUseCase {
	return NewAjusteMasivoUseCase(&fakeCuotaRepo{s}, &fakeSocioRepo{s}, &fakeActividadRepo{s}, &fakeTxRunner{s}, testLogger())
}

// ─────────────────────────────────────────────
// Ajuste masivo: preview vs aplicar
// ─────────────────────────────────────────────

func TestAjusteMasivo_PreviewNoEscribe(t *testing.T) {
	s := storeConPadron(5)
	sembrarCuotas(s, 5, 3, 2025)
	uc := masivoDe(s)

	resp, err := uc.Aplicar(context.Background(), "tesorero", dto.AjusteMasivoRequest{
		Modo:   dto.ModoPreview,
		Filtro: dto.FiltroCuotasDTO{Mes: 3, Anio: 2025},
		Cambio: dto.CambioMasivoDTO{Tipo: dto.CambioDescuentoPorcentaje, Valor: decimal.NewFromInt(10)},
	})
	require.NoError(t, err)

	assert.True(t, resp.Exito)
	assert.Equal(t, 5, resp.CuotasAfectadas)
	assert.True(t, resp.ImpactoEconomico.Equal(decimal.NewFromInt(-5000)), "impacto %s", resp.ImpactoEconomico)
	assert.Len(t, s.items, 5, "preview no agrega ítems")
	for _, c := range s.cuotas {
		assert.True(t, c.MontoTotal.Equal(decimal.NewFromInt(10000)))
	}
}

func TestAjusteMasivo_AplicarCoincideConPreview(t *testing.T) {
	s := storeConPadron(5)
	sembrarCuotas(s, 5, 3, 2025)
	uc := masivoDe(s)
	ctx := context.Background()
	req := dto.AjusteMasivoRequest{
		Filtro: dto.FiltroCuotasDTO{Mes: 3, Anio: 2025},
		Cambio: dto.CambioMasivoDTO{Tipo: dto.CambioDescuentoPorcentaje, Valor: decimal.NewFromInt(10), Concepto: "Promo otoño"},
	}

	req.Modo = dto.ModoPreview
	preview, err := uc.Aplicar(ctx, "tesorero", req)
	require.NoError(t, err)

	req.Modo = dto.ModoAplicar
	aplicado, err := uc.Aplicar(ctx, "tesorero", req)
	require.NoError(t, err)

	assert.Equal(t, preview.CuotasAfectadas, aplicado.CuotasAfectadas)
	assert.True(t, preview.ImpactoEconomico.Equal(aplicado.ImpactoEconomico))

	manuales := 0
	for _, it := range s.items {
		if it.Tipo == entity.ItemManual {
			manuales++
			assert.Equal(t, "Promo otoño", it.Concepto)
			assert.True(t, it.Monto.Equal(decimal.NewFromInt(-1000)))
		}
	}
	assert.Equal(t, 5, manuales)
	for _, c := range s.cuotas {
		assert.True(t, c.MontoTotal.Equal(decimal.NewFromInt(9000)), "total %s", c.MontoTotal)
		assert.True(t, c.MontoAjustes.Equal(decimal.NewFromInt(-1000)))
	}
	assert.Len(t, s.historial, 5, "una entrada de auditoría por cuota")
	for _, h := range s.historial {
		assert.Equal(t, entity.HistorialAplicado, h.Accion)
		assert.Equal(t, "tesorero", h.Usuario)
	}
}

func TestAjusteMasivo_PorcentajeMayorA100(t *testing.T) {
	s := storeConPadron(2)
	sembrarCuotas(s, 2, 3, 2025)
	uc := masivoDe(s)

	resp, err := uc.Aplicar(context.Background(), "tesorero", dto.AjusteMasivoRequest{
		Modo:   dto.ModoPreview,
		Filtro: dto.FiltroCuotasDTO{Mes: 3, Anio: 2025},
		Cambio: dto.CambioMasivoDTO{Tipo: dto.CambioDescuentoPorcentaje, Valor: decimal.NewFromInt(150)},
	})
	require.NoError(t, err)
	assert.False(t, resp.Exito, "errores de validación fuerzan exito=false aun en preview")
	require.Len(t, resp.Errores, 1)
	assert.Contains(t, resp.Errores[0], "100")
}

func TestAjusteMasivo_DescuentoFijoNoDejaTotalNegativo(t *testing.T) {
	s := storeConPadron(1)
	sembrarCuotas(s, 1, 3, 2025)
	// Ajustes previos muy negativos: el total vigente quedó muy por
	// debajo del subtotal de la base.
	c := s.cuotas["cuota-001"]
	c.MontoAjustes = decimal.NewFromInt(-9000)
	c.MontoTotal = decimal.NewFromInt(1000)
	uc := masivoDe(s)

	resp, err := uc.Aplicar(context.Background(), "tesorero", dto.AjusteMasivoRequest{
		Modo:   dto.ModoAplicar,
		Filtro: dto.FiltroCuotasDTO{Mes: 3, Anio: 2025},
		Cambio: dto.CambioMasivoDTO{
			Tipo: dto.CambioDescuentoFijo, Valor: decimal.NewFromInt(5000),
			AplicaA: entity.AlcanceSoloBase, Concepto: "Compensación",
		},
	})
	require.NoError(t, err)

	assert.True(t, resp.Exito)
	assert.True(t, resp.ImpactoEconomico.Equal(decimal.NewFromInt(-1000)),
		"el descuento se acota al total vigente, no al subtotal de la base: %s", resp.ImpactoEconomico)
	assert.True(t, s.cuotas["cuota-001"].MontoTotal.IsZero(),
		"el total nunca queda por debajo de cero")
}

func TestAjusteMasivo_FiltroPorSocios(t *testing.T) {
	s := storeConPadron(4)
	sembrarCuotas(s, 4, 3, 2025)
	uc := masivoDe(s)

	resp, err := uc.Aplicar(context.Background(), "tesorero", dto.AjusteMasivoRequest{
		Modo:   dto.ModoAplicar,
		Filtro: dto.FiltroCuotasDTO{Mes: 3, Anio: 2025, SocioIDs: []string{"socio-001", "socio-003"}},
		Cambio: dto.CambioMasivoDTO{Tipo: dto.CambioRecargoFijo, Valor: decimal.NewFromInt(500)},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.CuotasAfectadas)
	assert.True(t, s.cuotas["cuota-001"].MontoTotal.Equal(decimal.NewFromInt(10500)))
	assert.True(t, s.cuotas["cuota-002"].MontoTotal.Equal(decimal.NewFromInt(10000)))
}

func TestAjusteMasivo_FiltroPorCategorias(t *testing.T) {
	s := storeConPadron(3)
	s.categorias = append(s.categorias, &entity.Categoria{
		ID: "cat-vitalicio", Nombre: "Vitalicio", Codigo: "VIT",
		CuotaBase: decimal.NewFromInt(5000), Activa: true,
	})
	s.socios[2].CategoriaID = "cat-vitalicio"
	sembrarCuotas(s, 3, 3, 2025)
	uc := masivoDe(s)

	resp, err := uc.Aplicar(context.Background(), "tesorero", dto.AjusteMasivoRequest{
		Modo:   dto.ModoPreview,
		Filtro: dto.FiltroCuotasDTO{Mes: 3, Anio: 2025, Categorias: []string{"cat-activo"}},
		Cambio: dto.CambioMasivoDTO{Tipo: dto.CambioDescuentoFijo, Valor: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.CuotasAfectadas)
}

func TestAjusteMasivo_FiltroSinCuotas(t *testing.T) {
	s := storeConPadron(2)
	uc := masivoDe(s)

	resp, err := uc.Aplicar(context.Background(), "tesorero", dto.AjusteMasivoRequest{
		Modo:   dto.ModoPreview,
		Filtro: dto.FiltroCuotasDTO{Mes: 7, Anio: 2025},
		Cambio: dto.CambioMasivoDTO{Tipo: dto.CambioDescuentoFijo, Valor: decimal.NewFromInt(100)},
	})
	require.NoError(t, err)
	assert.False(t, resp.Exito)
	require.Len(t, resp.Errores, 1)
	assert.Contains(t, resp.Errores[0], "no alcanza")
}

// ─────────────────────────────────────────────
// Modificación masiva de ítems (PRECIO_ITEM)
// ─────────────────────────────────────────────

func TestAjusteMasivo_PrecioItem(t *testing.T) {
	s := storeConPadron(2)
	sembrarCuotas(s, 2, 3, 2025)
	s.actividades = append(s.actividades, &entity.Actividad{
		ID: "act-tenis", Nombre: "Tenis", Codigo: "TEN",
		PrecioMensual: decimal.NewFromInt(5000), Activa: true,
	})
	s.inscripciones = append(s.inscripciones, &entity.InscripcionActividad{
		ID: "ins-1", SocioID: "socio-001", ActividadID: "act-tenis",
		FechaInicio: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), Activa: true,
	})
	s.items["item-act-1"] = &entity.ItemCuota{
		ID: "item-act-1", CuotaID: "cuota-001", Tipo: entity.ItemActividad,
		OrigenID: "ins-1", Concepto: "Tenis", Monto: decimal.NewFromInt(5000),
	}
	c := s.cuotas["cuota-001"]
	c.MontoActividades = decimal.NewFromInt(5000)
	c.MontoTotal = decimal.NewFromInt(15000)
	uc := masivoDe(s)

	resp, err := uc.Aplicar(context.Background(), "tesorero", dto.AjusteMasivoRequest{
		Modo:   dto.ModoAplicar,
		Filtro: dto.FiltroCuotasDTO{Mes: 3, Anio: 2025},
		Cambio: dto.CambioMasivoDTO{Tipo: dto.CambioPrecioItem, Valor: decimal.NewFromInt(6000), ActividadID: "act-tenis"},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.CuotasAfectadas)
	assert.Equal(t, 1, resp.ItemsAfectados)
	assert.True(t, resp.ImpactoEconomico.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.items["item-act-1"].Monto.Equal(decimal.NewFromInt(6000)))
	assert.True(t, s.cuotas["cuota-001"].MontoActividades.Equal(decimal.NewFromInt(6000)))
	assert.True(t, s.cuotas["cuota-001"].MontoTotal.Equal(decimal.NewFromInt(16000)))
	assert.True(t, s.cuotas["cuota-002"].MontoTotal.Equal(decimal.NewFromInt(10000)), "sin ítems de la actividad no se toca")
}

func TestAjusteMasivo_PrecioItemSinActividad(t *testing.T) {
	s := storeConPadron(1)
	sembrarCuotas(s, 1, 3, 2025)
	uc := masivoDe(s)

	resp, err := uc.Aplicar(context.Background(), "tesorero", dto.AjusteMasivoRequest{
		Modo:   dto.ModoPreview,
		Filtro: dto.FiltroCuotasDTO{Mes: 3, Anio: 2025},
		Cambio: dto.CambioMasivoDTO{Tipo: dto.CambioPrecioItem, Valor: decimal.NewFromInt(6000)},
	})
	require.NoError(t, err)
	assert.False(t, resp.Exito)
	require.Len(t, resp.Errores, 1)
	assert.Contains(t, resp.Errores[0], "actividadId")
}

// ─────────────────────────────────────────────
// Descuento global y actualización por lote
// ─────────────────────────────────────────────

func TestDescuentoGlobal_Fijo(t *testing.T) {
	s := storeConPadron(4)
	sembrarCuotas(s, 4, 3, 2025)
	uc := masivoDe(s)

	resp, err := uc.DescuentoGlobal(context.Background(), "tesorero", dto.DescuentoGlobalRequest{
		Mes: 3, Anio: 2025, TipoDescuento: "FIJO", Valor: decimal.NewFromInt(500), Modo: dto.ModoAplicar,
	})
	require.NoError(t, err)

	assert.Equal(t, 4, resp.CuotasAfectadas)
	assert.True(t, resp.DescuentoTotal.Equal(decimal.NewFromInt(2000)), "descuento total %s", resp.DescuentoTotal)
	for _, c := range s.cuotas {
		assert.True(t, c.MontoTotal.Equal(decimal.NewFromInt(9500)))
	}
}

func TestActualizarMasivo(t *testing.T) {
	s := storeConPadron(3)
	sembrarCuotas(s, 3, 3, 2025)
	uc := masivoDe(s)

	obs := "Vencimiento extendido por feriado"
	venc := time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC)
	resp, err := uc.ActualizarMasivo(context.Background(), dto.ActualizacionMasivaRequest{
		CuotaIDs: []string{"cuota-001", "cuota-003", "no-existe"},
		Updates:  dto.ActualizacionCamposDTO{Observaciones: &obs, FechaVencimiento: &venc},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.UpdatedCount)
	assert.Equal(t, obs, s.cuotas["cuota-001"].Observaciones)
	require.NotNil(t, s.cuotas["cuota-003"].FechaVencimiento)
	assert.True(t, venc.Equal(*s.cuotas["cuota-003"].FechaVencimiento))
	assert.Empty(t, s.cuotas["cuota-002"].Observaciones)
}

func TestActualizarMasivo_SinCampos(t *testing.T) {
	uc := masivoDe(newMemStore())
	_, err := uc.ActualizarMasivo(context.Background(), dto.ActualizacionMasivaRequest{
		CuotaIDs: []string{"cuota-001"},
	})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
