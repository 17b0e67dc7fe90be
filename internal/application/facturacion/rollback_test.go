package facturacion

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

func rollbackDe(s *memStore) *RollbackCuotasUseCase {
	return NewRollbackCuotasUseCase(&fakeCuotaRepo{s}, &fakeReciboRepo{s}, &fakeTxRunner{s}, testLogger())
}

// sembrarCuotas inserta n cuotas con su ítem base en el período.
func sembrarCuotas(s *memStore, n, mes, anio int) {
	for i := 1; i <= n; i++ {
		id := fmt.Sprintf("cuota-%03d", i)
		s.cuotas[id] = &entity.Cuota{
			ID: id, SocioID: fmt.Sprintf("socio-%03d", i), Mes: mes, Anio: anio,
			MontoBase:  decimal.NewFromInt(10000),
			MontoTotal: decimal.NewFromInt(10000),
		}
		itID := "item-" + id
		s.items[itID] = &entity.ItemCuota{ID: itID, CuotaID: id, Tipo: entity.ItemBase, Monto: decimal.NewFromInt(10000)}
	}
}

// ─────────────────────────────────────────────
// Rollback de período
// ─────────────────────────────────────────────

func TestRollbackPeriodo_PreviewNoEscribe(t *testing.T) {
	s := newMemStore()
	sembrarCuotas(s, 10, 3, 2025)
	s.recibos["cuota-001"] = &entity.Recibo{ID: "rec-1", CuotaID: "cuota-001", Estado: entity.ReciboPagado}
	s.recibos["cuota-002"] = &entity.Recibo{ID: "rec-2", CuotaID: "cuota-002", Estado: entity.ReciboPagado}
	s.mediosPago["cuota-003"] = 2
	uc := rollbackDe(s)

	resp, err := uc.RollbackPeriodo(context.Background(), dto.RollbackRequest{Mes: 3, Anio: 2025, Modo: dto.ModoPreview})
	require.NoError(t, err)

	assert.Equal(t, 7, resp.CuotasEliminables)
	assert.Equal(t, 3, resp.CuotasBloqueadas)
	assert.Equal(t, 0, resp.Eliminadas)
	assert.Len(t, s.cuotas, 10, "preview no borra nada")
}

func TestRollbackPeriodo_AplicarRespetaLaGuarda(t *testing.T) {
	s := newMemStore()
	sembrarCuotas(s, 10, 3, 2025)
	s.recibos["cuota-001"] = &entity.Recibo{ID: "rec-1", CuotaID: "cuota-001", Estado: entity.ReciboPagado}
	s.recibos["cuota-004"] = &entity.Recibo{ID: "rec-4", CuotaID: "cuota-004", Estado: entity.ReciboPendiente}
	s.mediosPago["cuota-002"] = 1
	uc := rollbackDe(s)

	resp, err := uc.RollbackPeriodo(context.Background(), dto.RollbackRequest{Mes: 3, Anio: 2025, Modo: dto.ModoAplicar})
	require.NoError(t, err)

	assert.Equal(t, 8, resp.Eliminadas, "el recibo PENDIENTE no bloquea")
	assert.Equal(t, 2, resp.CuotasBloqueadas)
	assert.False(t, resp.Discrepancia)
	assert.Len(t, s.cuotas, 2)
	assert.NotNil(t, s.cuotas["cuota-001"])
	assert.NotNil(t, s.cuotas["cuota-002"])
	for _, it := range s.items {
		c := s.cuotas[it.CuotaID]
		assert.NotNil(t, c, "no deben quedar ítems huérfanos")
	}

	motivos := map[string]string{}
	for _, b := range resp.Bloqueadas {
		motivos[b.CuotaID] = b.Motivo
	}
	assert.Contains(t, motivos["cuota-001"], "PAGADO")
	assert.Contains(t, motivos["cuota-002"], "medio")
}

func TestRollbackPeriodo_PreviewYAplicarCoinciden(t *testing.T) {
	s := newMemStore()
	sembrarCuotas(s, 6, 3, 2025)
	s.recibos["cuota-005"] = &entity.Recibo{ID: "rec-5", CuotaID: "cuota-005", Estado: entity.ReciboPagado}
	uc := rollbackDe(s)
	ctx := context.Background()

	preview, err := uc.RollbackPeriodo(ctx, dto.RollbackRequest{Mes: 3, Anio: 2025, Modo: dto.ModoPreview})
	require.NoError(t, err)
	aplicado, err := uc.RollbackPeriodo(ctx, dto.RollbackRequest{Mes: 3, Anio: 2025, Modo: dto.ModoAplicar})
	require.NoError(t, err)

	assert.Equal(t, preview.CuotasEliminables, aplicado.Eliminadas)
	assert.Equal(t, preview.CuotasBloqueadas, aplicado.CuotasBloqueadas)
}

func TestRollbackPeriodo_MedioPagoBloqueaSinRecibo(t *testing.T) {
	s := newMemStore()
	sembrarCuotas(s, 3, 3, 2025)
	uc := rollbackDe(s)

	// Medio de pago sin recibo PAGADO: alcanza para bloquear.
	s.mediosPago["cuota-002"] = 1

	resp, err := uc.RollbackPeriodo(context.Background(), dto.RollbackRequest{Mes: 3, Anio: 2025, Modo: dto.ModoAplicar})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Eliminadas)
	assert.Equal(t, 1, resp.CuotasBloqueadas)
	assert.NotNil(t, s.cuotas["cuota-002"])
}

func TestRollbackPeriodo_PeriodoBloqueado(t *testing.T) {
	s := newMemStore()
	sembrarCuotas(s, 3, 3, 2025)
	s.lockTomado = true
	uc := rollbackDe(s)
	ctx := context.Background()

	// El preview no necesita la transacción, funciona igual.
	preview, err := uc.RollbackPeriodo(ctx, dto.RollbackRequest{Mes: 3, Anio: 2025, Modo: dto.ModoPreview})
	require.NoError(t, err)
	assert.Equal(t, 3, preview.CuotasEliminables)

	_, err = uc.RollbackPeriodo(ctx, dto.RollbackRequest{Mes: 3, Anio: 2025, Modo: dto.ModoAplicar})
	require.ErrorIs(t, err, domain.ErrPeriodoBloqueado)
}

// ─────────────────────────────────────────────
// Rollback de cuota individual
// ─────────────────────────────────────────────

func TestRollbackCuota_Aplicar(t *testing.T) {
	s := newMemStore()
	sembrarCuotas(s, 2, 3, 2025)
	uc := rollbackDe(s)

	resp, err := uc.RollbackCuota(context.Background(), "cuota-001", dto.ModoAplicar)
	require.NoError(t, err)
	assert.Equal(t, 1, resp.Eliminadas)
	assert.Nil(t, s.cuotas["cuota-001"])
	assert.NotNil(t, s.cuotas["cuota-002"])
}

func TestRollbackCuota_PagadaRechaza(t *testing.T) {
	s := newMemStore()
	sembrarCuotas(s, 1, 3, 2025)
	s.recibos["cuota-001"] = &entity.Recibo{ID: "rec-1", CuotaID: "cuota-001", Estado: entity.ReciboPagado}
	uc := rollbackDe(s)

	_, err := uc.RollbackCuota(context.Background(), "cuota-001", dto.ModoAplicar)
	require.ErrorIs(t, err, domain.ErrCuotaPagada)
	assert.NotNil(t, s.cuotas["cuota-001"])

	_, err = uc.RollbackCuota(context.Background(), "cuota-001", dto.ModoPreview)
	require.ErrorIs(t, err, domain.ErrCuotaPagada, "la guarda no depende del modo")
}

func TestRollbackCuota_Inexistente(t *testing.T) {
	uc := rollbackDe(newMemStore())
	_, err := uc.RollbackCuota(context.Background(), "no-existe", dto.ModoAplicar)
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// ─────────────────────────────────────────────
// Validación previa
// ─────────────────────────────────────────────

func TestValidarRollback(t *testing.T) {
	s := newMemStore()
	sembrarCuotas(s, 4, 3, 2025)
	s.recibos["cuota-001"] = &entity.Recibo{ID: "rec-1", CuotaID: "cuota-001", Estado: entity.ReciboPagado}
	uc := rollbackDe(s)

	resp, err := uc.ValidarRollback(3, 2025)
	require.NoError(t, err)
	assert.True(t, resp.PuedeHacerRollback)
	assert.Equal(t, 3, resp.CuotasEliminables)
	assert.Equal(t, 1, resp.CuotasBloqueadas)
	assert.Len(t, s.cuotas, 4, "validar no tiene efectos")
}

func TestValidarRollback_SinCuotas(t *testing.T) {
	uc := rollbackDe(newMemStore())
	resp, err := uc.ValidarRollback(3, 2025)
	require.NoError(t, err)
	assert.False(t, resp.PuedeHacerRollback)
	require.Len(t, resp.Errores, 1)
	assert.Contains(t, resp.Errores[0], "no hay cuotas")
}
