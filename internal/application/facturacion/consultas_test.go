package facturacion

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/club-socios/internal/domain"
)

// ──────────────────────────────────────────────────────────────────────────────
// Consultas de cuotas
// ──────────────────────────────────────────────────────────────────────────────

func TestConsultas_GetByIDConItems(t *testing.T) {
	s := storeConPadron(3)
	sembrarCuotas(s, 3, 3, 2025)
	uc := NewConsultaCuotasUseCase(&fakeCuotaRepo{s})

	c, err := uc.GetByID("cuota-001")
	require.NoError(t, err)

	assert.Equal(t, "socio-001", c.SocioID)
	assert.Equal(t, 3, c.Mes)
	assert.Equal(t, 2025, c.Anio)
	require.Len(t, c.Items, 1, "la cuota sembrada tiene un ítem base")
	assert.Equal(t, "BASE", c.Items[0].Tipo)
}

func TestConsultas_GetByIDInexistente(t *testing.T) {
	s := storeConPadron(1)
	uc := NewConsultaCuotasUseCase(&fakeCuotaRepo{s})

	_, err := uc.GetByID("cuota-999")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestConsultas_ListByPeriodoAgrupaItems(t *testing.T) {
	s := storeConPadron(5)
	sembrarCuotas(s, 5, 3, 2025)
	uc := NewConsultaCuotasUseCase(&fakeCuotaRepo{s})

	lista, err := uc.ListByPeriodo(3, 2025)
	require.NoError(t, err)
	require.Len(t, lista, 5)
	for _, c := range lista {
		assert.Len(t, c.Items, 1, "cada cuota debe traer sus propios ítems")
		assert.Equal(t, c.ID, "cuota-"+c.SocioID[len("socio-"):])
	}
}

func TestConsultas_ListByPeriodoInvalido(t *testing.T) {
	s := storeConPadron(1)
	uc := NewConsultaCuotasUseCase(&fakeCuotaRepo{s})

	_, err := uc.ListByPeriodo(13, 2025)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}
