package facturacion

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

// AjustesUseCase administra los ajustes manuales por socio. Cada
// mutación valida las invariantes del ajuste y deja una entrada de
// auditoría con el estado antes y después.
type AjustesUseCase struct {
	ajusteRepo    repository.AjusteRepository
	historialRepo repository.HistorialRepository
	socioRepo     repository.SocioRepository
}

// NewAjustesUseCase construye el caso de uso.
func NewAjustesUseCase(
	ajusteRepo repository.AjusteRepository,
	historialRepo repository.HistorialRepository,
	socioRepo repository.SocioRepository,
) *AjustesUseCase {
	return &AjustesUseCase{ajusteRepo: ajusteRepo, historialRepo: historialRepo, socioRepo: socioRepo}
}

// Crear da de alta un ajuste activo para un socio existente.
func (uc *AjustesUseCase) Crear(usuario string, in dto.CrearAjusteRequest) (*dto.AjusteResponse, error) {
	if _, err := uc.socioRepo.GetByID(in.SocioID); err != nil {
		return nil, fmt.Errorf("socio %s: %w", in.SocioID, err)
	}
	a := &entity.AjusteCuotaSocio{
		ID:             uuid.New().String(),
		SocioID:        in.SocioID,
		Tipo:           in.Tipo,
		Valor:          in.Valor,
		Concepto:       in.Concepto,
		FechaInicio:    in.FechaInicio,
		FechaFin:       in.FechaFin,
		Activo:         true,
		AplicaA:        in.AplicaA,
		ItemsAfectados: in.ItemsAfectados,
		AprobadoPor:    usuario,
	}
	if err := validarAjuste(a); err != nil {
		return nil, err
	}
	now := time.Now()
	a.CreatedAt = now
	a.UpdatedAt = now
	if err := uc.ajusteRepo.Create(a); err != nil {
		return nil, err
	}
	if err := uc.auditar(a.ID, entity.HistorialCreado, nil, a, usuario, in.Motivo); err != nil {
		return nil, err
	}
	return ajusteToResponse(a), nil
}

// Actualizar modifica los campos presentes del ajuste. Los campos nil
// del request quedan como estaban.
func (uc *AjustesUseCase) Actualizar(usuario, id string, in dto.ActualizarAjusteRequest) (*dto.AjusteResponse, error) {
	a, err := uc.ajusteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	anterior := *a
	if in.Valor != nil {
		a.Valor = *in.Valor
	}
	if in.Concepto != nil {
		a.Concepto = *in.Concepto
	}
	if in.FechaFin != nil {
		a.FechaFin = in.FechaFin
	}
	if in.AplicaA != nil {
		a.AplicaA = *in.AplicaA
	}
	if in.ItemsAfectados != nil {
		a.ItemsAfectados = in.ItemsAfectados
	}
	if err := validarAjuste(a); err != nil {
		return nil, err
	}
	a.UpdatedAt = time.Now()
	if err := uc.ajusteRepo.Update(a); err != nil {
		return nil, err
	}
	if err := uc.auditar(a.ID, entity.HistorialModificado, &anterior, a, usuario, in.Motivo); err != nil {
		return nil, err
	}
	return ajusteToResponse(a), nil
}

// Desactivar apaga el ajuste sin borrarlo: las cuotas ya generadas que
// lo materializaron no se tocan, y el historial lo sigue referenciando.
func (uc *AjustesUseCase) Desactivar(usuario, id, motivo string) error {
	a, err := uc.ajusteRepo.GetByID(id)
	if err != nil {
		return err
	}
	if !a.Activo {
		return nil // idempotente
	}
	anterior := *a
	a.Activo = false
	a.UpdatedAt = time.Now()
	if err := uc.ajusteRepo.Update(a); err != nil {
		return err
	}
	return uc.auditar(a.ID, entity.HistorialDesactivado, &anterior, a, usuario, motivo)
}

// GetByID devuelve un ajuste puntual.
func (uc *AjustesUseCase) GetByID(id string) (*dto.AjusteResponse, error) {
	a, err := uc.ajusteRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	return ajusteToResponse(a), nil
}

// ListBySocio lista los ajustes de un socio, activos e inactivos.
func (uc *AjustesUseCase) ListBySocio(socioID string) ([]dto.AjusteResponse, error) {
	lista, err := uc.ajusteRepo.ListBySocio(socioID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AjusteResponse, 0, len(lista))
	for _, a := range lista {
		out = append(out, *ajusteToResponse(a))
	}
	return out, nil
}

// Historial devuelve las entradas de auditoría de un ajuste.
func (uc *AjustesUseCase) Historial(ajusteID string) ([]dto.HistorialResponse, error) {
	if _, err := uc.ajusteRepo.GetByID(ajusteID); err != nil {
		return nil, err
	}
	entradas, err := uc.historialRepo.ListByAjuste(ajusteID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistorialResponse, 0, len(entradas))
	for _, h := range entradas {
		out = append(out, dto.HistorialResponse{
			ID:             h.ID,
			AjusteID:       h.AjusteID,
			CuotaID:        h.CuotaID,
			Accion:         h.Accion,
			EstadoAnterior: h.EstadoAnterior,
			EstadoNuevo:    h.EstadoNuevo,
			Usuario:        h.Usuario,
			Motivo:         h.Motivo,
			Fecha:          h.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// validarAjuste chequea las invariantes de un ajuste manual.
func validarAjuste(a *entity.AjusteCuotaSocio) error {
	if a.Valor.IsNegative() {
		return fmt.Errorf("%w: valor no puede ser negativo", domain.ErrInvalidInput)
	}
	if a.EsPorcentual() && a.Valor.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: porcentaje mayor a 100", domain.ErrInvalidInput)
	}
	if a.AplicaA == entity.AlcanceItemsEspecificos && len(a.ItemsAfectados) == 0 {
		return fmt.Errorf("%w: ITEMS_ESPECIFICOS requiere itemsAfectados no vacío", domain.ErrInvalidInput)
	}
	if a.AplicaA != entity.AlcanceItemsEspecificos && len(a.ItemsAfectados) > 0 {
		return fmt.Errorf("%w: itemsAfectados solo aplica con ITEMS_ESPECIFICOS", domain.ErrInvalidInput)
	}
	if a.FechaFin != nil && a.FechaFin.Before(a.FechaInicio) {
		return fmt.Errorf("%w: fechaFin anterior a fechaInicio", domain.ErrInvalidInput)
	}
	return nil
}

// auditar agrega la entrada de historial con snapshots JSON del antes y
// el después.
func (uc *AjustesUseCase) auditar(ajusteID, accion string, antes, despues *entity.AjusteCuotaSocio, usuario, motivo string) error {
	h := &entity.HistorialAjusteCuota{
		ID:        uuid.New().String(),
		AjusteID:  ajusteID,
		Accion:    accion,
		Usuario:   usuario,
		Motivo:    motivo,
		CreatedAt: time.Now(),
	}
	if antes != nil {
		b, err := json.Marshal(antes)
		if err != nil {
			return fmt.Errorf("serializar estado anterior: %w", err)
		}
		h.EstadoAnterior = string(b)
	}
	b, err := json.Marshal(despues)
	if err != nil {
		return fmt.Errorf("serializar estado nuevo: %w", err)
	}
	h.EstadoNuevo = string(b)
	return uc.historialRepo.Append(h)
}

func ajusteToResponse(a *entity.AjusteCuotaSocio) *dto.AjusteResponse {
	resp := &dto.AjusteResponse{
		ID:             a.ID,
		SocioID:        a.SocioID,
		Tipo:           a.Tipo,
		Valor:          a.Valor,
		Concepto:       a.Concepto,
		FechaInicio:    a.FechaInicio.Format("2006-01-02"),
		Activo:         a.Activo,
		AplicaA:        a.AplicaA,
		ItemsAfectados: a.ItemsAfectados,
		AprobadoPor:    a.AprobadoPor,
	}
	if a.FechaFin != nil {
		resp.FechaFin = a.FechaFin.Format("2006-01-02")
	}
	return resp
}
