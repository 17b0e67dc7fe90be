package facturacion

import (
	"github.com/tu-usuario/club-socios/internal/application/dto"
	"github.com/tu-usuario/club-socios/internal/domain/cuotas"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
	"github.com/tu-usuario/club-socios/internal/domain/repository"
)

// ConsultaCuotasUseCase resuelve las lecturas de cuotas: detalle por ID y
// listado por período, siempre con sus ítems.
type ConsultaCuotasUseCase struct {
	cuotaRepo repository.CuotaRepository
}

// NewConsultaCuotasUseCase construye el caso de uso de consultas.
func NewConsultaCuotasUseCase(cuotaRepo repository.CuotaRepository) *ConsultaCuotasUseCase {
	return &ConsultaCuotasUseCase{cuotaRepo: cuotaRepo}
}

// GetByID devuelve una cuota con su detalle de ítems.
func (uc *ConsultaCuotasUseCase) GetByID(id string) (*dto.CuotaResponse, error) {
	c, err := uc.cuotaRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	items, err := uc.cuotaRepo.GetItems(id)
	if err != nil {
		return nil, err
	}
	resp := cuotaToResponse(c, items)
	return &resp, nil
}

// ListByPeriodo devuelve las cuotas de un período con sus ítems. Los
// ítems del período se leen en una sola consulta y se agrupan en memoria.
func (uc *ConsultaCuotasUseCase) ListByPeriodo(mes, anio int) ([]dto.CuotaResponse, error) {
	if err := (cuotas.Periodo{Mes: mes, Anio: anio}).Validar(); err != nil {
		return nil, err
	}
	lista, err := uc.cuotaRepo.ListByPeriodo(mes, anio)
	if err != nil {
		return nil, err
	}
	items, err := uc.cuotaRepo.ListItemsByPeriodo(mes, anio)
	if err != nil {
		return nil, err
	}
	porCuota := make(map[string][]*entity.ItemCuota, len(lista))
	for _, it := range items {
		porCuota[it.CuotaID] = append(porCuota[it.CuotaID], it)
	}
	out := make([]dto.CuotaResponse, 0, len(lista))
	for _, c := range lista {
		out = append(out, cuotaToResponse(c, porCuota[c.ID]))
	}
	return out, nil
}

func cuotaToResponse(c *entity.Cuota, items []*entity.ItemCuota) dto.CuotaResponse {
	resp := dto.CuotaResponse{
		ID:               c.ID,
		SocioID:          c.SocioID,
		Mes:              c.Mes,
		Anio:             c.Anio,
		MontoBase:        c.MontoBase,
		MontoActividades: c.MontoActividades,
		MontoAjustes:     c.MontoAjustes,
		MontoTotal:       c.MontoTotal,
		FechaGeneracion:  c.FechaGeneracion.Format("2006-01-02"),
		Observaciones:    c.Observaciones,
		Items:            make([]dto.ItemCuotaResponse, 0, len(items)),
	}
	for _, it := range items {
		resp.Items = append(resp.Items, dto.ItemCuotaResponse{
			ID:       it.ID,
			Tipo:     it.Tipo,
			Concepto: it.Concepto,
			Monto:    it.Monto,
			Formula:  it.Formula,
		})
	}
	return resp
}
