package repository

import (
	"time"

	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// CuotaRepository define el puerto de persistencia para Cuota e ItemCuota.
// La unicidad (socio, mes, año) la garantiza un índice único; Create
// devuelve domain.ErrDuplicate ante una violación.
type CuotaRepository interface {
	Create(c *entity.Cuota) error
	CreateItem(it *entity.ItemCuota) error
	GetByID(id string) (*entity.Cuota, error)
	GetItems(cuotaID string) ([]*entity.ItemCuota, error)
	ListByPeriodo(mes, anio int) ([]*entity.Cuota, error)
	ListItemsByPeriodo(mes, anio int) ([]*entity.ItemCuota, error)
	// SociosConCuota devuelve el set de socios que ya tienen cuota en el
	// período (chequeo de idempotencia en una sola consulta).
	SociosConCuota(mes, anio int) (map[string]bool, error)
	CountByPeriodo(mes, anio int) (int, error)
	UpdateMontos(c *entity.Cuota) error
	UpdateItem(it *entity.ItemCuota) error
	// UpdateMasivo actualiza campos no monetarios de un lote de cuotas.
	// Devuelve la cantidad de filas afectadas.
	UpdateMasivo(ids []string, observaciones *string, vencimiento *time.Time) (int, error)
	// DeleteConItems borra la cuota con sus ítems (cascada). El recibo lo
	// borra ReciboRepository dentro de la misma transacción.
	DeleteConItems(id string) error
}
