package repository

import "github.com/tu-usuario/club-socios/internal/domain/entity"

// ReciboRepository define el puerto para recibos y medios de pago.
// El Rollback Engine lo usa para evaluar la guarda: recibo PAGADO o
// cualquier medio de pago bloquean la eliminación de la cuota.
type ReciboRepository interface {
	GetByCuotaID(cuotaID string) (*entity.Recibo, error)
	// RecibosPorCuota devuelve los recibos del período indexados por cuota
	// (una consulta para todo el período, no una por cuota).
	RecibosPorCuota(mes, anio int) (map[string]*entity.Recibo, error)
	// MediosPagoPorCuota devuelve la cantidad de medios de pago por cuota
	// del período.
	MediosPagoPorCuota(mes, anio int) (map[string]int, error)
	CountMediosPago(cuotaID string) (int, error)
	DeleteByCuotaID(cuotaID string) error
}
