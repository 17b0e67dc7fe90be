package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrCuotaPagada        = errors.New("la cuota tiene pagos registrados")
	ErrSinTarifario       = errors.New("no hay tarifario de categorías cargado")
)

// ErrPeriodoBloqueado especializa ErrConflict: el lock del período lo tiene
// otro proceso. errors.Is(err, ErrConflict) también lo detecta.
var ErrPeriodoBloqueado = fmt.Errorf("%w: otro proceso está operando sobre el período", ErrConflict)
