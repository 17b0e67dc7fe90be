package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// ReglaDTO regla de descuento, real o hipotética, en requests de simulación.
type ReglaDTO struct {
	ID        string          `json:"id,omitempty"`
	Nombre    string          `json:"nombre" validate:"required"`
	Orden     int             `json:"orden"`
	Alcance   string          `json:"alcance,omitempty"`
	AlcanceRef string         `json:"alcanceRef,omitempty"`
	Exclusiva bool            `json:"exclusiva,omitempty"`
	CondicionTipo  string     `json:"condicionTipo" validate:"required"`
	CondicionValor string     `json:"condicionValor,omitempty"`
	CondicionExpresion json.RawMessage `json:"condicionExpresion,omitempty"`
	EfectoTipo    string          `json:"efectoTipo" validate:"required"`
	EfectoValor   decimal.Decimal `json:"efectoValor" validate:"required"`
	EfectoAplicaA string          `json:"efectoAplicaA,omitempty"`
}

// SimularGeneracionRequest body para POST /api/simulaciones/generacion.
type SimularGeneracionRequest struct {
	Mes               int      `json:"mes" validate:"required,min=1,max=12"`
	Anio              int      `json:"anio" validate:"required,min=2000,max=2100"`
	Categorias        []string `json:"categorias,omitempty"`
	AplicarDescuentos *bool    `json:"aplicarDescuentos,omitempty"`
}

// SimulacionResponse resultado de una simulación: misma familia de forma
// que la generación real, sin efectos de persistencia.
type SimulacionResponse struct {
	CuotasSimuladas  int             `json:"cuotasSimuladas"`
	Omitidas         int             `json:"omitidas"`
	TotalRecaudacion decimal.Decimal `json:"totalRecaudacion"`
	TotalDescuentos  decimal.Decimal `json:"totalDescuentos"`
	TotalRecargos    decimal.Decimal `json:"totalRecargos"`
	Errores          []ErrorSocioDTO `json:"errores"`
	Advertencias     []string        `json:"advertencias,omitempty"`
}

// SimularReglaRequest simula el impacto de agregar o cambiar una regla
// contra el padrón real. ReemplazaReglaID no vacío sustituye esa regla;
// vacío agrega la regla hipotética al conjunto vigente.
type SimularReglaRequest struct {
	Mes              int      `json:"mes" validate:"required,min=1,max=12"`
	Anio             int      `json:"anio" validate:"required,min=2000,max=2100"`
	Regla            ReglaDTO `json:"regla" validate:"required"`
	ReemplazaReglaID string   `json:"reemplazaReglaId,omitempty"`
}

// SimularReglaResponse compara el estado actual contra el hipotético.
type SimularReglaResponse struct {
	Actual     SimulacionResponse `json:"actual"`
	Hipotetico SimulacionResponse `json:"hipotetico"`
	Diferencia decimal.Decimal    `json:"diferencia"` // hipotético - actual
}

// EscenarioDTO un escenario nombrado: juego completo de parámetros.
type EscenarioDTO struct {
	Nombre            string    `json:"nombre" validate:"required"`
	Mes               int       `json:"mes" validate:"required,min=1,max=12"`
	Anio              int       `json:"anio" validate:"required,min=2000,max=2100"`
	Categorias        []string  `json:"categorias,omitempty"`
	AplicarDescuentos *bool     `json:"aplicarDescuentos,omitempty"`
	Regla             *ReglaDTO `json:"regla,omitempty"` // regla hipotética adicional
}

// EscenariosRequest body para POST /api/simulaciones/escenarios.
type EscenariosRequest struct {
	Escenarios []EscenarioDTO `json:"escenarios" validate:"required,min=2,dive"`
}

// ResultadoEscenarioDTO resultado de un escenario nombrado.
type ResultadoEscenarioDTO struct {
	Nombre     string             `json:"nombre"`
	Resultado  SimulacionResponse `json:"resultado"`
}

// EscenariosResponse comparación de escenarios con el de mayor y menor
// recaudación proyectada.
type EscenariosResponse struct {
	Resultados       []ResultadoEscenarioDTO `json:"resultados"`
	MayorRecaudacion string                  `json:"mayorRecaudacion"`
	MenorRecaudacion string                  `json:"menorRecaudacion"`
}

// ImpactoMasivoRequest proyecta un cambio de configuración sobre todo el
// padrón activo: un descuento/recargo global hipotético.
type ImpactoMasivoRequest struct {
	Mes           int             `json:"mes" validate:"required,min=1,max=12"`
	Anio          int             `json:"anio" validate:"required,min=2000,max=2100"`
	TipoDescuento string          `json:"tipoDescuento" validate:"required,oneof=FIJO PORCENTAJE"`
	Valor         decimal.Decimal `json:"valor" validate:"required"`
}

// ImpactoMasivoResponse proyección del impacto económico.
type ImpactoMasivoResponse struct {
	SociosAlcanzados int             `json:"sociosAlcanzados"`
	TotalActual      decimal.Decimal `json:"totalActual"`
	TotalProyectado  decimal.Decimal `json:"totalProyectado"`
	DescuentoTotal   decimal.Decimal `json:"descuentoTotal"`
	Errores          []ErrorSocioDTO `json:"errores"`
}
