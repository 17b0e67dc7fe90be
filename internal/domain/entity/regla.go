package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Alcances de una regla de descuento.
const (
	ReglaGlobal    = "GLOBAL"
	ReglaCategoria = "CATEGORIA"
	ReglaSocio     = "SOCIO"
)

// Tipos de condición de una regla. Las reglas son datos, no código: el
// evaluador las interpreta contra el snapshot del socio.
const (
	CondSiempre            = "SIEMPRE"
	CondCategoria          = "CATEGORIA"
	CondEdadMinima         = "EDAD_MINIMA"
	CondEdadMaxima         = "EDAD_MAXIMA"
	CondAntiguedadMinima   = "ANTIGUEDAD_MINIMA" // años desde la fecha de alta
	CondActividadesMinimas = "ACTIVIDADES_MINIMAS"
	CondExpresion          = "EXPRESION" // JsonLogic sobre el snapshot
)

// Tipos de efecto de una regla.
const (
	EfectoDescuentoFijo       = "DESCUENTO_FIJO"
	EfectoDescuentoPorcentaje = "DESCUENTO_PORCENTAJE"
	EfectoRecargoFijo         = "RECARGO_FIJO"
	EfectoRecargoPorcentaje   = "RECARGO_PORCENTAJE"
)

// CondicionRegla es la condición declarativa de una regla.
// Valor se interpreta según Tipo (código de categoría, edad, años, cantidad).
// Expresion solo aplica cuando Tipo = EXPRESION.
type CondicionRegla struct {
	Tipo      string          `json:"tipo"`
	Valor     string          `json:"valor,omitempty"`
	Expresion json.RawMessage `json:"expresion,omitempty"`
}

// EfectoRegla describe el efecto monetario de una regla sobre un alcance
// de la cuota.
type EfectoRegla struct {
	Tipo    string          `json:"tipo"`
	Valor   decimal.Decimal `json:"valor"`
	AplicaA string          `json:"aplicaA"` // TODOS, SOLO_BASE, SOLO_ACTIVIDADES
}

// ReglaDescuento es una definición ordenada condición→efecto evaluada por
// socio y período. Orden fija la prioridad; empates se resuelven por ID
// ascendente. Una regla Exclusiva corta la evaluación al coincidir.
type ReglaDescuento struct {
	ID         string
	Nombre     string
	Orden      int
	Alcance    string // GLOBAL, CATEGORIA, SOCIO
	AlcanceRef string // ID de categoría o socio según Alcance
	Exclusiva  bool
	Activa     bool
	Condicion  CondicionRegla
	Efecto     EfectoRegla
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
