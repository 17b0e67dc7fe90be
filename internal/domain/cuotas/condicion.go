package cuotas

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/diegoholiveira/jsonlogic/v3"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// cumpleCondicion interpreta la condición declarativa de una regla contra
// el snapshot del socio. Una condición malformada devuelve error: el
// evaluador la registra como advertencia y sigue, nunca aborta el batch.
func cumpleCondicion(cond entity.CondicionRegla, snap SocioSnapshot) (bool, error) {
	switch cond.Tipo {
	case entity.CondSiempre:
		return true, nil

	case entity.CondCategoria:
		if cond.Valor == "" {
			return false, fmt.Errorf("condición CATEGORIA sin valor")
		}
		return cond.Valor == snap.CategoriaID || cond.Valor == snap.CategoriaCodigo, nil

	case entity.CondEdadMinima:
		n, err := valorEntero(cond)
		if err != nil {
			return false, err
		}
		return snap.Edad >= n, nil

	case entity.CondEdadMaxima:
		n, err := valorEntero(cond)
		if err != nil {
			return false, err
		}
		return snap.Edad <= n, nil

	case entity.CondAntiguedadMinima:
		n, err := valorEntero(cond)
		if err != nil {
			return false, err
		}
		return snap.AntiguedadAnios >= n, nil

	case entity.CondActividadesMinimas:
		n, err := valorEntero(cond)
		if err != nil {
			return false, err
		}
		return len(snap.Actividades) >= n, nil

	case entity.CondExpresion:
		return evaluarExpresion(cond.Expresion, snap)

	default:
		return false, fmt.Errorf("tipo de condición desconocido: %q", cond.Tipo)
	}
}

func valorEntero(cond entity.CondicionRegla) (int, error) {
	n, err := strconv.Atoi(cond.Valor)
	if err != nil {
		return 0, fmt.Errorf("condición %s: valor %q no es entero", cond.Tipo, cond.Valor)
	}
	return n, nil
}

// evaluarExpresion aplica una expresión JsonLogic sobre las variables del
// snapshot. El resultado se interpreta como booleano.
func evaluarExpresion(expr json.RawMessage, snap SocioSnapshot) (bool, error) {
	if len(expr) == 0 {
		return false, fmt.Errorf("condición EXPRESION vacía")
	}
	dataJSON, err := json.Marshal(snap.Variables())
	if err != nil {
		return false, fmt.Errorf("serializar snapshot: %w", err)
	}
	var result bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(expr), bytes.NewReader(dataJSON), &result); err != nil {
		return false, fmt.Errorf("expresión inválida: %w", err)
	}
	var res interface{}
	if err := json.Unmarshal(result.Bytes(), &res); err != nil {
		return false, fmt.Errorf("resultado de expresión ilegible: %w", err)
	}
	switch v := res.(type) {
	case bool:
		return v, nil
	case nil:
		return false, nil
	case float64:
		return v != 0, nil
	default:
		return false, fmt.Errorf("la expresión no produjo un booleano (%T)", res)
	}
}
