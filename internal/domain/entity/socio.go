package entity

import "time"

// Estados de un socio.
const (
	SocioActivo = "ACTIVO"
	SocioBaja   = "BAJA"
)

// Socio representa un socio de la asociación. Solo los socios ACTIVO
// entran en la generación de cuotas.
type Socio struct {
	ID              string
	Nombre          string
	Apellido        string
	Documento       string
	Email           string
	CategoriaID     string
	FechaNacimiento time.Time
	FechaAlta       time.Time // antigüedad en el club
	Estado          string    // ACTIVO, BAJA
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
