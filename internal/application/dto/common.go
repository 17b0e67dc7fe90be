package dto

// Modos de ejecución compartidos por ajustes masivos y rollback.
// PREVIEW calcula sin escribir; APLICAR ejecuta el mismo cálculo y persiste.
const (
	ModoPreview = "PREVIEW"
	ModoAplicar = "APLICAR"
)

// PageRequest paginación para listados.
type PageRequest struct {
	Limit  int `query:"limit" validate:"min=0,max=100"`
	Offset int `query:"offset" validate:"min=0"`
}

// DefaultPage aplica valores por defecto si Limit/Offset son cero.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorSocioDTO error de negocio por socio dentro de un batch: el socio
// falla, el resto sigue.
type ErrorSocioDTO struct {
	SocioID string `json:"socioId"`
	Motivo  string `json:"motivo"`
}

// PerformanceDTO estadísticas de una corrida de generación.
type PerformanceDTO struct {
	SociosProcesados    int   `json:"sociosProcesados"`
	DuracionMs          int64 `json:"duracionMs"`
	ConsultasEjecutadas int   `json:"consultasEjecutadas"`
}
