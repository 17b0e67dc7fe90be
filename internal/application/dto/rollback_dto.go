package dto

// RollbackRequest body para POST /api/cuotas/rollback.
type RollbackRequest struct {
	Mes  int    `json:"mes" validate:"required,min=1,max=12"`
	Anio int    `json:"anio" validate:"required,min=2000,max=2100"`
	Modo string `json:"modo" validate:"required,oneof=PREVIEW APLICAR"`
}

// CuotaBloqueadaDTO cuota que la guarda impide eliminar, con su motivo.
type CuotaBloqueadaDTO struct {
	CuotaID string `json:"cuotaId"`
	SocioID string `json:"socioId"`
	Motivo  string `json:"motivo"`
}

// RollbackResponse resultado del rollback de un período. PREVIEW devuelve
// la misma partición eliminables/bloqueadas sobre la que APLICAR actúa.
// Discrepancia=true señala que la verificación post-borrado no coincidió
// con lo esperado y requiere revisión manual.
type RollbackResponse struct {
	Modo              string              `json:"modo"`
	CuotasEliminables int                 `json:"cuotasEliminables"`
	CuotasBloqueadas  int                 `json:"cuotasBloqueadas"`
	Eliminadas        int                 `json:"eliminadas"`
	Bloqueadas        []CuotaBloqueadaDTO `json:"bloqueadas,omitempty"`
	Errores           []string            `json:"errores"`
	Discrepancia      bool                `json:"discrepancia,omitempty"`
}

// RollbackCuotaRequest body para POST /api/cuotas/:id/rollback.
type RollbackCuotaRequest struct {
	Modo string `json:"modo" validate:"required,oneof=PREVIEW APLICAR"`
}

// ValidarRollbackResponse respuesta del chequeo de capacidad de rollback
// (GET /api/cuotas/rollback/validar), sin efectos.
type ValidarRollbackResponse struct {
	PuedeHacerRollback bool     `json:"puedeHacerRollback"`
	CuotasEliminables  int      `json:"cuotasEliminables"`
	CuotasBloqueadas   int      `json:"cuotasBloqueadas"`
	Errores            []string `json:"errores"`
}
