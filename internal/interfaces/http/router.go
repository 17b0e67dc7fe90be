package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/club-socios/internal/application/auth"
	"github.com/tu-usuario/club-socios/internal/application/facturacion"
	"github.com/tu-usuario/club-socios/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	GenerarUC   *facturacion.GenerarCuotasUseCase
	MasivoUC    *facturacion.AjusteMasivoUseCase
	RollbackUC  *facturacion.RollbackCuotasUseCase
	ConsultasUC *facturacion.ConsultaCuotasUseCase
	SimuladorUC *facturacion.SimuladorCuotas
	AjustesUC   *facturacion.AjustesUseCase
	AuthUC      *auth.AuthUseCase
	JWTSecret   string
}

// Router registra las rutas de la API. Las lecturas quedan abiertas a
// cualquier usuario autenticado; las operaciones que escriben cuotas o
// ajustes requieren rol admin o tesorero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	escribe := RequireRole(entity.RolAdmin, entity.RolTesorero)

	// Cuotas (protegido)
	cuotas := protected.Group("/cuotas")
	cuotaHandler := NewCuotaHandler(deps.GenerarUC, deps.MasivoUC, deps.RollbackUC, deps.ConsultasUC)
	cuotas.Post("/generar", escribe, cuotaHandler.Generar)
	cuotas.Post("/ajuste-masivo", escribe, cuotaHandler.AjusteMasivo)
	cuotas.Post("/descuento-global", escribe, cuotaHandler.DescuentoGlobal)
	cuotas.Post("/actualizar-masivo", escribe, cuotaHandler.ActualizarMasivo)
	cuotas.Post("/rollback", escribe, cuotaHandler.RollbackPeriodo)
	cuotas.Get("/rollback/validar", cuotaHandler.ValidarRollback)
	cuotas.Post("/:id/rollback", escribe, cuotaHandler.RollbackCuota)
	cuotas.Get("/", cuotaHandler.ListByPeriodo)
	cuotas.Get("/:id", cuotaHandler.GetByID)

	// Simulaciones (protegido, solo lectura)
	simulaciones := protected.Group("/simulaciones")
	simulacionHandler := NewSimulacionHandler(deps.SimuladorUC)
	simulaciones.Post("/generacion", simulacionHandler.Generacion)
	simulaciones.Post("/regla", simulacionHandler.Regla)
	simulaciones.Post("/escenarios", simulacionHandler.Escenarios)
	simulaciones.Post("/impacto-masivo", simulacionHandler.ImpactoMasivo)

	// Ajustes manuales por socio (protegido)
	ajustes := protected.Group("/ajustes")
	ajusteHandler := NewAjusteHandler(deps.AjustesUC)
	ajustes.Post("/", escribe, ajusteHandler.Crear)
	ajustes.Put("/:id", escribe, ajusteHandler.Actualizar)
	ajustes.Delete("/:id", escribe, ajusteHandler.Desactivar)
	ajustes.Get("/:id", ajusteHandler.GetByID)
	ajustes.Get("/:id/historial", ajusteHandler.Historial)
	protected.Get("/socios/:socioId/ajustes", ajusteHandler.ListBySocio)
}
