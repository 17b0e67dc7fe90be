package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/club-socios/internal/application/auth"
	"github.com/tu-usuario/club-socios/internal/application/facturacion"
	"github.com/tu-usuario/club-socios/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/club-socios/internal/interfaces/http"
	"github.com/tu-usuario/club-socios/pkg/config"
	"github.com/tu-usuario/club-socios/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   "info",
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	socioRepo := postgres.NewSocioRepository(pool)
	categoriaRepo := postgres.NewCategoriaRepository(pool)
	actividadRepo := postgres.NewActividadRepository(pool)
	ajusteRepo := postgres.NewAjusteRepository(pool)
	historialRepo := postgres.NewHistorialRepository(pool)
	exencionRepo := postgres.NewExencionRepository(pool)
	reglaRepo := postgres.NewReglaRepository(pool)
	cuotaRepo := postgres.NewCuotaRepository(pool)
	reciboRepo := postgres.NewReciboRepository(pool)
	usuarioRepo := postgres.NewUsuarioRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Precarga compartida: la generación y las simulaciones leen el padrón
	// completo en un número fijo de consultas.
	precarga := facturacion.NewPrecargaDatos(
		socioRepo, categoriaRepo, actividadRepo,
		ajusteRepo, exencionRepo, reglaRepo, cuotaRepo,
	)

	generarUC := facturacion.NewGenerarCuotasUseCase(
		precarga, txRunner, log,
		cfg.Cuotas.BatchChunkSize, cfg.Cuotas.DiaVencimiento,
	)
	masivoUC := facturacion.NewAjusteMasivoUseCase(cuotaRepo, socioRepo, actividadRepo, txRunner, log)
	rollbackUC := facturacion.NewRollbackCuotasUseCase(cuotaRepo, reciboRepo, txRunner, log)
	consultasUC := facturacion.NewConsultaCuotasUseCase(cuotaRepo)
	simuladorUC := facturacion.NewSimuladorCuotas(precarga)
	ajustesUC := facturacion.NewAjustesUseCase(ajusteRepo, historialRepo, socioRepo)

	authUC := auth.NewAuthUseCase(usuarioRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		GenerarUC:   generarUC,
		MasivoUC:    masivoUC,
		RollbackUC:  rollbackUC,
		ConsultasUC: consultasUC,
		SimuladorUC: simuladorUC,
		AjustesUC:   ajustesUC,
		AuthUC:      authUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
