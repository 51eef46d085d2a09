package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appdte "github.com/tu-usuario/dte-engine/internal/application/dte"
	inframh "github.com/tu-usuario/dte-engine/internal/infrastructure/mh"
	"github.com/tu-usuario/dte-engine/internal/infrastructure/postgres"
	"github.com/tu-usuario/dte-engine/internal/infrastructure/schemas"
	httpRouter "github.com/tu-usuario/dte-engine/internal/interfaces/http"
	"github.com/tu-usuario/dte-engine/pkg/config"
	"github.com/tu-usuario/dte-engine/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("ambiente_mh", cfg.MH.Ambiente).
		Msg("iniciando motor DTE")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	registry, err := schemas.NewRegistry(cfg.Schemas.Dir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.Schemas.Dir).Msg("cargar schemas de DTE")
	}

	firmador, err := inframh.NewFirmador(cfg.MH.ClaveFirma)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar firmador")
	}
	transmisor := inframh.NewTransmisor(cfg.MH.Ambiente, log.Zerolog())

	dteRepo := postgres.NewDTERepository(pool)
	calcularUC := appdte.NewCalcularUseCase()
	validarUC := appdte.NewValidarUseCase(registry)
	emitirUC := appdte.NewEmitirUseCase(dteRepo, firmador, transmisor, registry, cfg.MH.Ambiente, log.Zerolog())
	consultarUC := appdte.NewConsultarUseCase(dteRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/openapi.json",
		Path:     "docs",
		Title:    "DTE Engine API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CalcularUC:  calcularUC,
		ValidarUC:   validarUC,
		EmitirUC:    emitirUC,
		ConsultarUC: consultarUC,
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

	log.Info().Msg("motor DTE detenido")
}
