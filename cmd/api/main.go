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
	"github.com/kardex-io/kardex-api/internal/application/stock"
	"github.com/kardex-io/kardex-api/internal/application/usecase"
	"github.com/kardex-io/kardex-api/internal/infrastructure/excel"
	infrapdf "github.com/kardex-io/kardex-api/internal/infrastructure/pdf"
	"github.com/kardex-io/kardex-api/internal/infrastructure/postgres"
	httpRouter "github.com/kardex-io/kardex-api/internal/interfaces/http"
	"github.com/kardex-io/kardex-api/pkg/config"
	"github.com/kardex-io/kardex-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(cfg.App.Env, cfg.App.LogLevel)
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

	if err := os.MkdirAll(cfg.App.UploadsDir, 0o755); err != nil {
		log.Fatal().Err(err).Msg("crear directorio de uploads")
	}

	productoRepo := postgres.NewProductoRepository(pool)
	movRepo := postgres.NewMovimientoRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockUC := stock.NewUseCase(txRunner, productoRepo, movRepo)
	productoUC := usecase.NewProductoUseCase(productoRepo, txRunner)
	reporteUC := usecase.NewReporteUseCase(productoRepo, movRepo)
	importUC := usecase.NewImportUseCase(productoUC, stockUC)
	documentosUC := usecase.NewDocumentosUseCase(
		movRepo, productoRepo,
		infrapdf.NewMarotoComprobanteGenerator(),
		excel.NewExporter(),
	)

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
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Kardex API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductoUC:   productoUC,
		ReporteUC:    reporteUC,
		ImportUC:     importUC,
		DocumentosUC: documentosUC,
		StockUC:      stockUC,
		UploadsDir:   cfg.App.UploadsDir,
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
