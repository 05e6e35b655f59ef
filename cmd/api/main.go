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
	"github.com/routiva/routiva-api/internal/application/inventory"
	"github.com/routiva/routiva-api/internal/application/orders"
	"github.com/routiva/routiva-api/internal/application/pricing"
	"github.com/routiva/routiva-api/internal/application/usecase"
	"github.com/routiva/routiva-api/internal/infrastructure/postgres"
	httpRouter "github.com/routiva/routiva-api/internal/interfaces/http"
	"github.com/routiva/routiva-api/pkg/config"
	"github.com/routiva/routiva-api/pkg/logger"
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
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	productRepo := postgres.NewProductRepository(pool)
	priceRepo := postgres.NewPriceRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	sellerRepo := postgres.NewSellerRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	resolver := pricing.NewResolver(priceRepo)
	productUC := usecase.NewProductUseCase(productRepo, priceRepo)
	sellerUC := usecase.NewSellerUseCase(sellerRepo)
	ledgerUC := inventory.NewLedgerUseCase(txRunner, productRepo, stockRepo, movementRepo)
	transferUC := inventory.NewTransferUseCase(txRunner, productRepo, sellerRepo)
	orderUC := orders.NewOrderUseCase(txRunner, resolver, orderRepo, sellerRepo)

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
		Title:    "Routiva API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC:  productUC,
		SellerUC:   sellerUC,
		LedgerUC:   ledgerUC,
		TransferUC: transferUC,
		OrderUC:    orderUC,
		JWTSecret:  cfg.JWT.Secret,
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
