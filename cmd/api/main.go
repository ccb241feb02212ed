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
	"github.com/tu-usuario/pos-ledger/internal/application/cashregister"
	"github.com/tu-usuario/pos-ledger/internal/application/ledger"
	"github.com/tu-usuario/pos-ledger/internal/application/sales"
	"github.com/tu-usuario/pos-ledger/internal/application/stock"
	infragateway "github.com/tu-usuario/pos-ledger/internal/infrastructure/gateway"
	"github.com/tu-usuario/pos-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/pos-ledger/internal/interfaces/http"
	"github.com/tu-usuario/pos-ledger/pkg/config"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
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

	txRunner := postgres.NewTxRunner(pool)

	// Repos ligados al pool para las lecturas fuera de transacción.
	movementRepo := postgres.NewStockMovementRepository(pool)
	inventoryRepo := postgres.NewInventoryRepository(pool)
	registerRepo := postgres.NewCashRegisterRepository(pool)

	engine := ledger.NewEngine(log)
	reactor := sales.NewLifecycleReactor(engine, log)

	// Pasarela de pagos: sin PAYMENT_GATEWAY_URL los pagos no-efectivo se
	// registran sin transaction id (modo desarrollo).
	var paymentGateway sales.PaymentGateway
	if cfg.Gateway.BaseURL != "" {
		paymentGateway = infragateway.NewPaymentClient(cfg.Gateway)
	}

	createSaleUC := sales.NewCreateSaleUseCase(txRunner, paymentGateway, reactor,
		sales.Config{MaxInstallments: cfg.Sales.MaxInstallments}, log)
	cancelSaleUC := sales.NewCancelSaleUseCase(txRunner, reactor, log)
	receiveStockUC := stock.NewReceiveStockUseCase(txRunner, engine, log)
	registerMovementUC := stock.NewRegisterMovementUseCase(txRunner, engine, log)
	stockReportUC := stock.NewReportUseCase(movementRepo, inventoryRepo)
	cashRegisterUC := cashregister.NewUseCase(txRunner, registerRepo, log)

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
		Title:    "POS Ledger API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CreateSale:       createSaleUC,
		CancelSale:       cancelSaleUC,
		ReceiveStock:     receiveStockUC,
		RegisterMovement: registerMovementUC,
		StockReport:      stockReportUC,
		CashRegisterUC:   cashRegisterUC,
		JWTSecret:        cfg.JWT.Secret,
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
