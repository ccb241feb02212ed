package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-ledger/internal/application/cashregister"
	"github.com/tu-usuario/pos-ledger/internal/application/sales"
	"github.com/tu-usuario/pos-ledger/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CreateSale       *sales.CreateSaleUseCase
	CancelSale       *sales.CancelSaleUseCase
	ReceiveStock     *stock.ReceiveStockUseCase
	RegisterMovement *stock.RegisterMovementUseCase
	StockReport      *stock.ReportUseCase
	CashRegisterUC   *cashregister.UseCase
	JWTSecret        string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Sales (protegido)
	salesGroup := protected.Group("/sales")
	saleHandler := NewSaleHandler(deps.CreateSale, deps.CancelSale)
	salesGroup.Post("/", saleHandler.Create)
	// Cancelar revierte stock: solo perfiles de supervisión.
	salesGroup.Post("/:id/cancel", RequireRole("admin", "gerente"), saleHandler.Cancel)

	// Stock: entradas, movimientos manuales y libro (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.ReceiveStock, deps.RegisterMovement, deps.StockReport)
	stockGroup.Post("/entries", stockHandler.ReceiveStock)
	stockGroup.Post("/movements", stockHandler.RegisterMovement)
	stockGroup.Get("/movements", stockHandler.ListMovements)

	// Inventario agregado por sucursal (protegido)
	protected.Get("/inventory", stockHandler.ListInventory)

	// Cash registers (protegido)
	registers := protected.Group("/cash-registers")
	registerHandler := NewCashRegisterHandler(deps.CashRegisterUC)
	registers.Post("/", registerHandler.Open)
	registers.Get("/open", registerHandler.GetOpen)
	registers.Post("/:id/transactions", registerHandler.AddMovement)
	registers.Get("/:id/transactions", registerHandler.ListTransactions)
	registers.Post("/:id/close", registerHandler.Close)
}
