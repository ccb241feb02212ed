package sales

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción de base de datos y le entrega
// repositorios ligados a esa transacción. Si fn devuelve error, rollback; si
// no, commit.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
		variantRepo repository.ProductVariantRepository,
		registerRepo repository.CashRegisterRepository,
	) error) error
}

// PaymentRequest datos que viajan a la pasarela de pagos.
type PaymentRequest struct {
	SaleID       string
	Method       string
	Amount       decimal.Decimal
	Installments int
}

// PaymentResult respuesta de la pasarela.
type PaymentResult struct {
	Status        string
	TransactionID string
}

// PaymentGateway es el puerto hacia la pasarela de pagos externa (caja
// negra). Un error aborta la venta completa; la implementación nil se
// interpreta como "sin pasarela configurada".
type PaymentGateway interface {
	CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error)
}
