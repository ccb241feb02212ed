package stock

import (
	"context"

	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción con los repositorios de stock
// ligados a ella.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
		variantRepo repository.ProductVariantRepository,
	) error) error
}
