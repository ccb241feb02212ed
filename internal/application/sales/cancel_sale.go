package sales

import (
	"context"
	"fmt"

	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
)

// CancelSaleUseCase cancela una venta COMPLETED: marca CANCELED y acredita el
// stock vía movimientos RETURN, todo en una transacción. No emite
// compensación de caja: la devolución de efectivo es un proceso manual
// separado.
type CancelSaleUseCase struct {
	txRunner TxRunner
	reactor  *LifecycleReactor
	log      *logger.Logger
}

// NewCancelSaleUseCase crea el caso de uso de cancelación.
func NewCancelSaleUseCase(txRunner TxRunner, reactor *LifecycleReactor, log *logger.Logger) *CancelSaleUseCase {
	return &CancelSaleUseCase{txRunner: txRunner, reactor: reactor, log: log}
}

// CancelSale cancela la venta indicada. Solo COMPLETED admite cancelación;
// cualquier otro estado devuelve domain.ErrConflict (de CANCELED no se sale).
func (uc *CancelSaleUseCase) CancelSale(ctx context.Context, saleID string) (*dto.SaleResponse, error) {
	if saleID == "" {
		return nil, fmt.Errorf("cancelación sin id de venta: %w", domain.ErrInvalidInput)
	}

	var resp *dto.SaleResponse

	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
		variantRepo repository.ProductVariantRepository,
		_ repository.CashRegisterRepository,
	) error {
		sale, err := saleRepo.GetByID(saleID)
		if err != nil {
			return fmt.Errorf("buscar venta %s: %w", saleID, err)
		}
		if sale == nil {
			return fmt.Errorf("venta %s: %w", saleID, domain.ErrNotFound)
		}
		if sale.Status != entity.SaleStatusCompleted {
			return fmt.Errorf("venta %s en estado %s no admite cancelación: %w",
				saleID, sale.Status, domain.ErrConflict)
		}

		if err := saleRepo.UpdateStatus(sale.ID, entity.SaleStatusCanceled); err != nil {
			return fmt.Errorf("marcar venta %s cancelada: %w", sale.ID, err)
		}

		items, err := saleRepo.GetItems(sale.ID)
		if err != nil {
			return fmt.Errorf("leer líneas de la venta %s: %w", sale.ID, err)
		}

		// Crédito de stock: movimientos RETURN con guarda de idempotencia,
		// en la misma transacción que el cambio de estado.
		if err := uc.reactor.Transition(movRepo, invRepo, variantRepo, sale, items,
			entity.SaleStatusCompleted, entity.SaleStatusCanceled); err != nil {
			return err
		}

		payments, err := saleRepo.GetPayments(sale.ID)
		if err != nil {
			return fmt.Errorf("leer pagos de la venta %s: %w", sale.ID, err)
		}

		sale.Status = entity.SaleStatusCanceled
		resp = toSaleResponse(sale, items, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", saleID).
		Msg("venta cancelada y stock acreditado")

	return resp, nil
}
