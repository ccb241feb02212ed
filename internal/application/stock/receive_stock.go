package stock

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/application/ledger"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/inventory"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
)

// ReceiveStockUseCase registra una entrada de mercadería: movimientos ENTRY
// por línea, incremento de stock vendible y del agregado, y recálculo del
// costo por promedio ponderado cuando la línea trae costo.
type ReceiveStockUseCase struct {
	txRunner TxRunner
	engine   *ledger.Engine
	log      *logger.Logger
}

// NewReceiveStockUseCase crea el caso de uso de recepción de mercadería.
func NewReceiveStockUseCase(txRunner TxRunner, engine *ledger.Engine, log *logger.Logger) *ReceiveStockUseCase {
	return &ReceiveStockUseCase{txRunner: txRunner, engine: engine, log: log}
}

// ReceiveStock procesa la entrada completa en una transacción. Devuelve los
// movimientos emitidos.
func (uc *ReceiveStockUseCase) ReceiveStock(ctx context.Context, userID, branchID string, req *dto.ReceiveStockRequest) ([]dto.MovementResponse, error) {
	if userID == "" || branchID == "" {
		return nil, fmt.Errorf("entrada sin usuario o sucursal: %w", domain.ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return nil, fmt.Errorf("entrada sin líneas: %w", domain.ErrInvalidInput)
	}
	for _, item := range req.Items {
		if item.ProductVariantID == "" || item.Quantity <= 0 {
			return nil, fmt.Errorf("línea con variante vacía o cantidad no positiva: %w", domain.ErrInvalidInput)
		}
		if item.CostPrice != nil && item.CostPrice.IsNegative() {
			return nil, fmt.Errorf("línea con costo negativo: %w", domain.ErrInvalidInput)
		}
	}

	reason := req.Reason
	if reason == "" {
		reason = "Stock entry"
	}
	if req.SupplierID != "" {
		reason = fmt.Sprintf("%s (supplier %s)", reason, req.SupplierID)
	}

	variantIDs := make([]string, 0, len(req.Items))
	seen := make(map[string]bool, len(req.Items))
	for _, item := range req.Items {
		if !seen[item.ProductVariantID] {
			seen[item.ProductVariantID] = true
			variantIDs = append(variantIDs, item.ProductVariantID)
		}
	}
	sort.Strings(variantIDs)

	var out []dto.MovementResponse

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
		variantRepo repository.ProductVariantRepository,
	) error {
		variants, err := variantRepo.ListForUpdate(variantIDs)
		if err != nil {
			return fmt.Errorf("bloquear variantes: %w", err)
		}
		for _, id := range variantIDs {
			if variants[id] == nil {
				return &domain.VariantNotFoundError{VariantID: id}
			}
		}

		for _, item := range req.Items {
			variant := variants[item.ProductVariantID]

			mov := &entity.StockMovement{
				ID:               uuid.NewString(),
				ProductVariantID: variant.ID,
				BranchID:         branchID,
				Quantity:         item.Quantity,
				Type:             entity.MovementTypeENTRY,
				Reason:           reason,
				UserID:           userID,
				CreatedAt:        time.Now(),
			}
			if err := movRepo.Create(mov); err != nil {
				return fmt.Errorf("registrar movimiento de entrada: %w", err)
			}
			if err := uc.engine.Apply(invRepo, mov); err != nil {
				return err
			}

			// El costo se pondera contra el stock previo a esta entrada,
			// mientras la fila sigue bloqueada.
			if item.CostPrice != nil {
				newCost := inventory.WeightedCost(variant.Stock, variant.CostPrice, item.Quantity, *item.CostPrice)
				if err := variantRepo.UpdateCostPrice(variant.ID, newCost); err != nil {
					return fmt.Errorf("actualizar costo de la variante %s: %w", variant.ID, err)
				}
				variant.CostPrice = newCost
			}

			newStock, err := variantRepo.AddStock(variant.ID, item.Quantity)
			if err != nil {
				return fmt.Errorf("incrementar stock de la variante %s: %w", variant.ID, err)
			}
			variant.Stock = newStock

			out = append(out, dto.MovementResponse{
				ID:               mov.ID,
				ProductVariantID: mov.ProductVariantID,
				BranchID:         mov.BranchID,
				Quantity:         mov.Quantity,
				Type:             mov.Type,
				Reason:           mov.Reason,
				UserID:           mov.UserID,
				CreatedAt:        mov.CreatedAt,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("user_id", userID).
		Str("branch_id", branchID).
		Int("lines", len(out)).
		Str("reason", reason).
		Msg("entrada de mercadería registrada")

	return out, nil
}
