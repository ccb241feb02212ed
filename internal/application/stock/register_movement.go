package stock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/application/ledger"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
)

// RegisterMovementUseCase registra movimientos manuales de stock: ajustes de
// conteo (ADJUSTMENT, cantidad con signo) y mermas (LOSS, cantidad positiva).
// Las entradas van por ReceiveStock y los débitos de venta los emite el
// reactor; este caso de uso solo admite los tipos manuales.
type RegisterMovementUseCase struct {
	txRunner TxRunner
	engine   *ledger.Engine
	log      *logger.Logger
}

// NewRegisterMovementUseCase crea el caso de uso de movimientos manuales.
func NewRegisterMovementUseCase(txRunner TxRunner, engine *ledger.Engine, log *logger.Logger) *RegisterMovementUseCase {
	return &RegisterMovementUseCase{txRunner: txRunner, engine: engine, log: log}
}

// RegisterMovement emite el movimiento manual y ajusta agregado y stock
// vendible en una transacción.
func (uc *RegisterMovementUseCase) RegisterMovement(ctx context.Context, userID, branchID string, req *dto.RegisterMovementRequest) (*dto.MovementResponse, error) {
	if userID == "" || branchID == "" {
		return nil, fmt.Errorf("movimiento sin usuario o sucursal: %w", domain.ErrInvalidInput)
	}
	if req.ProductVariantID == "" {
		return nil, fmt.Errorf("movimiento sin variante: %w", domain.ErrInvalidInput)
	}
	if req.Reason == "" {
		return nil, fmt.Errorf("movimiento manual sin razón: %w", domain.ErrInvalidInput)
	}

	switch req.Type {
	case entity.MovementTypeADJUSTMENT:
		if req.Quantity == 0 {
			return nil, fmt.Errorf("ajuste con cantidad cero: %w", domain.ErrInvalidInput)
		}
	case entity.MovementTypeLOSS:
		if req.Quantity <= 0 {
			return nil, fmt.Errorf("merma con cantidad no positiva: %w", domain.ErrInvalidInput)
		}
	default:
		return nil, fmt.Errorf("tipo %q no admitido como movimiento manual: %w", req.Type, domain.ErrInvalidInput)
	}

	var resp *dto.MovementResponse

	err := uc.txRunner.Run(ctx, func(
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
		variantRepo repository.ProductVariantRepository,
	) error {
		variants, err := variantRepo.ListForUpdate([]string{req.ProductVariantID})
		if err != nil {
			return fmt.Errorf("bloquear variante: %w", err)
		}
		variant := variants[req.ProductVariantID]
		if variant == nil {
			return &domain.VariantNotFoundError{VariantID: req.ProductVariantID}
		}

		mov := &entity.StockMovement{
			ID:               uuid.NewString(),
			ProductVariantID: variant.ID,
			BranchID:         branchID,
			Quantity:         req.Quantity,
			Type:             req.Type,
			Reason:           req.Reason,
			UserID:           userID,
			CreatedAt:        time.Now(),
		}
		delta := mov.SignedDelta()

		// La merma no puede dejar el stock vendible negativo; el ajuste sí
		// puede, es la corrección de un conteo físico.
		if req.Type == entity.MovementTypeLOSS && variant.Stock < req.Quantity {
			return &domain.InsufficientStockError{
				VariantID: variant.ID,
				Available: variant.Stock,
				Requested: req.Quantity,
			}
		}

		if err := movRepo.Create(mov); err != nil {
			return fmt.Errorf("registrar movimiento manual: %w", err)
		}
		if err := uc.engine.Apply(invRepo, mov); err != nil {
			return err
		}
		if _, err := variantRepo.AddStock(variant.ID, delta); err != nil {
			return fmt.Errorf("ajustar stock de la variante %s: %w", variant.ID, err)
		}

		resp = &dto.MovementResponse{
			ID:               mov.ID,
			ProductVariantID: mov.ProductVariantID,
			BranchID:         mov.BranchID,
			Quantity:         mov.Quantity,
			Type:             mov.Type,
			Reason:           mov.Reason,
			UserID:           mov.UserID,
			CreatedAt:        mov.CreatedAt,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("movement_id", resp.ID).
		Str("type", resp.Type).
		Int64("quantity", resp.Quantity).
		Str("reason", resp.Reason).
		Msg("movimiento manual registrado")

	return resp, nil
}
