package sales

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/pos-ledger/internal/application/ledger"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
)

// LifecycleReactor reacciona a los cambios de estado de una venta emitiendo
// los movimientos de stock correspondientes. Lo invoca explícitamente el
// orquestador dentro de la misma transacción del cambio de estado: no hay
// hooks implícitos, la máquina de estados es visible en el código.
//
// Transiciones con efecto:
//
//	→ COMPLETED            débito de stock (movimientos SALE)
//	COMPLETED → CANCELED   crédito de stock (movimientos RETURN)
//
// Cualquier otra transición es un no-op.
type LifecycleReactor struct {
	engine *ledger.Engine
	log    *logger.Logger
}

// NewLifecycleReactor crea el reactor de ciclo de vida de ventas.
func NewLifecycleReactor(engine *ledger.Engine, log *logger.Logger) *LifecycleReactor {
	return &LifecycleReactor{engine: engine, log: log}
}

// saleReason y cancelReason son las claves naturales de idempotencia del
// libro: un reintento de la misma transición encuentra el movimiento ya
// emitido y no duplica el efecto.
func saleReason(saleID string) string {
	return fmt.Sprintf("Sale #%s", saleID)
}

func cancelReason(saleID string) string {
	return fmt.Sprintf("Cancellation Sale #%s", saleID)
}

// Transition emite los efectos de stock de un cambio de estado. Debe
// ejecutarse dentro de la transacción que persiste el cambio de estado, con
// repositorios ligados a esa transacción.
func (r *LifecycleReactor) Transition(
	movRepo repository.StockMovementRepository,
	invRepo repository.InventoryRepository,
	variantRepo repository.ProductVariantRepository,
	sale *entity.Sale,
	items []*entity.SaleItem,
	from, to string,
) error {
	switch {
	case to == entity.SaleStatusCompleted:
		return r.emit(movRepo, invRepo, variantRepo, sale, items,
			entity.MovementTypeSALE, saleReason(sale.ID))
	case from == entity.SaleStatusCompleted && to == entity.SaleStatusCanceled:
		return r.emit(movRepo, invRepo, variantRepo, sale, items,
			entity.MovementTypeRETURN, cancelReason(sale.ID))
	default:
		r.log.Debug().
			Str("sale_id", sale.ID).
			Str("from", from).
			Str("to", to).
			Msg("transición sin efecto de stock")
		return nil
	}
}

func (r *LifecycleReactor) emit(
	movRepo repository.StockMovementRepository,
	invRepo repository.InventoryRepository,
	variantRepo repository.ProductVariantRepository,
	sale *entity.Sale,
	items []*entity.SaleItem,
	movType, reason string,
) error {
	exists, err := movRepo.ExistsByReasonAndType(reason, movType)
	if err != nil {
		return fmt.Errorf("verificar guarda de idempotencia %q: %w", reason, err)
	}
	if exists {
		r.log.Info().
			Str("sale_id", sale.ID).
			Str("type", movType).
			Str("reason", reason).
			Msg("movimientos ya emitidos para esta transición, sin re-emisión")
		return nil
	}

	for _, item := range items {
		variant, err := variantRepo.GetByID(item.ProductVariantID)
		if err != nil {
			return fmt.Errorf("resolver variante %s: %w", item.ProductVariantID, err)
		}
		if variant == nil {
			// Dato degradado: la línea apunta a una variante inexistente. Se
			// registra y se continúa con el resto de la venta.
			r.log.Warn().
				Str("sale_id", sale.ID).
				Str("variant_id", item.ProductVariantID).
				Msg("línea de venta sin variante resoluble, se omite su movimiento")
			continue
		}

		mov := &entity.StockMovement{
			ID:               uuid.NewString(),
			ProductVariantID: variant.ID,
			BranchID:         sale.BranchID,
			Quantity:         item.Quantity,
			Type:             movType,
			Reason:           reason,
			UserID:           sale.UserID,
			CreatedAt:        time.Now(),
		}
		if err := movRepo.Create(mov); err != nil {
			return fmt.Errorf("registrar movimiento de la venta %s: %w", sale.ID, err)
		}

		if err := r.engine.Apply(invRepo, mov); err != nil {
			if errors.Is(err, domain.ErrInvalidInput) {
				r.log.Warn().
					Err(err).
					Str("sale_id", sale.ID).
					Str("movement_id", mov.ID).
					Msg("movimiento sin datos suficientes para el agregado, se omite")
				continue
			}
			return err
		}

		// El contador vendible del variante sigue el mismo signo que el
		// agregado para esta transición.
		if _, err := variantRepo.AddStock(variant.ID, mov.SignedDelta()); err != nil {
			return fmt.Errorf("ajustar stock del variante %s: %w", variant.ID, err)
		}
	}

	return nil
}
