package ledger

import (
	"fmt"

	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
)

// Engine aplica movimientos de stock sobre el agregado de inventario por
// sucursal. Es el único camino de escritura del agregado: todo ajuste de
// cantidad pasa por aquí, siempre dentro de la transacción del llamador.
type Engine struct {
	log *logger.Logger
}

// NewEngine crea el motor de aplicación de movimientos.
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log}
}

// Apply deriva el delta con signo del movimiento y lo aplica al agregado en un
// solo statement atómico (upsert relativo). Devuelve domain.ErrInvalidInput si
// faltan sucursal o variante; delta cero es un no-op.
func (e *Engine) Apply(invRepo repository.InventoryRepository, mov *entity.StockMovement) error {
	if mov.BranchID == "" || mov.ProductVariantID == "" {
		return fmt.Errorf("movimiento %s sin sucursal o variante: %w", mov.ID, domain.ErrInvalidInput)
	}
	if !entity.ValidMovementType(mov.Type) {
		return fmt.Errorf("movimiento %s tipo %q: %w", mov.ID, mov.Type, domain.ErrInvalidInput)
	}

	delta := mov.SignedDelta()
	if delta == 0 {
		e.log.Debug().
			Str("movement_id", mov.ID).
			Str("type", mov.Type).
			Msg("movimiento con delta cero, sin efecto sobre inventario")
		return nil
	}

	after, err := invRepo.AddQuantity(mov.BranchID, mov.ProductVariantID, delta)
	if err != nil {
		return fmt.Errorf("aplicar movimiento %s al inventario: %w", mov.ID, err)
	}

	e.log.Info().
		Str("movement_id", mov.ID).
		Str("branch_id", mov.BranchID).
		Str("variant_id", mov.ProductVariantID).
		Str("type", mov.Type).
		Int64("delta", delta).
		Int64("quantity_before", after-delta).
		Int64("quantity_after", after).
		Msg("movimiento aplicado al inventario")

	return nil
}
