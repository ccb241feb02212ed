package repository

import (
	"time"

	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
)

// StockMovementRepository define el puerto del libro de movimientos
// (append-only: solo creación y lectura, nunca update ni delete).
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	// ExistsByReasonAndType es la guarda de idempotencia del reactor de ciclo
	// de vida: la razón actúa como clave natural ("Sale #<id>").
	ExistsByReasonAndType(reason, movementType string) (bool, error)
	ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByVariant(variantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
