package stock

import (
	"fmt"

	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

// ReportUseCase expone las lecturas del libro de movimientos y del agregado
// de inventario. Solo lee: usa repositorios ligados al pool, sin transacción.
type ReportUseCase struct {
	movRepo repository.StockMovementRepository
	invRepo repository.InventoryRepository
}

// NewReportUseCase crea el caso de uso de consultas de stock.
func NewReportUseCase(movRepo repository.StockMovementRepository, invRepo repository.InventoryRepository) *ReportUseCase {
	return &ReportUseCase{movRepo: movRepo, invRepo: invRepo}
}

// ListMovements lista el libro de movimientos de una sucursal, opcionalmente
// filtrado por variante y rango de fechas, más reciente primero.
func (uc *ReportUseCase) ListMovements(branchID string, filter *dto.MovementFilter) (*dto.PageResponse[dto.MovementResponse], error) {
	if branchID == "" {
		return nil, fmt.Errorf("listado sin sucursal: %w", domain.ErrInvalidInput)
	}
	filter.Page.Normalize()

	var (
		movements []*entity.StockMovement
		err       error
	)
	if filter.ProductVariantID != "" {
		movements, err = uc.movRepo.ListByVariant(filter.ProductVariantID, filter.From, filter.To, filter.Page.Limit, filter.Page.Offset)
	} else {
		movements, err = uc.movRepo.ListByBranch(branchID, filter.From, filter.To, filter.Page.Limit, filter.Page.Offset)
	}
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}

	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, dto.MovementResponse{
			ID:               m.ID,
			ProductVariantID: m.ProductVariantID,
			BranchID:         m.BranchID,
			Quantity:         m.Quantity,
			Type:             m.Type,
			Reason:           m.Reason,
			UserID:           m.UserID,
			CreatedAt:        m.CreatedAt,
		})
	}

	return &dto.PageResponse[dto.MovementResponse]{
		Items:  items,
		Limit:  filter.Page.Limit,
		Offset: filter.Page.Offset,
		Count:  len(items),
	}, nil
}

// ListInventory lista el agregado de inventario de una sucursal; con
// onlyBelowMin solo devuelve las filas bajo el mínimo de reposición.
func (uc *ReportUseCase) ListInventory(branchID string, onlyBelowMin bool, page dto.PageRequest) (*dto.PageResponse[dto.InventoryResponse], error) {
	if branchID == "" {
		return nil, fmt.Errorf("listado sin sucursal: %w", domain.ErrInvalidInput)
	}
	page.Normalize()

	rows, err := uc.invRepo.ListByBranch(branchID, onlyBelowMin, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("listar inventario: %w", err)
	}

	items := make([]dto.InventoryResponse, 0, len(rows))
	for _, inv := range rows {
		items = append(items, dto.InventoryResponse{
			BranchID:         inv.BranchID,
			ProductVariantID: inv.ProductVariantID,
			Quantity:         inv.Quantity,
			MinQuantity:      inv.MinQuantity,
			BelowMin:         inv.BelowMin(),
			UpdatedAt:        inv.UpdatedAt,
		})
	}

	return &dto.PageResponse[dto.InventoryResponse]{
		Items:  items,
		Limit:  page.Limit,
		Offset: page.Offset,
		Count:  len(items),
	}, nil
}
