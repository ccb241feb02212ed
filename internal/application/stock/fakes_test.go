package stock

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso de stock
// ──────────────────────────────────────────────────────────────

type fakeStore struct {
	variants  map[string]*entity.ProductVariant
	inventory map[string]*entity.Inventory // clave: branch|variant
	movements []*entity.StockMovement
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		variants:  make(map[string]*entity.ProductVariant),
		inventory: make(map[string]*entity.Inventory),
	}
}

func (s *fakeStore) addVariant(id string, cost string, stock int64) {
	s.variants[id] = &entity.ProductVariant{
		ID:        id,
		BranchID:  "branch-1",
		Name:      "variant " + id,
		Price:     decimal.RequireFromString("99.90"),
		CostPrice: decimal.RequireFromString(cost),
		Stock:     stock,
	}
}

type fakeVariantRepo struct{ s *fakeStore }

func (r *fakeVariantRepo) GetByID(id string) (*entity.ProductVariant, error) {
	return r.s.variants[id], nil
}

func (r *fakeVariantRepo) ListForUpdate(ids []string) (map[string]*entity.ProductVariant, error) {
	out := make(map[string]*entity.ProductVariant, len(ids))
	for _, id := range ids {
		if v, ok := r.s.variants[id]; ok {
			out[id] = v
		}
	}
	return out, nil
}

func (r *fakeVariantRepo) AddStock(id string, delta int64) (int64, error) {
	v, ok := r.s.variants[id]
	if !ok {
		return 0, errors.New("variante inexistente")
	}
	v.Stock += delta
	return v.Stock, nil
}

func (r *fakeVariantRepo) UpdateCostPrice(id string, costPrice decimal.Decimal) error {
	v, ok := r.s.variants[id]
	if !ok {
		return errors.New("variante inexistente")
	}
	v.CostPrice = costPrice
	return nil
}

type fakeMovementRepo struct{ s *fakeStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	r.s.movements = append(r.s.movements, m)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.s.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ExistsByReasonAndType(reason, movementType string) (bool, error) {
	for _, m := range r.s.movements {
		if m.Reason == reason && m.Type == movementType {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeMovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.BranchID == branchID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByVariant(variantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.s.movements {
		if m.ProductVariantID == variantID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeInvRepo struct{ s *fakeStore }

func (r *fakeInvRepo) Get(branchID, variantID string) (*entity.Inventory, error) {
	return r.s.inventory[branchID+"|"+variantID], nil
}

func (r *fakeInvRepo) AddQuantity(branchID, variantID string, delta int64) (int64, error) {
	k := branchID + "|" + variantID
	inv, ok := r.s.inventory[k]
	if !ok {
		inv = &entity.Inventory{BranchID: branchID, ProductVariantID: variantID}
		r.s.inventory[k] = inv
	}
	inv.Quantity += delta
	inv.UpdatedAt = time.Now()
	return inv.Quantity, nil
}

func (r *fakeInvRepo) ListByBranch(branchID string, onlyBelowMin bool, limit, offset int) ([]*entity.Inventory, error) {
	var out []*entity.Inventory
	for _, inv := range r.s.inventory {
		if inv.BranchID != branchID {
			continue
		}
		if onlyBelowMin && !inv.BelowMin() {
			continue
		}
		out = append(out, inv)
	}
	return out, nil
}

func (r *fakeInvRepo) SetMinQuantity(branchID, variantID string, minQuantity int64) error {
	k := branchID + "|" + variantID
	inv, ok := r.s.inventory[k]
	if !ok {
		inv = &entity.Inventory{BranchID: branchID, ProductVariantID: variantID}
		r.s.inventory[k] = inv
	}
	inv.MinQuantity = minQuantity
	return nil
}

type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) Run(ctx context.Context, fn func(
	repository.StockMovementRepository,
	repository.InventoryRepository,
	repository.ProductVariantRepository,
) error) error {
	return fn(&fakeMovementRepo{t.s}, &fakeInvRepo{t.s}, &fakeVariantRepo{t.s})
}
