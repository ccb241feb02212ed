package sales

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────
// Fakes en memoria para los casos de uso de venta. Un fakeStore
// agrupa todo el estado; el fakeTxRunner entrega los mismos repos
// a cada "transacción" (los tests son secuenciales).
// ──────────────────────────────────────────────────────────────

type fakeStore struct {
	mu sync.Mutex

	variants  map[string]*entity.ProductVariant
	inventory map[string]int64 // clave: branch|variant
	movements []*entity.StockMovement
	sales     map[string]*entity.Sale
	items     map[string][]*entity.SaleItem
	payments  map[string][]*entity.Payment
	registers map[string]*entity.CashRegister
	cashTxs   []*entity.CashTransaction
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		variants:  make(map[string]*entity.ProductVariant),
		inventory: make(map[string]int64),
		sales:     make(map[string]*entity.Sale),
		items:     make(map[string][]*entity.SaleItem),
		payments:  make(map[string][]*entity.Payment),
		registers: make(map[string]*entity.CashRegister),
	}
}

func (s *fakeStore) addVariant(id, branchID string, price string, stock int64) {
	s.variants[id] = &entity.ProductVariant{
		ID:       id,
		BranchID: branchID,
		Name:     "variant " + id,
		Price:    decimal.RequireFromString(price),
		Stock:    stock,
	}
	s.inventory["branch-1|"+id] = stock
}

func (s *fakeStore) movementsByType(movType string) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, m := range s.movements {
		if m.Type == movType {
			out = append(out, m)
		}
	}
	return out
}

// ── variantes ──

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

// ── movimientos ──

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
	return r.s.movements, nil
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

// ── inventario ──

type fakeInvRepo struct{ s *fakeStore }

func (r *fakeInvRepo) Get(branchID, variantID string) (*entity.Inventory, error) {
	q, ok := r.s.inventory[branchID+"|"+variantID]
	if !ok {
		return nil, nil
	}
	return &entity.Inventory{BranchID: branchID, ProductVariantID: variantID, Quantity: q}, nil
}

func (r *fakeInvRepo) AddQuantity(branchID, variantID string, delta int64) (int64, error) {
	k := branchID + "|" + variantID
	r.s.inventory[k] += delta
	return r.s.inventory[k], nil
}

func (r *fakeInvRepo) ListByBranch(branchID string, onlyBelowMin bool, limit, offset int) ([]*entity.Inventory, error) {
	return nil, nil
}

func (r *fakeInvRepo) SetMinQuantity(branchID, variantID string, minQuantity int64) error {
	return nil
}

// ── ventas ──

type fakeSaleRepo struct{ s *fakeStore }

func (r *fakeSaleRepo) Create(sale *entity.Sale) error {
	cp := *sale
	r.s.sales[sale.ID] = &cp
	return nil
}

func (r *fakeSaleRepo) CreateItem(item *entity.SaleItem) error {
	r.s.items[item.SaleID] = append(r.s.items[item.SaleID], item)
	return nil
}

func (r *fakeSaleRepo) CreatePayment(payment *entity.Payment) error {
	r.s.payments[payment.SaleID] = append(r.s.payments[payment.SaleID], payment)
	return nil
}

func (r *fakeSaleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	cp := *sale
	return &cp, nil
}

func (r *fakeSaleRepo) GetItems(saleID string) ([]*entity.SaleItem, error) {
	return r.s.items[saleID], nil
}

func (r *fakeSaleRepo) GetPayments(saleID string) ([]*entity.Payment, error) {
	return r.s.payments[saleID], nil
}

func (r *fakeSaleRepo) UpdateStatus(id, status string) error {
	sale, ok := r.s.sales[id]
	if !ok {
		return errors.New("venta inexistente")
	}
	sale.Status = status
	sale.UpdatedAt = time.Now()
	return nil
}

// ── cajas ──

type fakeRegisterRepo struct{ s *fakeStore }

func (r *fakeRegisterRepo) Create(register *entity.CashRegister) error {
	r.s.registers[register.ID] = register
	return nil
}

func (r *fakeRegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	return r.s.registers[id], nil
}

func (r *fakeRegisterRepo) GetByIDForUpdate(id string) (*entity.CashRegister, error) {
	return r.s.registers[id], nil
}

func (r *fakeRegisterRepo) GetOpenByUser(userID string) (*entity.CashRegister, error) {
	for _, reg := range r.s.registers {
		if reg.UserID == userID && reg.Status == entity.RegisterStatusOpen {
			return reg, nil
		}
	}
	return nil, nil
}

func (r *fakeRegisterRepo) GetOpenByUserForUpdate(userID string) (*entity.CashRegister, error) {
	return r.GetOpenByUser(userID)
}

func (r *fakeRegisterRepo) CreateTransaction(tx *entity.CashTransaction) error {
	r.s.cashTxs = append(r.s.cashTxs, tx)
	return nil
}

func (r *fakeRegisterRepo) ListTransactions(registerID string) ([]*entity.CashTransaction, error) {
	var out []*entity.CashTransaction
	for _, tx := range r.s.cashTxs {
		if tx.CashRegisterID == registerID {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (r *fakeRegisterRepo) SumTransactions(registerID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, tx := range r.s.cashTxs {
		if tx.CashRegisterID == registerID {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum, nil
}

func (r *fakeRegisterRepo) Close(id string, finalBalance decimal.Decimal, closedAt time.Time) error {
	reg, ok := r.s.registers[id]
	if !ok {
		return errors.New("caja inexistente")
	}
	reg.Status = entity.RegisterStatusClosed
	reg.FinalBalance = &finalBalance
	reg.ClosedAt = &closedAt
	return nil
}

// ── runner y pasarela ──

type fakeTxRunner struct{ s *fakeStore }

func (t *fakeTxRunner) RunSale(ctx context.Context, fn func(
	repository.SaleRepository,
	repository.StockMovementRepository,
	repository.InventoryRepository,
	repository.ProductVariantRepository,
	repository.CashRegisterRepository,
) error) error {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()
	return fn(
		&fakeSaleRepo{t.s},
		&fakeMovementRepo{t.s},
		&fakeInvRepo{t.s},
		&fakeVariantRepo{t.s},
		&fakeRegisterRepo{t.s},
	)
}

type fakeGateway struct {
	calls []PaymentRequest
	err   error
}

func (g *fakeGateway) CreatePayment(ctx context.Context, req PaymentRequest) (*PaymentResult, error) {
	g.calls = append(g.calls, req)
	if g.err != nil {
		return nil, g.err
	}
	return &PaymentResult{Status: "APPROVED", TransactionID: "gw-tx-1"}, nil
}
