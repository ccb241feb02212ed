package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

var _ repository.InventoryRepository = (*InventoryRepo)(nil)

// InventoryRepo implementación de InventoryRepository sobre PostgreSQL (usable con pool o tx).
type InventoryRepo struct {
	q Querier
}

// NewInventoryRepository construye el adaptador del agregado de inventario. Pasar pool o tx (Querier).
func NewInventoryRepository(q Querier) *InventoryRepo {
	return &InventoryRepo{q: q}
}

// Get devuelve el agregado de (sucursal, variante) o nil si aún no existe.
func (r *InventoryRepo) Get(branchID, variantID string) (*entity.Inventory, error) {
	query := `
		SELECT branch_id, product_variant_id, quantity, min_quantity, updated_at
		FROM inventory WHERE branch_id = $1 AND product_variant_id = $2`
	var inv entity.Inventory
	err := r.q.QueryRow(context.Background(), query, branchID, variantID).Scan(
		&inv.BranchID, &inv.ProductVariantID, &inv.Quantity, &inv.MinQuantity, &inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory: %w", err)
	}
	return &inv, nil
}

// AddQuantity aplica el delta en una única sentencia atómica (upsert relativo)
// y devuelve la cantidad resultante. El agregado se crea en cero si no existe.
// Nunca leer-modificar-escribir: la atomicidad del statement es lo que permite
// aplicar movimientos concurrentes sin sostener el bloqueo de la variante.
func (r *InventoryRepo) AddQuantity(branchID, variantID string, delta int64) (int64, error) {
	query := `
		INSERT INTO inventory (branch_id, product_variant_id, quantity, min_quantity, updated_at)
		VALUES ($1, $2, $3, 0, now())
		ON CONFLICT (branch_id, product_variant_id)
		DO UPDATE SET quantity = inventory.quantity + $3, updated_at = now()
		RETURNING quantity`
	var quantity int64
	err := r.q.QueryRow(context.Background(), query, branchID, variantID, delta).Scan(&quantity)
	if err != nil {
		return 0, fmt.Errorf("add inventory quantity: %w", err)
	}
	return quantity, nil
}

// ListByBranch lista el agregado de una sucursal; con onlyBelowMin solo las
// filas bajo el mínimo de reposición.
func (r *InventoryRepo) ListByBranch(branchID string, onlyBelowMin bool, limit, offset int) ([]*entity.Inventory, error) {
	query := `
		SELECT branch_id, product_variant_id, quantity, min_quantity, updated_at
		FROM inventory
		WHERE branch_id = $1
		  AND ($2 = false OR quantity < min_quantity)
		ORDER BY product_variant_id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, branchID, onlyBelowMin, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	var out []*entity.Inventory
	for rows.Next() {
		var inv entity.Inventory
		if err := rows.Scan(
			&inv.BranchID, &inv.ProductVariantID, &inv.Quantity, &inv.MinQuantity, &inv.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan inventory: %w", err)
		}
		out = append(out, &inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate inventory: %w", err)
	}
	return out, nil
}

// SetMinQuantity fija el mínimo de reposición (crea el agregado en cero si no existe).
func (r *InventoryRepo) SetMinQuantity(branchID, variantID string, minQuantity int64) error {
	query := `
		INSERT INTO inventory (branch_id, product_variant_id, quantity, min_quantity, updated_at)
		VALUES ($1, $2, 0, $3, now())
		ON CONFLICT (branch_id, product_variant_id)
		DO UPDATE SET min_quantity = $3, updated_at = now()`
	_, err := r.q.Exec(context.Background(), query, branchID, variantID, minQuantity)
	if err != nil {
		return fmt.Errorf("set min quantity: %w", err)
	}
	return nil
}
