package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

var _ repository.ProductVariantRepository = (*ProductVariantRepo)(nil)

// ProductVariantRepo implementación de ProductVariantRepository sobre PostgreSQL (usable con pool o tx).
type ProductVariantRepo struct {
	q Querier
}

// NewProductVariantRepository construye el adaptador de variantes. Pasar pool o tx (Querier).
func NewProductVariantRepository(q Querier) *ProductVariantRepo {
	return &ProductVariantRepo{q: q}
}

const variantColumns = `id, product_id, branch_id, name, sku, price, cost_price, stock, created_at, updated_at`

// GetByID devuelve la variante o nil si no existe.
func (r *ProductVariantRepo) GetByID(id string) (*entity.ProductVariant, error) {
	query := `SELECT ` + variantColumns + ` FROM product_variants WHERE id = $1`
	v, err := scanVariant(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product variant: %w", err)
	}
	return v, nil
}

// ListForUpdate obtiene las variantes indicadas y bloquea sus filas
// (SELECT FOR UPDATE). El ORDER BY id garantiza que transacciones con
// conjuntos superpuestos bloqueen en el mismo orden.
func (r *ProductVariantRepo) ListForUpdate(ids []string) (map[string]*entity.ProductVariant, error) {
	query := `SELECT ` + variantColumns + `
		FROM product_variants WHERE id = ANY($1)
		ORDER BY id
		FOR UPDATE`
	rows, err := r.q.Query(context.Background(), query, ids)
	if err != nil {
		return nil, fmt.Errorf("lock product variants: %w", err)
	}
	defer rows.Close()

	out := make(map[string]*entity.ProductVariant, len(ids))
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product variant: %w", err)
		}
		out[v.ID] = v
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate product variants: %w", err)
	}
	return out, nil
}

// AddStock aplica el delta al contador vendible en una sentencia atómica y
// devuelve el stock resultante.
func (r *ProductVariantRepo) AddStock(id string, delta int64) (int64, error) {
	query := `
		UPDATE product_variants
		SET stock = stock + $2, updated_at = now()
		WHERE id = $1
		RETURNING stock`
	var stock int64
	err := r.q.QueryRow(context.Background(), query, id, delta).Scan(&stock)
	if err != nil {
		return 0, fmt.Errorf("add stock: %w", err)
	}
	return stock, nil
}

// UpdateCostPrice actualiza el costo de la variante.
func (r *ProductVariantRepo) UpdateCostPrice(id string, costPrice decimal.Decimal) error {
	query := `UPDATE product_variants SET cost_price = $2, updated_at = now() WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, costPrice)
	if err != nil {
		return fmt.Errorf("update cost price: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("update cost price: variante %s inexistente", id)
	}
	return nil
}

func scanVariant(row pgx.Row) (*entity.ProductVariant, error) {
	var v entity.ProductVariant
	err := row.Scan(
		&v.ID, &v.ProductID, &v.BranchID, &v.Name, &v.SKU,
		&v.Price, &v.CostPrice, &v.Stock, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
