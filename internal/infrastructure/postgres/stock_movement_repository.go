package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

// StockMovementRepo implementación de StockMovementRepository sobre PostgreSQL
// (usable con pool o tx). El libro es append-only: no hay UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create inserta el movimiento.
func (r *StockMovementRepo) Create(m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, product_variant_id, branch_id, quantity, type, reason, user_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(context.Background(), query,
		m.ID, m.ProductVariantID, m.BranchID, m.Quantity, m.Type, m.Reason, m.UserID, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create stock movement: %w", err)
	}
	return nil
}

// GetByID devuelve el movimiento o nil si no existe.
func (r *StockMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	query := `
		SELECT id, product_variant_id, branch_id, quantity, type, reason, user_id, created_at
		FROM stock_movements WHERE id = $1`
	var m entity.StockMovement
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&m.ID, &m.ProductVariantID, &m.BranchID, &m.Quantity, &m.Type, &m.Reason, &m.UserID, &m.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return &m, nil
}

// ExistsByReasonAndType es la guarda de idempotencia del reactor: consulta si
// ya hay un movimiento con esa razón y tipo.
func (r *StockMovementRepo) ExistsByReasonAndType(reason, movementType string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM stock_movements WHERE reason = $1 AND type = $2)`
	var exists bool
	err := r.q.QueryRow(context.Background(), query, reason, movementType).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists stock movement: %w", err)
	}
	return exists, nil
}

// ListByBranch lista los movimientos de una sucursal, opcionalmente acotados
// por fecha, más reciente primero.
func (r *StockMovementRepo) ListByBranch(branchID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_variant_id, branch_id, quantity, type, reason, user_id, created_at
		FROM stock_movements
		WHERE branch_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	return r.list(query, branchID, from, to, limit, offset)
}

// ListByVariant lista los movimientos de una variante, opcionalmente acotados
// por fecha, más reciente primero.
func (r *StockMovementRepo) ListByVariant(variantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `
		SELECT id, product_variant_id, branch_id, quantity, type, reason, user_id, created_at
		FROM stock_movements
		WHERE product_variant_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC
		LIMIT $4 OFFSET $5`
	return r.list(query, variantID, from, to, limit, offset)
}

func (r *StockMovementRepo) list(query string, key string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	rows, err := r.q.Query(context.Background(), query, key, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock movements: %w", err)
	}
	defer rows.Close()

	var out []*entity.StockMovement
	for rows.Next() {
		var m entity.StockMovement
		if err := rows.Scan(
			&m.ID, &m.ProductVariantID, &m.BranchID, &m.Quantity, &m.Type, &m.Reason, &m.UserID, &m.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		out = append(out, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock movements: %w", err)
	}
	return out, nil
}
