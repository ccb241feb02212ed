package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
)

var _ repository.CashRegisterRepository = (*CashRegisterRepo)(nil)

// CashRegisterRepo implementación de CashRegisterRepository sobre PostgreSQL
// (usable con pool o tx). La tabla lleva un índice único parcial sobre
// (user_id) WHERE status = 'OPEN' como última línea de defensa de la regla
// "una caja abierta por usuario".
type CashRegisterRepo struct {
	q Querier
}

// NewCashRegisterRepository construye el adaptador de cajas. Pasar pool o tx (Querier).
func NewCashRegisterRepository(q Querier) *CashRegisterRepo {
	return &CashRegisterRepo{q: q}
}

// Create inserta la caja. Una violación del índice único parcial se traduce a
// domain.ErrRegisterAlreadyOpen.
func (r *CashRegisterRepo) Create(register *entity.CashRegister) error {
	query := `
		INSERT INTO cash_registers (id, user_id, initial_balance, final_balance, status, opened_at, closed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		register.ID, register.UserID, register.InitialBalance, register.FinalBalance,
		register.Status, register.OpenedAt, register.ClosedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("usuario %s: %w", register.UserID, domain.ErrRegisterAlreadyOpen)
		}
		return fmt.Errorf("create cash register: %w", err)
	}
	return nil
}

const registerColumns = `id, user_id, initial_balance, final_balance, status, opened_at, closed_at`

// GetByID devuelve la caja o nil si no existe.
func (r *CashRegisterRepo) GetByID(id string) (*entity.CashRegister, error) {
	query := `SELECT ` + registerColumns + ` FROM cash_registers WHERE id = $1`
	return r.getOne(query, id)
}

// GetByIDForUpdate devuelve la caja bloqueando su fila (SELECT FOR UPDATE)
// para serializar movimientos y cierres concurrentes de la misma sesión.
func (r *CashRegisterRepo) GetByIDForUpdate(id string) (*entity.CashRegister, error) {
	query := `SELECT ` + registerColumns + ` FROM cash_registers WHERE id = $1 FOR UPDATE`
	return r.getOne(query, id)
}

// GetOpenByUser devuelve la caja OPEN del usuario o nil si no hay.
func (r *CashRegisterRepo) GetOpenByUser(userID string) (*entity.CashRegister, error) {
	query := `SELECT ` + registerColumns + ` FROM cash_registers WHERE user_id = $1 AND status = 'OPEN'`
	return r.getOne(query, userID)
}

// GetOpenByUserForUpdate igual que GetOpenByUser pero con bloqueo de fila.
func (r *CashRegisterRepo) GetOpenByUserForUpdate(userID string) (*entity.CashRegister, error) {
	query := `SELECT ` + registerColumns + ` FROM cash_registers WHERE user_id = $1 AND status = 'OPEN' FOR UPDATE`
	return r.getOne(query, userID)
}

func (r *CashRegisterRepo) getOne(query string, arg any) (*entity.CashRegister, error) {
	var reg entity.CashRegister
	err := r.q.QueryRow(context.Background(), query, arg).Scan(
		&reg.ID, &reg.UserID, &reg.InitialBalance, &reg.FinalBalance,
		&reg.Status, &reg.OpenedAt, &reg.ClosedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get cash register: %w", err)
	}
	return &reg, nil
}

// CreateTransaction inserta un asiento del libro de la caja.
func (r *CashRegisterRepo) CreateTransaction(tx *entity.CashTransaction) error {
	query := `
		INSERT INTO cash_transactions (id, cash_register_id, type, amount, description, sale_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.q.Exec(context.Background(), query,
		tx.ID, tx.CashRegisterID, tx.Type, tx.Amount, tx.Description, tx.SaleID, tx.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create cash transaction: %w", err)
	}
	return nil
}

// ListTransactions devuelve el libro de la caja en orden cronológico.
func (r *CashRegisterRepo) ListTransactions(registerID string) ([]*entity.CashTransaction, error) {
	query := `
		SELECT id, cash_register_id, type, amount, description, sale_id, created_at
		FROM cash_transactions WHERE cash_register_id = $1
		ORDER BY created_at, id`
	rows, err := r.q.Query(context.Background(), query, registerID)
	if err != nil {
		return nil, fmt.Errorf("list cash transactions: %w", err)
	}
	defer rows.Close()

	var out []*entity.CashTransaction
	for rows.Next() {
		var tx entity.CashTransaction
		if err := rows.Scan(
			&tx.ID, &tx.CashRegisterID, &tx.Type, &tx.Amount, &tx.Description, &tx.SaleID, &tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan cash transaction: %w", err)
		}
		out = append(out, &tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cash transactions: %w", err)
	}
	return out, nil
}

// SumTransactions deriva el saldo vigente de la caja: SUM(amount) del libro.
func (r *CashRegisterRepo) SumTransactions(registerID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM cash_transactions WHERE cash_register_id = $1`
	var sum decimal.Decimal
	err := r.q.QueryRow(context.Background(), query, registerID).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum cash transactions: %w", err)
	}
	return sum, nil
}

// Close marca la caja CLOSED con el efectivo declarado por el operador.
func (r *CashRegisterRepo) Close(id string, finalBalance decimal.Decimal, closedAt time.Time) error {
	query := `
		UPDATE cash_registers
		SET status = 'CLOSED', final_balance = $2, closed_at = $3
		WHERE id = $1`
	tag, err := r.q.Exec(context.Background(), query, id, finalBalance, closedAt)
	if err != nil {
		return fmt.Errorf("close cash register: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("close cash register: caja %s inexistente", id)
	}
	return nil
}
