package repository

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
)

// CashRegisterRepository define el puerto de cajas y su libro de
// transacciones (append-only).
type CashRegisterRepository interface {
	Create(register *entity.CashRegister) error
	GetByID(id string) (*entity.CashRegister, error)
	// GetByIDForUpdate bloquea la fila de la caja para serializar aperturas,
	// movimientos y cierres concurrentes de la misma sesión.
	GetByIDForUpdate(id string) (*entity.CashRegister, error)
	// GetOpenByUser devuelve la caja OPEN del usuario o nil si no hay.
	GetOpenByUser(userID string) (*entity.CashRegister, error)
	// GetOpenByUserForUpdate igual que GetOpenByUser pero con bloqueo de fila
	// (guarda de "una sola caja abierta por usuario").
	GetOpenByUserForUpdate(userID string) (*entity.CashRegister, error)
	CreateTransaction(tx *entity.CashTransaction) error
	ListTransactions(registerID string) ([]*entity.CashTransaction, error)
	// SumTransactions deriva el saldo vigente: SUM(amount) del libro.
	SumTransactions(registerID string) (decimal.Decimal, error)
	// Close marca la caja CLOSED con el efectivo declarado por el operador.
	Close(id string, finalBalance decimal.Decimal, closedAt time.Time) error
}
