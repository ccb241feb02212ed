package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OpenRegisterRequest apertura de caja con el efectivo inicial contado.
type OpenRegisterRequest struct {
	InitialBalance decimal.Decimal `json:"initial_balance"`
}

// CashMovementRequest ingreso (SUPPLY) o retiro (BLEED) manual de efectivo.
// Amount siempre positivo; el signo lo decide el tipo.
type CashMovementRequest struct {
	Type        string          `json:"type" validate:"required,oneof=SUPPLY BLEED"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty" validate:"omitempty,max=255"`
}

// CloseRegisterRequest cierre de caja con el efectivo final contado por el
// operador. No se recalcula: la diferencia contra el saldo derivado es
// justamente lo que el negocio quiere ver.
type CloseRegisterRequest struct {
	FinalBalance decimal.Decimal `json:"final_balance"`
}

// CashRegisterResponse caja con su saldo vigente derivado del libro.
type CashRegisterResponse struct {
	ID             string           `json:"id"`
	UserID         string           `json:"user_id"`
	InitialBalance decimal.Decimal  `json:"initial_balance"`
	FinalBalance   *decimal.Decimal `json:"final_balance,omitempty"`
	CurrentBalance decimal.Decimal  `json:"current_balance"`
	Status         string           `json:"status"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}

// CashTransactionResponse asiento del libro de caja.
type CashTransactionResponse struct {
	ID             string          `json:"id"`
	CashRegisterID string          `json:"cash_register_id"`
	Type           string          `json:"type"`
	Amount         decimal.Decimal `json:"amount"`
	Description    string          `json:"description,omitempty"`
	SaleID         *string         `json:"sale_id,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}
