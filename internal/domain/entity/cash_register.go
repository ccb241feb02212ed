package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de la caja.
const (
	RegisterStatusOpen   = "OPEN"
	RegisterStatusClosed = "CLOSED"
)

// Tipos de transacción de caja. OPENING_BALANCE y SUPPLY se guardan en
// positivo, BLEED en negativo; SALE es entrada de efectivo (positivo).
// CLOSING_BALANCE es un marcador de monto cero al cierre.
const (
	CashTxOpeningBalance = "OPENING_BALANCE"
	CashTxSale           = "SALE"
	CashTxSupply         = "SUPPLY"
	CashTxBleed          = "BLEED"
	CashTxClosingBalance = "CLOSING_BALANCE"
)

// CashRegister es la sesión de caja de un usuario. Invariante: a lo sumo una
// caja OPEN por usuario. FinalBalance es el efectivo contado físicamente que
// declara el operador al cierre, NO se recalcula del libro: la diferencia
// contra el saldo derivado alimenta el reporte de descuadres.
type CashRegister struct {
	ID             string
	UserID         string
	InitialBalance decimal.Decimal
	FinalBalance   *decimal.Decimal
	Status         string
	OpenedAt       time.Time
	ClosedAt       *time.Time
}

// CashTransaction es una entrada inmutable del libro de la caja. El saldo
// vigente siempre se deriva como SUM(Amount); nunca se desnormaliza salvo el
// snapshot FinalBalance al cierre.
type CashTransaction struct {
	ID             string
	CashRegisterID string
	Type           string
	Amount         decimal.Decimal // con signo
	Description    string
	SaleID         *string
	CreatedAt      time.Time
}
