package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una venta. Se crea COMPLETED directamente (no hay checkout por
// etapas); la única transición mutante modelada es COMPLETED → CANCELED y
// ninguna transición sale de CANCELED.
const (
	SaleStatusPendingPayment = "PENDING_PAYMENT"
	SaleStatusCompleted      = "COMPLETED"
	SaleStatusCanceled       = "CANCELED"
)

// Métodos de pago aceptados.
const (
	PaymentMethodMoney      = "MONEY"
	PaymentMethodCreditCard = "CREDIT_CARD"
	PaymentMethodDebitCard  = "DEBIT_CARD"
	PaymentMethodPix        = "PIX"
)

// Sale es la cabecera de una venta.
// Invariante: FinalAmount = TotalAmount − DiscountAmount y
// Σ SaleItem.TotalPrice == TotalAmount al momento de la creación.
type Sale struct {
	ID             string
	UserID         string
	BranchID       string
	CustomerID     *string
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	FinalAmount    decimal.Decimal
	Status         string
	Note           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SaleItem es una línea de la venta, con el precio bloqueado al momento de
// crearla.
type SaleItem struct {
	ID               string
	SaleID           string
	ProductVariantID string
	Quantity         int64
	UnitPrice        decimal.Decimal
	TotalPrice       decimal.Decimal
}

// Payment es un pago asociado a la venta. Para métodos distintos de MONEY el
// ID de transacción lo devuelve la pasarela de pagos (caja negra).
type Payment struct {
	ID                   string
	SaleID               string
	Method               string
	Amount               decimal.Decimal
	Installments         int
	GatewayTransactionID string
	CreatedAt            time.Time
}

// ValidPaymentMethod indica si el método de pago es uno de los aceptados.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentMethodMoney, PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodPix:
		return true
	}
	return false
}
