package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateSaleRequest request para registrar una venta completa.
type CreateSaleRequest struct {
	Items          []SaleItemRequest    `json:"items" validate:"required,min=1,dive"`
	Payments       []SalePaymentRequest `json:"payments" validate:"required,min=1,dive"`
	CustomerID     *string              `json:"customer_id,omitempty"`
	DiscountAmount decimal.Decimal      `json:"discount_amount"`
	Note           string               `json:"note,omitempty" validate:"omitempty,max=500"`
}

// SaleItemRequest línea de venta.
type SaleItemRequest struct {
	ProductVariantID string `json:"product_variant_id" validate:"required"`
	Quantity         int64  `json:"quantity" validate:"required,gt=0"`
}

// SalePaymentRequest pago de una venta. Una venta admite pagos mixtos
// (efectivo + tarjeta, por ejemplo).
type SalePaymentRequest struct {
	Method       string          `json:"method" validate:"required,oneof=MONEY CREDIT_CARD DEBIT_CARD PIX"`
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments,omitempty" validate:"omitempty,min=1"`
}

// SaleResponse venta persistida con sus líneas y pagos.
type SaleResponse struct {
	ID             string                `json:"id"`
	UserID         string                `json:"user_id"`
	BranchID       string                `json:"branch_id"`
	CustomerID     *string               `json:"customer_id,omitempty"`
	TotalAmount    decimal.Decimal       `json:"total_amount"`
	DiscountAmount decimal.Decimal       `json:"discount_amount"`
	FinalAmount    decimal.Decimal       `json:"final_amount"`
	Status         string                `json:"status"`
	Note           string                `json:"note,omitempty"`
	Items          []SaleItemResponse    `json:"items"`
	Payments       []SalePaymentResponse `json:"payments"`
	CreatedAt      time.Time             `json:"created_at"`
}

// SaleItemResponse línea persistida con el precio congelado al momento de la venta.
type SaleItemResponse struct {
	ID               string          `json:"id"`
	ProductVariantID string          `json:"product_variant_id"`
	Quantity         int64           `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	TotalPrice       decimal.Decimal `json:"total_price"`
}

// SalePaymentResponse pago persistido.
type SalePaymentResponse struct {
	ID                   string          `json:"id"`
	Method               string          `json:"method"`
	Amount               decimal.Decimal `json:"amount"`
	Installments         int             `json:"installments"`
	GatewayTransactionID string          `json:"gateway_transaction_id,omitempty"`
}
