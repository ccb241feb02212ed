package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveStockRequest entrada de mercadería (compra a proveedor, reposición).
type ReceiveStockRequest struct {
	Items      []StockEntryItem `json:"items" validate:"required,min=1,dive"`
	SupplierID string           `json:"supplier_id,omitempty"`
	Reason     string           `json:"reason,omitempty" validate:"omitempty,max=255"`
}

// StockEntryItem línea de entrada. CostPrice opcional: si viene, el costo del
// variante se recalcula por promedio ponderado.
type StockEntryItem struct {
	ProductVariantID string           `json:"product_variant_id" validate:"required"`
	Quantity         int64            `json:"quantity" validate:"required,gt=0"`
	CostPrice        *decimal.Decimal `json:"cost_price,omitempty"`
}

// RegisterMovementRequest movimiento manual de stock (ajuste o pérdida).
type RegisterMovementRequest struct {
	ProductVariantID string `json:"product_variant_id" validate:"required"`
	Type             string `json:"type" validate:"required,oneof=ADJUSTMENT LOSS"`
	Quantity         int64  `json:"quantity"`
	Reason           string `json:"reason" validate:"required,max=255"`
}

// MovementResponse movimiento del libro mayor de stock.
type MovementResponse struct {
	ID               string    `json:"id"`
	ProductVariantID string    `json:"product_variant_id"`
	BranchID         string    `json:"branch_id"`
	Quantity         int64     `json:"quantity"`
	Type             string    `json:"type"`
	Reason           string    `json:"reason"`
	UserID           string    `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// MovementFilter filtros del listado de movimientos.
type MovementFilter struct {
	ProductVariantID string     `json:"product_variant_id,omitempty"`
	From             *time.Time `json:"from,omitempty"`
	To               *time.Time `json:"to,omitempty"`
	Page             PageRequest
}

// InventoryResponse fila del agregado de inventario por sucursal.
type InventoryResponse struct {
	BranchID         string    `json:"branch_id"`
	ProductVariantID string    `json:"product_variant_id"`
	Quantity         int64     `json:"quantity"`
	MinQuantity      int64     `json:"min_quantity"`
	BelowMin         bool      `json:"below_min"`
	UpdatedAt        time.Time `json:"updated_at"`
}
