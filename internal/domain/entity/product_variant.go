package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductVariant representa una variante vendible de un producto en una
// sucursal. Stock es el contador vendible que protege el bloqueo de fila
// (SELECT FOR UPDATE) durante ventas y entradas; el agregado Inventory por
// sucursal se actualiza en paralelo a partir de los movimientos.
type ProductVariant struct {
	ID        string
	ProductID string
	BranchID  string
	Name      string
	SKU       string
	Price     decimal.Decimal
	CostPrice decimal.Decimal
	Stock     int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
