package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
)

// ProductVariantRepository define el puerto de variantes de producto.
// ListForUpdate es el mecanismo que serializa ventas/entradas concurrentes
// sobre las mismas variantes.
type ProductVariantRepository interface {
	GetByID(id string) (*entity.ProductVariant, error)
	// ListForUpdate obtiene las variantes y bloquea sus filas (SELECT FOR
	// UPDATE). El caller debe pasar los ids ordenados para evitar deadlocks
	// entre transacciones que bloquean conjuntos superpuestos.
	ListForUpdate(ids []string) (map[string]*entity.ProductVariant, error)
	// AddStock incrementa/decrementa el contador vendible con una sentencia
	// atómica y devuelve el stock resultante.
	AddStock(id string, delta int64) (int64, error)
	UpdateCostPrice(id string, costPrice decimal.Decimal) error
}
