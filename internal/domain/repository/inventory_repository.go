package repository

import "github.com/tu-usuario/pos-ledger/internal/domain/entity"

// InventoryRepository define el puerto del agregado de inventario por
// (sucursal, variante).
type InventoryRepository interface {
	Get(branchID, variantID string) (*entity.Inventory, error)
	// AddQuantity aplica el delta con una única sentencia atómica en el
	// almacenamiento (upsert con quantity = quantity + delta) y devuelve la
	// cantidad resultante. Crea el agregado con quantity=0, min_quantity=0 si
	// no existe. Nunca leer-modificar-escribir: movimientos concurrentes para
	// la misma clave pueden aplicarse desde transacciones que no sostienen el
	// bloqueo de fila del producto.
	AddQuantity(branchID, variantID string, delta int64) (int64, error)
	ListByBranch(branchID string, onlyBelowMin bool, limit, offset int) ([]*entity.Inventory, error)
	SetMinQuantity(branchID, variantID string, minQuantity int64) error
}
