package entity

import "time"

// Inventory es el agregado de cantidad vigente por (sucursal, variante).
// Se crea de forma perezosa con el primer movimiento de la clave y solo lo
// muta el motor de aplicación de movimientos, con un incremento atómico en
// la capa de almacenamiento (nunca leer-modificar-escribir).
// Invariante auditable: Quantity == Σ deltas con signo de todos los
// StockMovement aplicados para la clave.
type Inventory struct {
	BranchID         string
	ProductVariantID string
	Quantity         int64
	MinQuantity      int64 // umbral de reposición
	UpdatedAt        time.Time
}

// BelowMin indica si la cantidad está por debajo del umbral de reposición.
func (i *Inventory) BelowMin() bool {
	return i.MinQuantity > 0 && i.Quantity < i.MinQuantity
}
