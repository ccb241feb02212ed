package entity

import "time"

// Tipos de movimiento de stock.
const (
	MovementTypeENTRY      = "ENTRY"      // entrada (compra / recepción)
	MovementTypeSALE       = "SALE"       // salida por venta
	MovementTypeRETURN     = "RETURN"     // devolución (cancelación de venta)
	MovementTypeLOSS       = "LOSS"       // pérdida / merma
	MovementTypeADJUSTMENT = "ADJUSTMENT" // ajuste manual
)

// StockMovement es un hecho inmutable del libro de inventario: "N unidades de
// la variante V se movieron en la sucursal B por la razón R". Se crea una vez
// y nunca se modifica ni se borra; el stock vigente se deriva aplicando estos
// registros sobre el agregado Inventory.
type StockMovement struct {
	ID               string
	ProductVariantID string
	BranchID         string
	Quantity         int64 // magnitud sin signo; el signo lo define el tipo (salvo ADJUSTMENT)
	Type             string
	Reason           string // texto libre; sirve como clave natural de idempotencia
	UserID           string
	CreatedAt        time.Time
}

// SignedDelta deriva el efecto con signo sobre el inventario:
// ENTRY/RETURN suman, SALE/LOSS restan. Para ADJUSTMENT el signo viene
// embebido en la cantidad indicada por quien registra el ajuste.
func (m *StockMovement) SignedDelta() int64 {
	switch m.Type {
	case MovementTypeENTRY, MovementTypeRETURN:
		return m.Quantity
	case MovementTypeSALE, MovementTypeLOSS:
		return -m.Quantity
	case MovementTypeADJUSTMENT:
		return m.Quantity
	}
	return 0
}

// ValidMovementType indica si el tipo de movimiento es uno de los conocidos.
func ValidMovementType(t string) bool {
	switch t {
	case MovementTypeENTRY, MovementTypeSALE, MovementTypeRETURN, MovementTypeLOSS, MovementTypeADJUSTMENT:
		return true
	}
	return false
}
