package repository

import "github.com/tu-usuario/pos-ledger/internal/domain/entity"

// SaleRepository define el puerto de ventas. Cabecera, líneas y pagos se
// escriben una vez; después de la creación solo muta el campo status.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	CreateItem(item *entity.SaleItem) error
	CreatePayment(payment *entity.Payment) error
	GetByID(id string) (*entity.Sale, error)
	GetItems(saleID string) ([]*entity.SaleItem, error)
	GetPayments(saleID string) ([]*entity.Payment, error)
	// UpdateStatus cambia el estado de la venta (única mutación permitida).
	UpdateStatus(id, status string) error
}
