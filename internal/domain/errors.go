package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrInsufficientStock   = errors.New("stock insuficiente")
	ErrInsufficientBalance = errors.New("saldo insuficiente en caja")
	ErrRegisterAlreadyOpen = errors.New("el usuario ya tiene una caja abierta")
	ErrRegisterNotOpen     = errors.New("la caja no está abierta")
)

// InsufficientStockError lleva el contexto de un rechazo por falta de stock
// (variante, disponible vs solicitado) para mostrarlo en la UI.
type InsufficientStockError struct {
	VariantID string
	Available int64
	Requested int64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para la variante %s: disponible %d, solicitado %d",
		e.VariantID, e.Available, e.Requested)
}

// Unwrap permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// VariantNotFoundError identifica qué variante del pedido no existe.
type VariantNotFoundError struct {
	VariantID string
}

func (e *VariantNotFoundError) Error() string {
	return fmt.Sprintf("variante de producto %s no encontrada", e.VariantID)
}

func (e *VariantNotFoundError) Unwrap() error { return ErrNotFound }

// InsufficientBalanceError lleva el contexto de una sangría rechazada.
type InsufficientBalanceError struct {
	Available decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("saldo insuficiente en caja: disponible %s, solicitado %s",
		e.Available.StringFixed(2), e.Requested.StringFixed(2))
}

func (e *InsufficientBalanceError) Unwrap() error { return ErrInsufficientBalance }
