package cashregister

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
)

// TxRunner ejecuta fn en una transacción con el repositorio de cajas ligado a
// ella.
type TxRunner interface {
	RunRegister(ctx context.Context, fn func(regRepo repository.CashRegisterRepository) error) error
}

// UseCase gestiona las sesiones de caja: apertura, ingresos/retiros manuales,
// cierre y consulta de saldo. El saldo vigente siempre se deriva del libro de
// transacciones, nunca se mantiene un contador desnormalizado.
type UseCase struct {
	txRunner TxRunner
	regRepo  repository.CashRegisterRepository // lecturas fuera de transacción
	log      *logger.Logger
}

// NewUseCase crea el caso de uso de cajas. regRepo es el repositorio ligado
// al pool para las consultas de solo lectura.
func NewUseCase(txRunner TxRunner, regRepo repository.CashRegisterRepository, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, regRepo: regRepo, log: log}
}

// Open abre una caja para el usuario con el efectivo inicial contado. A lo
// sumo una caja OPEN por usuario; la segunda apertura devuelve
// domain.ErrRegisterAlreadyOpen.
func (uc *UseCase) Open(ctx context.Context, userID string, req *dto.OpenRegisterRequest) (*dto.CashRegisterResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("apertura sin usuario: %w", domain.ErrInvalidInput)
	}
	if req.InitialBalance.IsNegative() {
		return nil, fmt.Errorf("saldo inicial negativo: %w", domain.ErrInvalidInput)
	}

	var resp *dto.CashRegisterResponse

	err := uc.txRunner.RunRegister(ctx, func(regRepo repository.CashRegisterRepository) error {
		existing, err := regRepo.GetOpenByUserForUpdate(userID)
		if err != nil {
			return fmt.Errorf("verificar caja abierta del usuario %s: %w", userID, err)
		}
		if existing != nil {
			return fmt.Errorf("usuario %s, caja %s: %w", userID, existing.ID, domain.ErrRegisterAlreadyOpen)
		}

		now := time.Now()
		register := &entity.CashRegister{
			ID:             uuid.NewString(),
			UserID:         userID,
			InitialBalance: req.InitialBalance,
			Status:         entity.RegisterStatusOpen,
			OpenedAt:       now,
		}
		if err := regRepo.Create(register); err != nil {
			return fmt.Errorf("crear caja: %w", err)
		}

		// El saldo inicial entra al libro como primer asiento; así el saldo
		// derivado arranca en InitialBalance sin casos especiales.
		opening := &entity.CashTransaction{
			ID:             uuid.NewString(),
			CashRegisterID: register.ID,
			Type:           entity.CashTxOpeningBalance,
			Amount:         req.InitialBalance,
			Description:    "Opening balance",
			CreatedAt:      now,
		}
		if err := regRepo.CreateTransaction(opening); err != nil {
			return fmt.Errorf("asentar saldo inicial: %w", err)
		}

		resp = toRegisterResponse(register, req.InitialBalance)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("register_id", resp.ID).
		Str("user_id", userID).
		Str("initial_balance", req.InitialBalance.StringFixed(2)).
		Msg("caja abierta")

	return resp, nil
}

// AddMovement asienta un ingreso (SUPPLY) o retiro (BLEED) manual. El monto
// llega positivo; BLEED se guarda en negativo y se rechaza si supera el saldo
// derivado del libro.
func (uc *UseCase) AddMovement(ctx context.Context, registerID string, req *dto.CashMovementRequest) (*dto.CashTransactionResponse, error) {
	if registerID == "" {
		return nil, fmt.Errorf("movimiento sin caja: %w", domain.ErrInvalidInput)
	}
	if req.Type != entity.CashTxSupply && req.Type != entity.CashTxBleed {
		return nil, fmt.Errorf("tipo %q no admitido como movimiento manual de caja: %w", req.Type, domain.ErrInvalidInput)
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("movimiento de caja con monto no positivo: %w", domain.ErrInvalidInput)
	}

	var resp *dto.CashTransactionResponse

	err := uc.txRunner.RunRegister(ctx, func(regRepo repository.CashRegisterRepository) error {
		register, err := regRepo.GetByIDForUpdate(registerID)
		if err != nil {
			return fmt.Errorf("buscar caja %s: %w", registerID, err)
		}
		if register == nil {
			return fmt.Errorf("caja %s: %w", registerID, domain.ErrNotFound)
		}
		if register.Status != entity.RegisterStatusOpen {
			return fmt.Errorf("caja %s: %w", registerID, domain.ErrRegisterNotOpen)
		}

		amount := req.Amount
		if req.Type == entity.CashTxBleed {
			balance, err := regRepo.SumTransactions(register.ID)
			if err != nil {
				return fmt.Errorf("derivar saldo de la caja %s: %w", register.ID, err)
			}
			if balance.LessThan(req.Amount) {
				return &domain.InsufficientBalanceError{Available: balance, Requested: req.Amount}
			}
			amount = req.Amount.Neg()
		}

		tx := &entity.CashTransaction{
			ID:             uuid.NewString(),
			CashRegisterID: register.ID,
			Type:           req.Type,
			Amount:         amount,
			Description:    req.Description,
			CreatedAt:      time.Now(),
		}
		if err := regRepo.CreateTransaction(tx); err != nil {
			return fmt.Errorf("asentar movimiento de caja: %w", err)
		}

		resp = toTransactionResponse(tx)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("register_id", registerID).
		Str("type", resp.Type).
		Str("amount", resp.Amount.StringFixed(2)).
		Msg("movimiento de caja asentado")

	return resp, nil
}

// Close cierra la caja con el efectivo final contado por el operador. El
// declarado NO se recalcula del libro: la diferencia contra el saldo derivado
// es el descuadre que el negocio revisa.
func (uc *UseCase) Close(ctx context.Context, registerID string, req *dto.CloseRegisterRequest) (*dto.CashRegisterResponse, error) {
	if registerID == "" {
		return nil, fmt.Errorf("cierre sin caja: %w", domain.ErrInvalidInput)
	}
	if req.FinalBalance.IsNegative() {
		return nil, fmt.Errorf("efectivo contado negativo: %w", domain.ErrInvalidInput)
	}

	var resp *dto.CashRegisterResponse

	err := uc.txRunner.RunRegister(ctx, func(regRepo repository.CashRegisterRepository) error {
		register, err := regRepo.GetByIDForUpdate(registerID)
		if err != nil {
			return fmt.Errorf("buscar caja %s: %w", registerID, err)
		}
		if register == nil {
			return fmt.Errorf("caja %s: %w", registerID, domain.ErrNotFound)
		}
		if register.Status != entity.RegisterStatusOpen {
			return fmt.Errorf("caja %s: %w", registerID, domain.ErrRegisterNotOpen)
		}

		derived, err := regRepo.SumTransactions(register.ID)
		if err != nil {
			return fmt.Errorf("derivar saldo de la caja %s: %w", register.ID, err)
		}

		now := time.Now()

		// Marcador de cierre en el libro, monto cero para no alterar el saldo
		// derivado histórico.
		closing := &entity.CashTransaction{
			ID:             uuid.NewString(),
			CashRegisterID: register.ID,
			Type:           entity.CashTxClosingBalance,
			Amount:         decimal.Zero,
			Description:    "Closing balance",
			CreatedAt:      now,
		}
		if err := regRepo.CreateTransaction(closing); err != nil {
			return fmt.Errorf("asentar marcador de cierre: %w", err)
		}

		if err := regRepo.Close(register.ID, req.FinalBalance, now); err != nil {
			return fmt.Errorf("cerrar caja %s: %w", register.ID, err)
		}

		register.Status = entity.RegisterStatusClosed
		final := req.FinalBalance
		register.FinalBalance = &final
		register.ClosedAt = &now

		resp = toRegisterResponse(register, derived)

		diff := req.FinalBalance.Sub(derived)
		if !diff.IsZero() {
			uc.log.Warn().
				Str("register_id", register.ID).
				Str("derived_balance", derived.StringFixed(2)).
				Str("declared_balance", req.FinalBalance.StringFixed(2)).
				Str("difference", diff.StringFixed(2)).
				Msg("cierre de caja con descuadre")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("register_id", registerID).
		Str("final_balance", req.FinalBalance.StringFixed(2)).
		Msg("caja cerrada")

	return resp, nil
}

// GetOpen devuelve la caja abierta del usuario con su saldo derivado, o
// domain.ErrNotFound si no tiene.
func (uc *UseCase) GetOpen(ctx context.Context, userID string) (*dto.CashRegisterResponse, error) {
	register, err := uc.regRepo.GetOpenByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("buscar caja abierta del usuario %s: %w", userID, err)
	}
	if register == nil {
		return nil, fmt.Errorf("usuario %s sin caja abierta: %w", userID, domain.ErrNotFound)
	}
	balance, err := uc.regRepo.SumTransactions(register.ID)
	if err != nil {
		return nil, fmt.Errorf("derivar saldo de la caja %s: %w", register.ID, err)
	}
	return toRegisterResponse(register, balance), nil
}

// ListTransactions devuelve el libro completo de la caja.
func (uc *UseCase) ListTransactions(ctx context.Context, registerID string) ([]dto.CashTransactionResponse, error) {
	register, err := uc.regRepo.GetByID(registerID)
	if err != nil {
		return nil, fmt.Errorf("buscar caja %s: %w", registerID, err)
	}
	if register == nil {
		return nil, fmt.Errorf("caja %s: %w", registerID, domain.ErrNotFound)
	}
	txs, err := uc.regRepo.ListTransactions(registerID)
	if err != nil {
		return nil, fmt.Errorf("listar libro de la caja %s: %w", registerID, err)
	}
	out := make([]dto.CashTransactionResponse, 0, len(txs))
	for _, tx := range txs {
		out = append(out, *toTransactionResponse(tx))
	}
	return out, nil
}

func toRegisterResponse(register *entity.CashRegister, currentBalance decimal.Decimal) *dto.CashRegisterResponse {
	return &dto.CashRegisterResponse{
		ID:             register.ID,
		UserID:         register.UserID,
		InitialBalance: register.InitialBalance,
		FinalBalance:   register.FinalBalance,
		CurrentBalance: currentBalance,
		Status:         register.Status,
		OpenedAt:       register.OpenedAt,
		ClosedAt:       register.ClosedAt,
	}
}

func toTransactionResponse(tx *entity.CashTransaction) *dto.CashTransactionResponse {
	return &dto.CashTransactionResponse{
		ID:             tx.ID,
		CashRegisterID: tx.CashRegisterID,
		Type:           tx.Type,
		Amount:         tx.Amount,
		Description:    tx.Description,
		SaleID:         tx.SaleID,
		CreatedAt:      tx.CreatedAt,
	}
}
