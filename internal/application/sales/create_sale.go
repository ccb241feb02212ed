package sales

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/internal/domain/repository"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
)

// Config reglas de venta que el orquestador recibe como snapshot explícito al
// construirse (no hay cache global de configuración).
type Config struct {
	MaxInstallments int
}

// CreateSaleUseCase orquesta la venta completa: bloqueo de variantes,
// validación de stock, totales, persistencia de venta/líneas/pagos, cobro por
// pasarela, emisión de movimientos y asiento de caja. Todo en una
// transacción.
type CreateSaleUseCase struct {
	txRunner TxRunner
	gateway  PaymentGateway
	reactor  *LifecycleReactor
	cfg      Config
	log      *logger.Logger
}

// NewCreateSaleUseCase crea el orquestador de ventas. gateway puede ser nil
// (sin pasarela configurada): los pagos no-efectivo se registran sin ID de
// transacción externa.
func NewCreateSaleUseCase(txRunner TxRunner, gateway PaymentGateway, reactor *LifecycleReactor, cfg Config, log *logger.Logger) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		txRunner: txRunner,
		gateway:  gateway,
		reactor:  reactor,
		cfg:      cfg,
		log:      log,
	}
}

// CreateSale registra una venta completa. En caso de éxito la venta, sus
// líneas, pagos, movimientos de stock y asientos de caja quedan durables y
// consistentes entre sí; ante cualquier fallo no queda nada.
func (uc *CreateSaleUseCase) CreateSale(ctx context.Context, userID, branchID string, req *dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := uc.validate(userID, branchID, req); err != nil {
		return nil, err
	}

	// Cantidades consolidadas por variante, con los ids ordenados para que
	// transacciones concurrentes bloqueen en el mismo orden.
	qtyByVariant := make(map[string]int64, len(req.Items))
	for _, item := range req.Items {
		qtyByVariant[item.ProductVariantID] += item.Quantity
	}
	variantIDs := make([]string, 0, len(qtyByVariant))
	for id := range qtyByVariant {
		variantIDs = append(variantIDs, id)
	}
	sort.Strings(variantIDs)

	var resp *dto.SaleResponse

	err := uc.txRunner.RunSale(ctx, func(
		saleRepo repository.SaleRepository,
		movRepo repository.StockMovementRepository,
		invRepo repository.InventoryRepository,
		variantRepo repository.ProductVariantRepository,
		registerRepo repository.CashRegisterRepository,
	) error {
		variants, err := variantRepo.ListForUpdate(variantIDs)
		if err != nil {
			return fmt.Errorf("bloquear variantes: %w", err)
		}

		// Existencia y stock se validan con las filas ya bloqueadas: nadie
		// puede vender las mismas unidades en paralelo.
		for _, id := range variantIDs {
			variant, ok := variants[id]
			if !ok || variant == nil {
				return &domain.VariantNotFoundError{VariantID: id}
			}
			if variant.Stock < qtyByVariant[id] {
				return &domain.InsufficientStockError{
					VariantID: id,
					Available: variant.Stock,
					Requested: qtyByVariant[id],
				}
			}
		}

		// Totales con los precios congelados de las filas bloqueadas.
		total := decimal.Zero
		for _, item := range req.Items {
			variant := variants[item.ProductVariantID]
			total = total.Add(variant.Price.Mul(decimal.NewFromInt(item.Quantity)))
		}
		if req.DiscountAmount.GreaterThan(total) {
			return fmt.Errorf("descuento %s mayor que el total %s: %w",
				req.DiscountAmount, total, domain.ErrInvalidInput)
		}
		final := total.Sub(req.DiscountAmount)

		now := time.Now()
		sale := &entity.Sale{
			ID:             uuid.NewString(),
			UserID:         userID,
			BranchID:       branchID,
			CustomerID:     req.CustomerID,
			TotalAmount:    total,
			DiscountAmount: req.DiscountAmount,
			FinalAmount:    final,
			Status:         entity.SaleStatusCompleted,
			Note:           req.Note,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := saleRepo.Create(sale); err != nil {
			return fmt.Errorf("crear venta: %w", err)
		}

		saleItems := make([]*entity.SaleItem, 0, len(req.Items))
		for _, item := range req.Items {
			variant := variants[item.ProductVariantID]
			saleItem := &entity.SaleItem{
				ID:               uuid.NewString(),
				SaleID:           sale.ID,
				ProductVariantID: variant.ID,
				Quantity:         item.Quantity,
				UnitPrice:        variant.Price,
				TotalPrice:       variant.Price.Mul(decimal.NewFromInt(item.Quantity)),
			}
			if err := saleRepo.CreateItem(saleItem); err != nil {
				return fmt.Errorf("crear línea de venta: %w", err)
			}
			saleItems = append(saleItems, saleItem)
		}

		payments, err := uc.collectPayments(ctx, sale, req.Payments)
		if err != nil {
			return err
		}
		for _, payment := range payments {
			if err := saleRepo.CreatePayment(payment); err != nil {
				return fmt.Errorf("crear pago: %w", err)
			}
		}

		// Débito de stock: el reactor emite los movimientos SALE dentro de
		// esta misma transacción.
		if err := uc.reactor.Transition(movRepo, invRepo, variantRepo, sale, saleItems,
			"", entity.SaleStatusCompleted); err != nil {
			return err
		}

		if err := uc.recordCashIncome(registerRepo, sale, payments); err != nil {
			return err
		}

		resp = toSaleResponse(sale, saleItems, payments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", resp.ID).
		Str("user_id", userID).
		Str("branch_id", branchID).
		Str("final_amount", resp.FinalAmount.String()).
		Int("items", len(resp.Items)).
		Msg("venta registrada")

	return resp, nil
}

func (uc *CreateSaleUseCase) validate(userID, branchID string, req *dto.CreateSaleRequest) error {
	if userID == "" || branchID == "" {
		return fmt.Errorf("venta sin usuario o sucursal: %w", domain.ErrInvalidInput)
	}
	if len(req.Items) == 0 {
		return fmt.Errorf("venta sin líneas: %w", domain.ErrInvalidInput)
	}
	for _, item := range req.Items {
		if item.ProductVariantID == "" || item.Quantity <= 0 {
			return fmt.Errorf("línea con variante vacía o cantidad no positiva: %w", domain.ErrInvalidInput)
		}
	}
	if len(req.Payments) == 0 {
		return fmt.Errorf("venta sin pagos: %w", domain.ErrInvalidInput)
	}
	for i, p := range req.Payments {
		if !entity.ValidPaymentMethod(p.Method) {
			return fmt.Errorf("método de pago %q desconocido: %w", p.Method, domain.ErrInvalidInput)
		}
		if !p.Amount.IsPositive() {
			return fmt.Errorf("pago con monto no positivo: %w", domain.ErrInvalidInput)
		}
		if p.Installments > uc.cfg.MaxInstallments {
			return fmt.Errorf("pago %d excede el máximo de %d cuotas: %w",
				i, uc.cfg.MaxInstallments, domain.ErrInvalidInput)
		}
	}
	if req.DiscountAmount.IsNegative() {
		return fmt.Errorf("descuento negativo: %w", domain.ErrInvalidInput)
	}
	return nil
}

// collectPayments construye los pagos de la venta, cobrando por la pasarela
// los métodos que no son efectivo. Un error de la pasarela aborta la venta.
func (uc *CreateSaleUseCase) collectPayments(ctx context.Context, sale *entity.Sale, reqs []dto.SalePaymentRequest) ([]*entity.Payment, error) {
	payments := make([]*entity.Payment, 0, len(reqs))
	for _, p := range reqs {
		installments := p.Installments
		if installments < 1 {
			installments = 1
		}

		payment := &entity.Payment{
			ID:           uuid.NewString(),
			SaleID:       sale.ID,
			Method:       p.Method,
			Amount:       p.Amount,
			Installments: installments,
			CreatedAt:    time.Now(),
		}

		if p.Method != entity.PaymentMethodMoney && uc.gateway != nil {
			result, err := uc.gateway.CreatePayment(ctx, PaymentRequest{
				SaleID:       sale.ID,
				Method:       p.Method,
				Amount:       p.Amount,
				Installments: installments,
			})
			if err != nil {
				return nil, fmt.Errorf("cobrar pago %s por pasarela: %w", p.Method, err)
			}
			payment.GatewayTransactionID = result.TransactionID
		}

		payments = append(payments, payment)
	}
	return payments, nil
}

// recordCashIncome asienta en la caja abierta del vendedor el efectivo
// recibido. Si el vendedor no tiene caja abierta se registra la advertencia y
// la venta continúa: el efectivo sin caja es un problema operativo, no un
// motivo para perder la venta.
func (uc *CreateSaleUseCase) recordCashIncome(registerRepo repository.CashRegisterRepository, sale *entity.Sale, payments []*entity.Payment) error {
	cash := decimal.Zero
	for _, p := range payments {
		if p.Method == entity.PaymentMethodMoney {
			cash = cash.Add(p.Amount)
		}
	}
	if !cash.IsPositive() {
		return nil
	}

	register, err := registerRepo.GetOpenByUser(sale.UserID)
	if err != nil {
		return fmt.Errorf("buscar caja abierta del usuario %s: %w", sale.UserID, err)
	}
	if register == nil {
		uc.log.Warn().
			Str("sale_id", sale.ID).
			Str("user_id", sale.UserID).
			Str("cash_amount", cash.String()).
			Msg("venta en efectivo sin caja abierta, no se asienta en caja")
		return nil
	}

	saleID := sale.ID
	tx := &entity.CashTransaction{
		ID:             uuid.NewString(),
		CashRegisterID: register.ID,
		Type:           entity.CashTxSale,
		Amount:         cash,
		Description:    saleReason(sale.ID),
		SaleID:         &saleID,
		CreatedAt:      time.Now(),
	}
	if err := registerRepo.CreateTransaction(tx); err != nil {
		return fmt.Errorf("asentar venta en caja %s: %w", register.ID, err)
	}
	return nil
}

func toSaleResponse(sale *entity.Sale, items []*entity.SaleItem, payments []*entity.Payment) *dto.SaleResponse {
	resp := &dto.SaleResponse{
		ID:             sale.ID,
		UserID:         sale.UserID,
		BranchID:       sale.BranchID,
		CustomerID:     sale.CustomerID,
		TotalAmount:    sale.TotalAmount,
		DiscountAmount: sale.DiscountAmount,
		FinalAmount:    sale.FinalAmount,
		Status:         sale.Status,
		Note:           sale.Note,
		CreatedAt:      sale.CreatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.SaleItemResponse{
			ID:               item.ID,
			ProductVariantID: item.ProductVariantID,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			TotalPrice:       item.TotalPrice,
		})
	}
	for _, payment := range payments {
		resp.Payments = append(resp.Payments, dto.SalePaymentResponse{
			ID:                   payment.ID,
			Method:               payment.Method,
			Amount:               payment.Amount,
			Installments:         payment.Installments,
			GatewayTransactionID: payment.GatewayTransactionID,
		})
	}
	return resp
}
