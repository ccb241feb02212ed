package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/application/ledger"
	"github.com/tu-usuario/pos-ledger/internal/domain"
	"github.com/tu-usuario/pos-ledger/internal/domain/entity"
	"github.com/tu-usuario/pos-ledger/pkg/logger"
)

func newCreateSaleUC(s *fakeStore, gateway PaymentGateway) *CreateSaleUseCase {
	log := logger.Nop()
	reactor := NewLifecycleReactor(ledger.NewEngine(log), log)
	return NewCreateSaleUseCase(&fakeTxRunner{s}, gateway, reactor, Config{MaxInstallments: 12}, log)
}

func cashPayment(amount string) dto.SalePaymentRequest {
	return dto.SalePaymentRequest{Method: entity.PaymentMethodMoney, Amount: decimal.RequireFromString(amount)}
}

// ──────────────────────────────────────────────────────────────
// Camino feliz
// ──────────────────────────────────────────────────────────────

func TestCreateSale_CaminoFeliz(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-7", "branch-1", "20.00", 10)
	uc := newCreateSaleUC(store, nil)

	resp, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-7", Quantity: 2}},
		Payments: []dto.SalePaymentRequest{cashPayment("40.00")},
	})
	require.NoError(t, err, "la venta debe registrarse")

	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("40.00")), "total = precio × cantidad")
	assert.True(t, resp.FinalAmount.Equal(decimal.RequireFromString("40.00")), "sin descuento, final = total")
	assert.Equal(t, entity.SaleStatusCompleted, resp.Status)
	require.Len(t, resp.Items, 1)
	assert.True(t, resp.Items[0].UnitPrice.Equal(decimal.RequireFromString("20.00")),
		"el precio de la línea queda congelado al de la variante")

	// Efectos de stock: contador vendible, agregado y libro.
	assert.Equal(t, int64(8), store.variants["var-7"].Stock, "el stock vendible baja a 8")
	assert.Equal(t, int64(8), store.inventory["branch-1|var-7"], "el agregado baja a 8")
	saleMovs := store.movementsByType(entity.MovementTypeSALE)
	require.Len(t, saleMovs, 1, "debe emitirse exactamente un movimiento SALE")
	assert.Equal(t, int64(2), saleMovs[0].Quantity)
	assert.Equal(t, "Sale #"+resp.ID, saleMovs[0].Reason)
}

func TestCreateSale_DescuentoAplicado(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "50.00", 10)
	uc := newCreateSaleUC(store, nil)

	resp, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:          []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 2}},
		Payments:       []dto.SalePaymentRequest{cashPayment("90.00")},
		DiscountAmount: decimal.RequireFromString("10.00"),
	})
	require.NoError(t, err)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("100.00")))
	assert.True(t, resp.FinalAmount.Equal(decimal.RequireFromString("90.00")), "final = total − descuento")
}

func TestCreateSale_EfectivoAsentadoEnCajaAbierta(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 10)
	store.registers["reg-1"] = &entity.CashRegister{
		ID:     "reg-1",
		UserID: "user-1",
		Status: entity.RegisterStatusOpen,
	}
	uc := newCreateSaleUC(store, nil)

	_, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
		Payments: []dto.SalePaymentRequest{cashPayment("20.00")},
	})
	require.NoError(t, err)

	require.Len(t, store.cashTxs, 1, "el efectivo debe asentarse en la caja abierta")
	assert.Equal(t, entity.CashTxSale, store.cashTxs[0].Type)
	assert.True(t, store.cashTxs[0].Amount.Equal(decimal.RequireFromString("20.00")))
	require.NotNil(t, store.cashTxs[0].SaleID)
}

func TestCreateSale_EfectivoSinCajaAbiertaNoAborta(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 10)
	uc := newCreateSaleUC(store, nil)

	_, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
		Payments: []dto.SalePaymentRequest{cashPayment("20.00")},
	})
	require.NoError(t, err, "sin caja abierta la venta continúa igual")
	assert.Empty(t, store.cashTxs, "no debe asentarse nada en caja")
}

// ──────────────────────────────────────────────────────────────
// Pasarela de pagos
// ──────────────────────────────────────────────────────────────

func TestCreateSale_TarjetaCobraPorPasarela(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "100.00", 5)
	gw := &fakeGateway{}
	uc := newCreateSaleUC(store, gw)

	resp, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
		Payments: []dto.SalePaymentRequest{{
			Method:       entity.PaymentMethodCreditCard,
			Amount:       decimal.RequireFromString("100.00"),
			Installments: 3,
		}},
	})
	require.NoError(t, err)

	require.Len(t, gw.calls, 1, "el pago con tarjeta debe pasar por la pasarela")
	assert.Equal(t, 3, gw.calls[0].Installments)
	require.Len(t, resp.Payments, 1)
	assert.Equal(t, "gw-tx-1", resp.Payments[0].GatewayTransactionID,
		"el id de transacción de la pasarela queda en el pago")
}

func TestCreateSale_ErrorDePasarelaAbortaLaVenta(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "100.00", 5)
	gw := &fakeGateway{err: errors.New("gateway timeout")}
	uc := newCreateSaleUC(store, gw)

	_, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items: []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
		Payments: []dto.SalePaymentRequest{{
			Method: entity.PaymentMethodCreditCard,
			Amount: decimal.RequireFromString("100.00"),
		}},
	})
	require.Error(t, err, "el error de la pasarela aborta la venta completa")
	assert.Empty(t, store.movementsByType(entity.MovementTypeSALE),
		"no debe emitirse ningún movimiento de stock")
}

func TestCreateSale_EfectivoNoPasaPorPasarela(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 5)
	gw := &fakeGateway{}
	uc := newCreateSaleUC(store, gw)

	_, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
		Payments: []dto.SalePaymentRequest{cashPayment("20.00")},
	})
	require.NoError(t, err)
	assert.Empty(t, gw.calls, "MONEY nunca toca la pasarela")
}

// ──────────────────────────────────────────────────────────────
// Validaciones y stock insuficiente
// ──────────────────────────────────────────────────────────────

func TestCreateSale_StockInsuficiente(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 3)
	uc := newCreateSaleUC(store, nil)

	_, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 5}},
		Payments: []dto.SalePaymentRequest{cashPayment("100.00")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr, "el error debe llevar el detalle de disponibilidad")
	assert.Equal(t, int64(3), stockErr.Available)
	assert.Equal(t, int64(5), stockErr.Requested)

	assert.Equal(t, int64(3), store.variants["var-1"].Stock, "el stock no debe tocarse")
	assert.Empty(t, store.sales, "la venta no debe persistirse")
}

func TestCreateSale_NoSobrevendeEnVentasSucesivas(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 10)
	uc := newCreateSaleUC(store, nil)

	_, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 7}},
		Payments: []dto.SalePaymentRequest{cashPayment("140.00")},
	})
	require.NoError(t, err, "la primera venta de 7 sobre 10 debe pasar")

	_, err = uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 7}},
		Payments: []dto.SalePaymentRequest{cashPayment("140.00")},
	})
	require.Error(t, err, "la segunda venta de 7 sobre 3 restantes debe fallar")
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, int64(3), store.variants["var-1"].Stock, "el stock nunca queda negativo")
}

func TestCreateSale_VarianteInexistente(t *testing.T) {
	store := newFakeStore()
	uc := newCreateSaleUC(store, nil)

	_, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "no-existe", Quantity: 1}},
		Payments: []dto.SalePaymentRequest{cashPayment("20.00")},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	var nfErr *domain.VariantNotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

func TestCreateSale_EntradasInvalidas(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 10)
	uc := newCreateSaleUC(store, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  *dto.CreateSaleRequest
	}{
		{"sin líneas", &dto.CreateSaleRequest{
			Payments: []dto.SalePaymentRequest{cashPayment("20.00")},
		}},
		{"cantidad cero", &dto.CreateSaleRequest{
			Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 0}},
			Payments: []dto.SalePaymentRequest{cashPayment("20.00")},
		}},
		{"sin pagos", &dto.CreateSaleRequest{
			Items: []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
		}},
		{"método desconocido", &dto.CreateSaleRequest{
			Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
			Payments: []dto.SalePaymentRequest{{Method: "CHEQUE", Amount: decimal.RequireFromString("20.00")}},
		}},
		{"pago con monto cero", &dto.CreateSaleRequest{
			Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
			Payments: []dto.SalePaymentRequest{{Method: entity.PaymentMethodMoney, Amount: decimal.Zero}},
		}},
		{"descuento negativo", &dto.CreateSaleRequest{
			Items:          []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
			Payments:       []dto.SalePaymentRequest{cashPayment("20.00")},
			DiscountAmount: decimal.RequireFromString("-5.00"),
		}},
		{"cuotas sobre el máximo", &dto.CreateSaleRequest{
			Items: []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
			Payments: []dto.SalePaymentRequest{{
				Method:       entity.PaymentMethodCreditCard,
				Amount:       decimal.RequireFromString("20.00"),
				Installments: 13,
			}},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.CreateSale(ctx, "user-1", "branch-1", tc.req)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestCreateSale_DescuentoMayorQueElTotal(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 10)
	uc := newCreateSaleUC(store, nil)

	_, err := uc.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:          []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
		Payments:       []dto.SalePaymentRequest{cashPayment("20.00")},
		DiscountAmount: decimal.RequireFromString("25.00"),
	})
	require.Error(t, err, "un descuento mayor que el total no produce montos negativos")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// ──────────────────────────────────────────────────────────────
// Cancelación
// ──────────────────────────────────────────────────────────────

func newCancelSaleUC(s *fakeStore) *CancelSaleUseCase {
	log := logger.Nop()
	reactor := NewLifecycleReactor(ledger.NewEngine(log), log)
	return NewCancelSaleUseCase(&fakeTxRunner{s}, reactor, log)
}

func TestCancelSale_AcreditaElStock(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 10)
	createUC := newCreateSaleUC(store, nil)
	cancelUC := newCancelSaleUC(store)

	resp, err := createUC.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 4}},
		Payments: []dto.SalePaymentRequest{cashPayment("80.00")},
	})
	require.NoError(t, err)
	require.Equal(t, int64(6), store.variants["var-1"].Stock)

	canceled, err := cancelUC.CancelSale(context.Background(), resp.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.SaleStatusCanceled, canceled.Status)

	// Venta y cancelación se anulan mutuamente en el stock.
	assert.Equal(t, int64(10), store.variants["var-1"].Stock, "el stock vuelve al valor inicial")
	assert.Equal(t, int64(10), store.inventory["branch-1|var-1"], "el agregado vuelve al valor inicial")

	returns := store.movementsByType(entity.MovementTypeRETURN)
	require.Len(t, returns, 1, "debe emitirse un movimiento RETURN")
	assert.Equal(t, "Cancellation Sale #"+resp.ID, returns[0].Reason)
}

func TestCancelSale_SoloVentasCompletadas(t *testing.T) {
	store := newFakeStore()
	store.addVariant("var-1", "branch-1", "20.00", 10)
	createUC := newCreateSaleUC(store, nil)
	cancelUC := newCancelSaleUC(store)

	resp, err := createUC.CreateSale(context.Background(), "user-1", "branch-1", &dto.CreateSaleRequest{
		Items:    []dto.SaleItemRequest{{ProductVariantID: "var-1", Quantity: 1}},
		Payments: []dto.SalePaymentRequest{cashPayment("20.00")},
	})
	require.NoError(t, err)

	_, err = cancelUC.CancelSale(context.Background(), resp.ID)
	require.NoError(t, err)

	// De CANCELED no se sale: la segunda cancelación es conflicto.
	_, err = cancelUC.CancelSale(context.Background(), resp.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConflict)

	returns := store.movementsByType(entity.MovementTypeRETURN)
	assert.Len(t, returns, 1, "no debe duplicarse el crédito de stock")
}

func TestCancelSale_VentaInexistente(t *testing.T) {
	store := newFakeStore()
	cancelUC := newCancelSaleUC(store)

	_, err := cancelUC.CancelSale(context.Background(), "no-existe")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
