package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tu-usuario/pos-ledger/internal/application/sales"
	"github.com/tu-usuario/pos-ledger/pkg/config"
)

// Verificar en tiempo de compilación que PaymentClient implementa PaymentGateway.
var _ sales.PaymentGateway = (*PaymentClient)(nil)

// PaymentClient adaptador HTTP/JSON hacia la pasarela de pagos externa.
// La pasarela es una caja negra: solo se consume status y transaction_id de
// la respuesta, nunca campos específicos del proveedor.
type PaymentClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewPaymentClient construye el adaptador con la configuración de la pasarela.
func NewPaymentClient(cfg config.GatewayConfig) *PaymentClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &PaymentClient{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// ── Estructuras del protocolo de la pasarela ─────────────────────────────────

type createPaymentRequest struct {
	ReferenceID  string `json:"reference_id"`
	Method       string `json:"method"`
	Amount       string `json:"amount"`
	Installments int    `json:"installments"`
}

type createPaymentResponse struct {
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	Message       string `json:"message,omitempty"`
}

// CreatePayment envía el cobro a la pasarela y devuelve status y transaction id.
// Cualquier error (red, HTTP no-2xx, rechazo) debe abortar la venta en curso.
func (c *PaymentClient) CreatePayment(ctx context.Context, req sales.PaymentRequest) (*sales.PaymentResult, error) {
	if c.baseURL == "" {
		return nil, fmt.Errorf("pasarela de pagos sin configurar (PAYMENT_GATEWAY_URL vacío)")
	}

	body, err := json.Marshal(createPaymentRequest{
		ReferenceID:  req.SaleID,
		Method:       req.Method,
		Amount:       req.Amount.StringFixed(2),
		Installments: req.Installments,
	})
	if err != nil {
		return nil, fmt.Errorf("serializar request de pago: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crear request de pago: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("llamar a la pasarela de pagos: %w", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(httpResp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("leer respuesta de la pasarela: %w", err)
	}

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		return nil, fmt.Errorf("pasarela de pagos respondió %d: %s", httpResp.StatusCode, truncate(respBody, 300))
	}

	var parsed createPaymentResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decodificar respuesta de la pasarela: %w", err)
	}
	if parsed.TransactionID == "" {
		return nil, fmt.Errorf("pasarela de pagos sin transaction_id (status %q): %s", parsed.Status, parsed.Message)
	}

	return &sales.PaymentResult{
		Status:        parsed.Status,
		TransactionID: parsed.TransactionID,
	}, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
