package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/application/stock"
	"github.com/tu-usuario/pos-ledger/pkg/validator"
)

// StockHandler maneja las peticiones HTTP de stock: entradas, movimientos
// manuales y consultas del libro e inventario (protegido).
type StockHandler struct {
	receiveUC  *stock.ReceiveStockUseCase
	movementUC *stock.RegisterMovementUseCase
	reportUC   *stock.ReportUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(receiveUC *stock.ReceiveStockUseCase, movementUC *stock.RegisterMovementUseCase, reportUC *stock.ReportUseCase) *StockHandler {
	return &StockHandler{receiveUC: receiveUC, movementUC: movementUC, reportUC: reportUC}
}

// ReceiveStock godoc
// @Summary      Registrar entrada de mercadería
// @Description  Emite movimientos ENTRY por línea, sube stock y agregado, y repondera
//               el costo de la variante cuando la línea trae cost_price.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "items, supplier_id?, reason?"
// @Success      201   {array}   dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/stock/entries [post]
func (h *StockHandler) ReceiveStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	branchID := GetBranchID(c)
	if userID == "" || branchID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validator.ValidateStruct(in); len(fields) > 0 {
		return validationError(c, fields)
	}

	movements, err := h.receiveUC.ReceiveStock(c.Context(), userID, branchID, &in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movements)
}

// RegisterMovement godoc
// @Summary      Registrar movimiento manual de stock
// @Description  Ajuste de conteo (ADJUSTMENT, cantidad con signo) o merma (LOSS, cantidad positiva).
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "product_variant_id, type, quantity, reason"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) RegisterMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	branchID := GetBranchID(c)
	if userID == "" || branchID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validator.ValidateStruct(in); len(fields) > 0 {
		return validationError(c, fields)
	}

	movement, err := h.movementUC.RegisterMovement(c.Context(), userID, branchID, &in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(movement)
}

// ListMovements godoc
// @Summary      Listar el libro de movimientos
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        variant_id  query  string  false  "Filtrar por variante"
// @Param        from        query  string  false  "Desde (RFC3339)"
// @Param        to          query  string  false  "Hasta (RFC3339)"
// @Param        limit       query  int     false  "Tamaño de página (por defecto 50)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.PageResponse[dto.MovementResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	branchID := GetBranchID(c)
	if branchID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	filter := &dto.MovementFilter{
		ProductVariantID: c.Query("variant_id"),
		Page: dto.PageRequest{
			Limit:  c.QueryInt("limit"),
			Offset: c.QueryInt("offset"),
		},
	}
	if from, ok := parseTimeQuery(c, "from"); ok {
		filter.From = from
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, usar RFC3339"})
	}
	if to, ok := parseTimeQuery(c, "to"); ok {
		filter.To = to
	} else {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, usar RFC3339"})
	}

	page, err := h.reportUC.ListMovements(branchID, filter)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(page)
}

// ListInventory godoc
// @Summary      Listar el inventario de la sucursal
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        below_min  query  bool  false  "Solo filas bajo el mínimo de reposición"
// @Param        limit      query  int   false  "Tamaño de página (por defecto 50)"
// @Param        offset     query  int   false  "Desplazamiento"
// @Success      200  {object}  dto.PageResponse[dto.InventoryResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory [get]
func (h *StockHandler) ListInventory(c *fiber.Ctx) error {
	branchID := GetBranchID(c)
	if branchID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	page, err := h.reportUC.ListInventory(branchID, c.QueryBool("below_min"), dto.PageRequest{
		Limit:  c.QueryInt("limit"),
		Offset: c.QueryInt("offset"),
	})
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(page)
}

// parseTimeQuery lee un query param RFC3339 opcional. ok=false solo si vino y
// no parsea.
func parseTimeQuery(c *fiber.Ctx, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
