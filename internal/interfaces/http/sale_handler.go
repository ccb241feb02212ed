package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/internal/application/sales"
	"github.com/tu-usuario/pos-ledger/pkg/validator"
)

// SaleHandler maneja las peticiones HTTP de ventas (protegido).
type SaleHandler struct {
	createUC *sales.CreateSaleUseCase
	cancelUC *sales.CancelSaleUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(createUC *sales.CreateSaleUseCase, cancelUC *sales.CancelSaleUseCase) *SaleHandler {
	return &SaleHandler{createUC: createUC, cancelUC: cancelUC}
}

// Create godoc
// @Summary      Registrar una venta completa
// @Description  Valida stock con bloqueo de filas, crea venta + líneas + pagos,
//               emite los movimientos SALE y asienta el efectivo en la caja abierta. Todo atómico.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "items, payments, discount_amount, customer_id?, note?"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	userID := GetUserID(c)
	branchID := GetBranchID(c)
	if userID == "" || branchID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validator.ValidateStruct(in); len(fields) > 0 {
		return validationError(c, fields)
	}

	sale, err := h.createUC.CreateSale(c.Context(), userID, branchID, &in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sale)
}

// Cancel godoc
// @Summary      Cancelar una venta
// @Description  Marca la venta CANCELED y acredita el stock vía movimientos RETURN.
//               Solo ventas COMPLETED; no emite compensación de caja.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	saleID := c.Params("id")

	sale, err := h.cancelUC.CancelSale(c.Context(), saleID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(sale)
}
