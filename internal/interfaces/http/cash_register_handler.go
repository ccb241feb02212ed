package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/pos-ledger/internal/application/cashregister"
	"github.com/tu-usuario/pos-ledger/internal/application/dto"
	"github.com/tu-usuario/pos-ledger/pkg/validator"
)

// CashRegisterHandler maneja las peticiones HTTP de cajas (protegido).
type CashRegisterHandler struct {
	uc *cashregister.UseCase
}

// NewCashRegisterHandler construye el handler.
func NewCashRegisterHandler(uc *cashregister.UseCase) *CashRegisterHandler {
	return &CashRegisterHandler{uc: uc}
}

// Open godoc
// @Summary      Abrir caja
// @Description  Abre la caja del usuario con el efectivo inicial contado. Una sola caja OPEN por usuario.
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.OpenRegisterRequest  true  "initial_balance"
// @Success      201   {object}  dto.CashRegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-registers [post]
func (h *CashRegisterHandler) Open(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.OpenRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	register, err := h.uc.Open(c.Context(), userID, &in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(register)
}

// AddMovement godoc
// @Summary      Registrar ingreso o retiro manual de efectivo
// @Description  SUPPLY suma, BLEED resta (se guarda en negativo y se rechaza si supera el saldo derivado).
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                   true  "ID de la caja"
// @Param        body  body  dto.CashMovementRequest  true  "type, amount, description?"
// @Success      201   {object}  dto.CashTransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id}/transactions [post]
func (h *CashRegisterHandler) AddMovement(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CashMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if fields := validator.ValidateStruct(in); len(fields) > 0 {
		return validationError(c, fields)
	}

	tx, err := h.uc.AddMovement(c.Context(), c.Params("id"), &in)
	if err != nil {
		return domainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tx)
}

// Close godoc
// @Summary      Cerrar caja
// @Description  Cierra la caja con el efectivo final contado por el operador; el declarado no se recalcula.
// @Tags         cash-registers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                    true  "ID de la caja"
// @Param        body  body  dto.CloseRegisterRequest  true  "final_balance"
// @Success      200   {object}  dto.CashRegisterResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id}/close [post]
func (h *CashRegisterHandler) Close(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CloseRegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}

	register, err := h.uc.Close(c.Context(), c.Params("id"), &in)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(register)
}

// GetOpen godoc
// @Summary      Consultar la caja abierta del usuario
// @Description  Devuelve la caja OPEN del usuario con su saldo derivado del libro.
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.CashRegisterResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-registers/open [get]
func (h *CashRegisterHandler) GetOpen(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	register, err := h.uc.GetOpen(c.Context(), userID)
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(register)
}

// ListTransactions godoc
// @Summary      Listar el libro de la caja
// @Tags         cash-registers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la caja"
// @Success      200  {array}   dto.CashTransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/cash-registers/{id}/transactions [get]
func (h *CashRegisterHandler) ListTransactions(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}

	txs, err := h.uc.ListTransactions(c.Context(), c.Params("id"))
	if err != nil {
		return domainError(c, err)
	}
	return c.JSON(txs)
}
