package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-conciliacion/internal/application/usecase"
)

// AccountHandler consulta de cuentas de pago.
type AccountHandler struct {
	uc *usecase.AccountUseCase
}

// NewAccountHandler construye el handler.
func NewAccountHandler(uc *usecase.AccountUseCase) *AccountHandler {
	return &AccountHandler{uc: uc}
}

// GetByID GET /api/accounts/:id (saldo y libro de asientos)
func (h *AccountHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
