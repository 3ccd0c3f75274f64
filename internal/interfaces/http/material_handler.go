package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-conciliacion/internal/application/usecase"
)

// MaterialHandler consulta de materiales e inventario.
type MaterialHandler struct {
	uc *usecase.MaterialUseCase
}

// NewMaterialHandler construye el handler.
func NewMaterialHandler(uc *usecase.MaterialUseCase) *MaterialHandler {
	return &MaterialHandler{uc: uc}
}

// GetByID GET /api/materials/:id
func (h *MaterialHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
