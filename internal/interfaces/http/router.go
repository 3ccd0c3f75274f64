package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-conciliacion/internal/application/order"
	"github.com/jhoicas/erp-conciliacion/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC    *order.UseCase
	MaterialUC *usecase.MaterialUseCase
	AccountUC  *usecase.AccountUseCase
	// JWTSecret vacío deja la API sin autenticación (solo desarrollo).
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")
	var guard fiber.Handler
	if deps.JWTSecret != "" {
		api.Use(AuthMiddleware(deps.JWTSecret))
		guard = RequireRole(RoleAdmin, RoleOperator)
	}
	// write antepone la autorización de escritura, si hay auth.
	write := func(h fiber.Handler) []fiber.Handler {
		if guard == nil {
			return []fiber.Handler{h}
		}
		return []fiber.Handler{guard, h}
	}

	orderHandler := NewOrderHandler(deps.OrderUC)
	orders := api.Group("/orders")
	orders.Get("/:id", orderHandler.GetByID)
	orders.Post("", write(orderHandler.Create)...)
	orders.Put("/:id", write(orderHandler.Update)...)
	orders.Patch("/:id/status", write(orderHandler.SetFlag)...)
	orders.Delete("/:id", write(orderHandler.Delete)...)

	materialHandler := NewMaterialHandler(deps.MaterialUC)
	api.Get("/materials/:id", materialHandler.GetByID)

	accountHandler := NewAccountHandler(deps.AccountUC)
	api.Get("/accounts/:id", accountHandler.GetByID)
}
