package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Material representa un material o artículo con inventario.
// Inventory solo lo modifica el motor de conciliación, nunca la validación de órdenes.
type Material struct {
	ID           string
	Name         string
	Unit         string          // unidad de medida (ej: "KG", "UN")
	PricePerUnit decimal.Decimal // precio vigente por unidad
	Currency     string          // ISO 4217 (ej: "EUR", "COP")
	Inventory    decimal.Decimal // no negativo
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
