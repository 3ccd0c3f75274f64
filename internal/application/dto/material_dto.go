package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MaterialResponse salida de un material con su inventario actual.
type MaterialResponse struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Unit         string          `json:"unit"`
	PricePerUnit decimal.Decimal `json:"price_per_unit"`
	Currency     string          `json:"currency"`
	Inventory    decimal.Decimal `json:"inventory"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
