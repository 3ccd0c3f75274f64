package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
)

// OrderItemRequest línea de una orden en POST/PUT /api/orders.
type OrderItemRequest struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// OrderRequest body para crear o actualizar una orden.
// Status aplica a compras y ventas (lista de banderas); ProductionStatus a producción.
type OrderRequest struct {
	ID               string             `json:"id,omitempty"`
	Kind             string             `json:"kind"`
	PartnerID        string             `json:"partner_id"`
	PartnerName      string             `json:"partner_name"`
	AccountID        string             `json:"account_id,omitempty"`
	DeliveryDate     time.Time          `json:"delivery_date"`
	Status           status.Set         `json:"status"`
	ProductionStatus string             `json:"production_status,omitempty"`
	Items            []OrderItemRequest `json:"items"`
}

// SetFlagRequest body para PATCH /api/orders/:id/status.
type SetFlagRequest struct {
	Flag   string `json:"flag"`
	Active bool   `json:"active"`
}

// OrderItemResponse línea con su total congelado.
type OrderItemResponse struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	PriceTotal decimal.Decimal `json:"price_total"`
	Currency   string          `json:"currency"`
}

// OrderResponse salida de una orden.
type OrderResponse struct {
	ID               string              `json:"id"`
	Kind             string              `json:"kind"`
	PartnerID        string              `json:"partner_id"`
	PartnerName      string              `json:"partner_name"`
	AccountID        string              `json:"account_id,omitempty"`
	DeliveryDate     time.Time           `json:"delivery_date"`
	Status           *status.Set         `json:"status,omitempty"`
	ProductionStatus string              `json:"production_status,omitempty"`
	Items            []OrderItemResponse `json:"items"`
	Total            decimal.Decimal     `json:"total"`
	Currency         string              `json:"currency"`
	CreatedAt        time.Time           `json:"created_at"`
	UpdatedAt        time.Time           `json:"updated_at"`
}
