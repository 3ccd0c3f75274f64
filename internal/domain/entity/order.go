package entity

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
)

// Tipos de orden.
const (
	OrderKindPurchase   = "PURCHASE"
	OrderKindSales      = "SALES"
	OrderKindProduction = "PRODUCTION"
)

// Estados de una orden de producción (enum simple, sin banderas primitivas).
const (
	ProductionStatusOpen      = "OPEN"
	ProductionStatusInProcess = "IN_PROCESS"
	ProductionStatusFinished  = "FINISHED"
	ProductionStatusCanceled  = "CANCELED"
)

// Order cabecera de una orden de compra, venta o producción.
// Compras y ventas usan Status (banderas); producción usa ProductionStatus.
type Order struct {
	ID               string
	Kind             string
	PartnerID        string // proveedor (compra) o cliente (venta)
	PartnerName      string
	AccountID        string // cuenta de pago; vacío en producción
	DeliveryDate     time.Time
	Status           status.Set
	ProductionStatus string
	Items            []OrderItem
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// OrderItem línea de la orden. PriceTotal queda fijo al asignar material y cantidad;
// no se recalcula con el precio vigente del material.
type OrderItem struct {
	ID         string
	MaterialID string
	Quantity   decimal.Decimal
	PriceTotal decimal.Decimal
	Currency   string
}

// Assign fija material y cantidad de la línea y congela el total con el precio actual del material.
func (i *OrderItem) Assign(m *Material, quantity decimal.Decimal) {
	i.MaterialID = m.ID
	i.Quantity = quantity
	i.PriceTotal = quantity.Mul(m.PricePerUnit)
	i.Currency = m.Currency
}

// UsesFlags indica si la orden maneja banderas primitivas (compra y venta).
func (o *Order) UsesFlags() bool {
	return o.Kind == OrderKindPurchase || o.Kind == OrderKindSales
}

// SetFlag activa o desactiva una bandera primitiva y recalcula las derivadas de inmediato.
func (o *Order) SetFlag(f status.Flag, active bool) error {
	if !o.UsesFlags() || !f.IsPrimitive() {
		return domain.ErrInvalidStatus
	}
	o.Status = o.Status.With(f, active)
	return nil
}

// Has indica si la bandera está activa en la orden.
func (o *Order) Has(f status.Flag) bool {
	return o.Status.Has(f)
}

// IsFinished para producción: la orden está terminada.
func (o *Order) IsFinished() bool {
	return o.ProductionStatus == ProductionStatusFinished
}

// Total suma los totales congelados de cada línea.
func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		total = total.Add(it.PriceTotal)
	}
	return total
}

// Currency moneda del total de la orden (la de sus líneas).
func (o *Order) Currency() string {
	for _, it := range o.Items {
		if it.Currency != "" {
			return it.Currency
		}
	}
	return ""
}

// SingleCurrency indica si todas las líneas con moneda comparten la indicada.
func (o *Order) SingleCurrency(currency string) bool {
	for _, it := range o.Items {
		if it.Currency != "" && it.Currency != currency {
			return false
		}
	}
	return true
}

// ItemByID busca una línea por su identificador.
func (o *Order) ItemByID(id string) (OrderItem, bool) {
	for _, it := range o.Items {
		if it.ID == id {
			return it, true
		}
	}
	return OrderItem{}, false
}

// Clone copia profunda de la orden (las líneas no se comparten).
func (o *Order) Clone() *Order {
	c := *o
	c.Items = append([]OrderItem(nil), o.Items...)
	return &c
}
