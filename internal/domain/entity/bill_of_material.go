package entity

import "github.com/shopspring/decimal"

// BillOfMaterial lista de materiales: componentes necesarios para producir una unidad del material padre.
type BillOfMaterial struct {
	ID         string
	MaterialID string // material producido
	Items      []BillOfMaterialItem
}

// BillOfMaterialItem componente y cantidad requerida por unidad producida.
type BillOfMaterialItem struct {
	MaterialID string
	Quantity   decimal.Decimal
}
