package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

// Adjustment variación neta de inventario para un material.
type Adjustment struct {
	MaterialID string
	Delta      decimal.Decimal // positivo suma, negativo resta
}

// Batch acumula variaciones por material antes de aplicarlas en una sola unidad de trabajo.
type Batch struct {
	order []string
	delta map[string]decimal.Decimal
}

// NewBatch crea un lote vacío.
func NewBatch() *Batch {
	return &Batch{delta: make(map[string]decimal.Decimal)}
}

// Add acumula qty (con signo) para el material.
func (b *Batch) Add(materialID string, qty decimal.Decimal) {
	if _, ok := b.delta[materialID]; !ok {
		b.order = append(b.order, materialID)
	}
	b.delta[materialID] = b.delta[materialID].Add(qty)
}

// AddItems acumula la cantidad de cada línea multiplicada por sign (+1 o -1).
func (b *Batch) AddItems(items []entity.OrderItem, sign int64) {
	s := decimal.NewFromInt(sign)
	for _, it := range items {
		b.Add(it.MaterialID, it.Quantity.Mul(s))
	}
}

// Adjustments devuelve las variaciones no nulas: primero las que suman, luego las que restan,
// cada grupo en orden de llegada.
func (b *Batch) Adjustments() []Adjustment {
	var plus, minus []Adjustment
	for _, id := range b.order {
		d := b.delta[id]
		switch {
		case d.IsPositive():
			plus = append(plus, Adjustment{MaterialID: id, Delta: d})
		case d.IsNegative():
			minus = append(minus, Adjustment{MaterialID: id, Delta: d})
		}
	}
	return append(plus, minus...)
}

// Len cantidad de materiales con variación no nula.
func (b *Batch) Len() int {
	return len(b.Adjustments())
}
