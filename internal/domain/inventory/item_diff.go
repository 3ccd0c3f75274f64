package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

// DiffItems compara dos versiones de las líneas de una orden y devuelve, por material,
// las cantidades agregadas y reducidas. Las cantidades se agregan por material en cada lado
// (un material puede aparecer en varias líneas). Un material sin cambio neto no aparece en
// ningún mapa; additions y reductions son disjuntos.
func DiffItems(newItems, oldItems []entity.OrderItem) (additions, reductions map[string]decimal.Decimal) {
	newQty := aggregate(newItems)
	oldQty := aggregate(oldItems)

	additions = make(map[string]decimal.Decimal)
	reductions = make(map[string]decimal.Decimal)

	for id, n := range newQty {
		o, ok := oldQty[id]
		if !ok {
			additions[id] = n
			continue
		}
		if n.GreaterThan(o) {
			additions[id] = n.Sub(o)
		}
	}
	for id, o := range oldQty {
		n, ok := newQty[id]
		if !ok {
			reductions[id] = o
			continue
		}
		if o.GreaterThan(n) {
			reductions[id] = o.Sub(n)
		}
	}
	return additions, reductions
}

func aggregate(items []entity.OrderItem) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(items))
	for _, it := range items {
		out[it.MaterialID] = out[it.MaterialID].Add(it.Quantity)
	}
	return out
}
