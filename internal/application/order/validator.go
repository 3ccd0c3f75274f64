package order

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
)

var productionStatuses = map[string]bool{
	entity.ProductionStatusOpen:      true,
	entity.ProductionStatusInProcess: true,
	entity.ProductionStatusFinished:  true,
	entity.ProductionStatusCanceled:  true,
}

// Validate revisa la orden propuesta antes de conciliar. Normaliza el estado (recalcula las
// banderas derivadas). prior puede ser nil cuando la orden es nueva.
func Validate(next, prior *entity.Order) error {
	switch next.Kind {
	case entity.OrderKindPurchase, entity.OrderKindSales:
		resolved, err := status.Resolve(next.Status)
		if err != nil {
			return err
		}
		next.Status = resolved
	case entity.OrderKindProduction:
		if next.ProductionStatus == "" {
			return domain.ErrEmptyStatus
		}
		if !productionStatuses[next.ProductionStatus] {
			return domain.ErrInvalidStatus
		}
	default:
		return domain.ErrInvalidKind
	}
	if prior != nil && prior.Kind != next.Kind {
		return domain.ErrInvalidKind
	}

	if len(next.Items) == 0 {
		return domain.ErrNoItems
	}
	seen := make(map[string]struct{}, len(next.Items))
	currency := ""
	for _, it := range next.Items {
		if _, dup := seen[it.ID]; dup {
			return domain.ErrDuplicateItem
		}
		seen[it.ID] = struct{}{}
		if it.MaterialID == "" {
			return domain.ErrUnknownMaterial
		}
		if !it.Quantity.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidQuantity
		}
		// Una sola moneda por orden: el total no mezcla monedas.
		if it.Currency != "" {
			if currency != "" && it.Currency != currency {
				return domain.ErrCurrencyMismatch
			}
			currency = it.Currency
		}
	}
	return nil
}
