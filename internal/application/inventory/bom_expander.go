package inventory

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
	"github.com/jhoicas/erp-conciliacion/pkg/logger"
)

// Component material consumido al producir y su cantidad total.
type Component struct {
	MaterialID string
	Quantity   decimal.Decimal
}

// BOMExpander expande un material producido en sus componentes usando la lista de materiales.
type BOMExpander struct {
	boms   repository.BillOfMaterialRepository
	strict bool
	log    *logger.Logger
}

// NewBOMExpander construye el expansor. Con strict=true, un material sin lista de materiales
// es una falla de validación (domain.ErrMissingBOM) en lugar de una expansión vacía.
func NewBOMExpander(boms repository.BillOfMaterialRepository, strict bool, log *logger.Logger) *BOMExpander {
	if log == nil {
		log = logger.Nop()
	}
	return &BOMExpander{boms: boms, strict: strict, log: log}
}

// Expand devuelve los componentes y cantidades consumidas para producir quantity unidades de
// materialID. Si hay varias listas para el mismo material se usa la primera devuelta por el
// repositorio; si no hay ninguna, la expansión es vacía.
func (e *BOMExpander) Expand(ctx context.Context, materialID string, quantity decimal.Decimal) ([]Component, error) {
	list, err := e.boms.ListByMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		if e.strict {
			return nil, domain.ErrMissingBOM
		}
		e.log.Warn().Str("material_id", materialID).Msg("material producido sin lista de materiales")
		return []Component{}, nil
	}
	if len(list) > 1 {
		e.log.Warn().Str("material_id", materialID).Int("boms", len(list)).
			Msg("varias listas de materiales para el mismo material; se usa la primera")
	}
	bom := list[0]
	out := make([]Component, 0, len(bom.Items))
	for _, it := range bom.Items {
		out = append(out, Component{
			MaterialID: it.MaterialID,
			Quantity:   it.Quantity.Mul(quantity),
		})
	}
	return out, nil
}
