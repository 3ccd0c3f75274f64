package postgres

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
)

var _ repository.BillOfMaterialRepository = (*BillOfMaterialRepo)(nil)

// BillOfMaterialRepo implementación de BillOfMaterialRepository sobre PostgreSQL.
type BillOfMaterialRepo struct {
	q Querier
}

// NewBillOfMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewBillOfMaterialRepository(q Querier) *BillOfMaterialRepo {
	return &BillOfMaterialRepo{q: q}
}

// ListByMaterial devuelve las listas de materiales cuyo material producido es materialID,
// ordenadas por fecha de creación (la primera es la que usa el expansor).
func (r *BillOfMaterialRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.BillOfMaterial, error) {
	query := `
		SELECT b.id, b.material_id, i.material_id, i.quantity
		FROM bills_of_material b
		LEFT JOIN bill_of_material_items i ON i.bom_id = b.id
		WHERE b.material_id = $1
		ORDER BY b.created_at, b.id, i.position`
	rows, err := r.q.Query(ctx, query, materialID)
	if err != nil {
		return nil, fmt.Errorf("list bills of material: %w", err)
	}
	defer rows.Close()

	var list []*entity.BillOfMaterial
	byID := make(map[string]*entity.BillOfMaterial)
	for rows.Next() {
		var (
			bomID, parentID string
			componentID     *string
			quantity        decimal.NullDecimal
		)
		if err := rows.Scan(&bomID, &parentID, &componentID, &quantity); err != nil {
			return nil, fmt.Errorf("scan bill of material: %w", err)
		}
		bom, ok := byID[bomID]
		if !ok {
			bom = &entity.BillOfMaterial{ID: bomID, MaterialID: parentID}
			byID[bomID] = bom
			list = append(list, bom)
		}
		if componentID != nil && quantity.Valid {
			bom.Items = append(bom.Items, entity.BillOfMaterialItem{
				MaterialID: *componentID,
				Quantity:   quantity.Decimal,
			})
		}
	}
	return list, rows.Err()
}
