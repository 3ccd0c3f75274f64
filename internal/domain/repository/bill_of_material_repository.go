package repository

import (
	"context"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

// BillOfMaterialRepository consulta listas de materiales por material producido.
type BillOfMaterialRepository interface {
	ListByMaterial(ctx context.Context, materialID string) ([]*entity.BillOfMaterial, error)
}
