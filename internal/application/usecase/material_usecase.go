package usecase

import (
	"context"

	"github.com/jhoicas/erp-conciliacion/internal/application/dto"
	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
)

// MaterialUseCase consultas de materiales. El inventario solo cambia vía conciliación de órdenes.
type MaterialUseCase struct {
	repo repository.MaterialRepository
}

// NewMaterialUseCase construye el caso de uso.
func NewMaterialUseCase(repo repository.MaterialRepository) *MaterialUseCase {
	return &MaterialUseCase{repo: repo}
}

// GetByID devuelve el material con su inventario actual.
func (uc *MaterialUseCase) GetByID(ctx context.Context, id string) (*dto.MaterialResponse, error) {
	m, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return toMaterialResponse(m), nil
}

func toMaterialResponse(m *entity.Material) *dto.MaterialResponse {
	return &dto.MaterialResponse{
		ID:           m.ID,
		Name:         m.Name,
		Unit:         m.Unit,
		PricePerUnit: m.PricePerUnit,
		Currency:     m.Currency,
		Inventory:    m.Inventory,
		UpdatedAt:    m.UpdatedAt,
	}
}
