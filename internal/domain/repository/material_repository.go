package repository

import (
	"context"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

// MaterialRepository define el puerto de persistencia para Material (DIP).
// GetByID devuelve (nil, nil) si no existe.
type MaterialRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	// GetForUpdate bloquea la fila dentro de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.Material, error)
	Update(ctx context.Context, material *entity.Material) error
}
