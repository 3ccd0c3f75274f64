package repository

import (
	"context"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para órdenes y sus líneas.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// Update reemplaza cabecera, estado y líneas.
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
}
