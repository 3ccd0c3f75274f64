package repository

import (
	"context"

	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

// AccountRepository define el puerto de persistencia para cuentas de pago y sus asientos.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Account, error)
	// GetForUpdate como GetByID pero bloquea la cuenta hasta el fin de la transacción.
	GetForUpdate(ctx context.Context, id string) (*entity.Account, error)
	// Update persiste el saldo de la cuenta (los asientos se agregan con CreatePosting).
	Update(ctx context.Context, account *entity.Account) error
	CreatePosting(ctx context.Context, posting *entity.Posting) error
}
