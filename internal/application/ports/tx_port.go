package ports

import (
	"context"

	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
)

// Repositories repositorios atados a una misma unidad de trabajo.
type Repositories struct {
	Materials repository.MaterialRepository
	Accounts  repository.AccountRepository
	BOMs      repository.BillOfMaterialRepository
	Orders    repository.OrderRepository
}

// TxRunner ejecuta fn dentro de una transacción, pasando repositorios atados a ella.
// Si fn retorna error se hace Rollback y ningún cambio queda aplicado; si no, Commit.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos Repositories) error) error
}
