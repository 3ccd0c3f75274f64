package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
)

var (
	_ repository.MaterialRepository       = (*MaterialRepo)(nil)
	_ repository.AccountRepository        = (*AccountRepo)(nil)
	_ repository.BillOfMaterialRepository = (*BillOfMaterialRepo)(nil)
	_ repository.OrderRepository          = (*OrderRepo)(nil)
)

func acquire(lock sync.Locker) func() {
	if lock == nil {
		return func() {}
	}
	lock.Lock()
	return lock.Unlock
}

// MaterialRepo materiales en memoria. Devuelve copias: los cambios solo se ven tras Update.
type MaterialRepo struct {
	s    *Store
	lock sync.Locker
}

func (r *MaterialRepo) GetByID(_ context.Context, id string) (*entity.Material, error) {
	defer acquire(r.lock)()
	m, ok := r.s.st.materials[id]
	if !ok {
		return nil, nil
	}
	return &m, nil
}

// GetForUpdate equivale a GetByID: Run ya serializa las transacciones.
func (r *MaterialRepo) GetForUpdate(ctx context.Context, id string) (*entity.Material, error) {
	return r.GetByID(ctx, id)
}

func (r *MaterialRepo) Update(_ context.Context, m *entity.Material) error {
	defer acquire(r.lock)()
	if err := r.s.fault(OpMaterialUpdate, m.ID); err != nil {
		return err
	}
	if _, ok := r.s.st.materials[m.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.materials[m.ID] = *m
	return nil
}

// AccountRepo cuentas y asientos en memoria.
type AccountRepo struct {
	s    *Store
	lock sync.Locker
}

func (r *AccountRepo) GetByID(_ context.Context, id string) (*entity.Account, error) {
	defer acquire(r.lock)()
	a, ok := r.s.st.accounts[id]
	if !ok {
		return nil, nil
	}
	c := cloneAccount(a)
	return &c, nil
}

// GetForUpdate equivale a GetByID: Run ya serializa las transacciones.
func (r *AccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.GetByID(ctx, id)
}

// Update persiste solo el saldo; los asientos se agregan con CreatePosting.
func (r *AccountRepo) Update(_ context.Context, a *entity.Account) error {
	defer acquire(r.lock)()
	if err := r.s.fault(OpAccountUpdate, a.ID); err != nil {
		return err
	}
	cur, ok := r.s.st.accounts[a.ID]
	if !ok {
		return domain.ErrNotFound
	}
	cur.Balance = a.Balance
	cur.UpdatedAt = a.UpdatedAt
	r.s.st.accounts[a.ID] = cur
	return nil
}

func (r *AccountRepo) CreatePosting(_ context.Context, p *entity.Posting) error {
	defer acquire(r.lock)()
	if err := r.s.fault(OpPostingCreate, p.AccountID); err != nil {
		return err
	}
	cur, ok := r.s.st.accounts[p.AccountID]
	if !ok {
		return domain.ErrNotFound
	}
	for _, existing := range cur.Postings {
		if existing.ID == p.ID {
			return domain.ErrDuplicate
		}
	}
	cur.Postings = append(cur.Postings, *p)
	r.s.st.accounts[p.AccountID] = cur
	return nil
}

// BillOfMaterialRepo listas de materiales en memoria.
type BillOfMaterialRepo struct {
	s    *Store
	lock sync.Locker
}

func (r *BillOfMaterialRepo) ListByMaterial(_ context.Context, materialID string) ([]*entity.BillOfMaterial, error) {
	defer acquire(r.lock)()
	if err := r.s.fault(OpBOMList, materialID); err != nil {
		return nil, err
	}
	list := r.s.st.boms[materialID]
	out := make([]*entity.BillOfMaterial, 0, len(list))
	for i := range list {
		b := list[i]
		b.Items = append([]entity.BillOfMaterialItem(nil), b.Items...)
		out = append(out, &b)
	}
	return out, nil
}

// OrderRepo órdenes en memoria.
type OrderRepo struct {
	s    *Store
	lock sync.Locker
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	defer acquire(r.lock)()
	if err := r.s.fault(OpOrderCreate, o.ID); err != nil {
		return err
	}
	if _, ok := r.s.st.orders[o.ID]; ok {
		return domain.ErrDuplicate
	}
	r.s.st.orders[o.ID] = o.Clone()
	return nil
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	defer acquire(r.lock)()
	o, ok := r.s.st.orders[id]
	if !ok {
		return nil, nil
	}
	return o.Clone(), nil
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	defer acquire(r.lock)()
	if err := r.s.fault(OpOrderUpdate, o.ID); err != nil {
		return err
	}
	if _, ok := r.s.st.orders[o.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.st.orders[o.ID] = o.Clone()
	return nil
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	defer acquire(r.lock)()
	if err := r.s.fault(OpOrderDelete, id); err != nil {
		return err
	}
	if _, ok := r.s.st.orders[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.st.orders, id)
	return nil
}
