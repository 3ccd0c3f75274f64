// Package memory almacén en memoria con transacciones por instantánea. Se usa en tests y
// cuando el servicio arranca sin base de datos.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/erp-conciliacion/internal/application/ports"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
)

var _ ports.TxRunner = (*Store)(nil)

// Operaciones en las que se puede inyectar una falla (ver FailOn).
const (
	OpMaterialUpdate = "materials.update"
	OpAccountUpdate  = "accounts.update"
	OpPostingCreate  = "postings.create"
	OpOrderCreate    = "orders.create"
	OpOrderUpdate    = "orders.update"
	OpOrderDelete    = "orders.delete"
	OpBOMList        = "boms.list"
)

type state struct {
	materials map[string]entity.Material
	accounts  map[string]entity.Account
	boms      map[string][]entity.BillOfMaterial // por material producido, en orden de alta
	orders    map[string]*entity.Order
}

func newState() *state {
	return &state{
		materials: make(map[string]entity.Material),
		accounts:  make(map[string]entity.Account),
		boms:      make(map[string][]entity.BillOfMaterial),
		orders:    make(map[string]*entity.Order),
	}
}

// clone copia profunda para poder restaurar en rollback.
func (st *state) clone() *state {
	c := newState()
	for id, m := range st.materials {
		c.materials[id] = m
	}
	for id, a := range st.accounts {
		c.accounts[id] = cloneAccount(a)
	}
	for id, list := range st.boms {
		c.boms[id] = append([]entity.BillOfMaterial(nil), list...)
	}
	for id, o := range st.orders {
		c.orders[id] = o.Clone()
	}
	return c
}

type faultKey struct {
	op, id string
}

// Store almacén en memoria. Run serializa las transacciones: mientras una corre, las demás
// esperan. Si fn falla se restaura la instantánea tomada al inicio.
type Store struct {
	mu     sync.Mutex
	st     *state
	faults map[faultKey]error
}

// NewStore crea un almacén vacío.
func NewStore() *Store {
	return &Store{st: newState(), faults: make(map[faultKey]error)}
}

// Run ejecuta fn con repositorios atados a una instantánea del almacén.
func (s *Store) Run(ctx context.Context, fn func(repos ports.Repositories) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.st.clone()
	if err := fn(s.repositories(nil)); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

// repositories con lock != nil toman el mutex en cada llamada (uso fuera de Run).
func (s *Store) repositories(lock sync.Locker) ports.Repositories {
	return ports.Repositories{
		Materials: &MaterialRepo{s: s, lock: lock},
		Accounts:  &AccountRepo{s: s, lock: lock},
		BOMs:      &BillOfMaterialRepo{s: s, lock: lock},
		Orders:    &OrderRepo{s: s, lock: lock},
	}
}

// Repositories repositorios de lectura y escritura directa, sin transacción.
func (s *Store) Repositories() ports.Repositories {
	return s.repositories(&s.mu)
}

// FailOn hace que la operación op sobre id devuelva err hasta que se llame ClearFaults.
// id vacío aplica a cualquier identificador.
func (s *Store) FailOn(op, id string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[faultKey{op, id}] = err
}

// ClearFaults elimina las fallas inyectadas.
func (s *Store) ClearFaults() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults = make(map[faultKey]error)
}

func (s *Store) fault(op, id string) error {
	if err, ok := s.faults[faultKey{op, id}]; ok {
		return err
	}
	return s.faults[faultKey{op, ""}]
}

// PutMaterial registra o reemplaza un material.
func (s *Store) PutMaterial(m entity.Material) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.materials[m.ID] = m
}

// PutAccount registra o reemplaza una cuenta.
func (s *Store) PutAccount(a entity.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.accounts[a.ID] = cloneAccount(a)
}

// PutBOM agrega una lista de materiales para su material producido.
func (s *Store) PutBOM(b entity.BillOfMaterial) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.Items = append([]entity.BillOfMaterialItem(nil), b.Items...)
	s.st.boms[b.MaterialID] = append(s.st.boms[b.MaterialID], b)
}

// Material devuelve una copia del material.
func (s *Store) Material(id string) (entity.Material, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.st.materials[id]
	return m, ok
}

// Account devuelve una copia de la cuenta con sus asientos.
func (s *Store) Account(id string) (entity.Account, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.st.accounts[id]
	if !ok {
		return entity.Account{}, false
	}
	return cloneAccount(a), true
}

// Order devuelve una copia de la orden.
func (s *Store) Order(id string) (*entity.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.st.orders[id]
	if !ok {
		return nil, false
	}
	return o.Clone(), true
}

func cloneAccount(a entity.Account) entity.Account {
	a.Postings = append([]entity.Posting(nil), a.Postings...)
	return a
}
