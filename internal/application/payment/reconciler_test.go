package payment_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-conciliacion/internal/application/payment"
	"github.com/jhoicas/erp-conciliacion/internal/application/ports"
	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
	"github.com/jhoicas/erp-conciliacion/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type recordingPublisher struct {
	postings []entity.Posting
	err      error
}

func (p *recordingPublisher) PublishPosting(_ context.Context, posting entity.Posting) error {
	p.postings = append(p.postings, posting)
	return p.err
}

// lockRecorder registra qué lecturas de cuenta se hicieron.
type lockRecorder struct {
	repository.AccountRepository
	plain, locked []string
}

func (r *lockRecorder) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	r.plain = append(r.plain, id)
	return r.AccountRepository.GetByID(ctx, id)
}

func (r *lockRecorder) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	r.locked = append(r.locked, id)
	return r.AccountRepository.GetForUpdate(ctx, id)
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*memory.Store, *recordingPublisher, *payment.Reconciler) {
	t.Helper()
	s := memory.NewStore()
	s.PutAccount(entity.Account{ID: "acc-1", Name: "Banco", Balance: money("1000.00"), Currency: "EUR"})
	pub := &recordingPublisher{}
	return s, pub, payment.NewReconciler(s, pub, nil)
}

func purchaseOrder(st status.Set) *entity.Order {
	return &entity.Order{
		ID:          "o1",
		Kind:        entity.OrderKindPurchase,
		PartnerID:   "sup-9",
		PartnerName: "Proveedor SA",
		AccountID:   "acc-1",
		Status:      st,
		Items: []entity.OrderItem{
			{ID: "1", MaterialID: "A", Quantity: decimal.NewFromInt(10), PriceTotal: money("100.00"), Currency: "EUR"},
			{ID: "2", MaterialID: "B", Quantity: decimal.NewFromInt(5), PriceTotal: money("50.00"), Currency: "EUR"},
		},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestReconcile_SaldarFacturaGeneraDesembolso(t *testing.T) {
	s, pub, r := setup(t)

	prior := purchaseOrder(status.New(status.InvoiceReceipt))
	next := purchaseOrder(status.New(status.InvoiceReceipt, status.InvoiceSettled))
	require.NoError(t, r.Reconcile(context.Background(), next, prior))

	acc, _ := s.Account("acc-1")
	assert.True(t, acc.Balance.Equal(money("850.00")), "saldo: %s", acc.Balance)
	require.Len(t, acc.Postings, 1, "exactamente un asiento")
	p := acc.Postings[0]
	assert.Equal(t, entity.PostingTypeDisbursal, p.Type)
	assert.Equal(t, "PO-o1", p.Reference)
	assert.True(t, p.Amount.Equal(money("150.00")))
	assert.Equal(t, "EUR", p.Currency)
	assert.Equal(t, "Proveedor SA", p.Counterparty)
	assert.NotEmpty(t, p.ID)

	require.Len(t, pub.postings, 1, "el asiento se publica tras el commit")
	assert.Equal(t, p.ID, pub.postings[0].ID)
}

func TestReconcile_RevertirSaldoGeneraIngreso(t *testing.T) {
	s, _, r := setup(t)
	ctx := context.Background()

	settled := purchaseOrder(status.New(status.InvoiceSettled))
	require.NoError(t, r.Reconcile(ctx, settled, purchaseOrder(status.New())))

	// La orden cambió de total después de saldada: se devuelve lo pagado.
	unsettled := purchaseOrder(status.New())
	unsettled.Items = unsettled.Items[:1]
	require.NoError(t, r.Reconcile(ctx, unsettled, settled))

	acc, _ := s.Account("acc-1")
	assert.True(t, acc.Balance.Equal(money("1000.00")))
	require.Len(t, acc.Postings, 2)
	assert.Equal(t, entity.PostingTypeReceipt, acc.Postings[1].Type)
	assert.True(t, acc.Postings[1].Amount.Equal(money("150.00")))
}

func TestReconcile_RevertirDevuelveALaCuentaQuePago(t *testing.T) {
	s, _, r := setup(t)
	ctx := context.Background()
	s.PutAccount(entity.Account{ID: "acc-2", Name: "Caja", Balance: money("500.00"), Currency: "EUR"})

	settled := purchaseOrder(status.New(status.InvoiceSettled))
	require.NoError(t, r.Reconcile(ctx, settled, nil))

	// En la misma edición se quita el saldo y se cambia la cuenta.
	unsettled := purchaseOrder(status.New())
	unsettled.AccountID = "acc-2"
	require.NoError(t, r.Reconcile(ctx, unsettled, settled))

	acc1, _ := s.Account("acc-1")
	assert.True(t, acc1.Balance.Equal(money("1000.00")), "saldo acc-1: %s", acc1.Balance)
	require.Len(t, acc1.Postings, 2)
	assert.Equal(t, entity.PostingTypeReceipt, acc1.Postings[1].Type)

	acc2, _ := s.Account("acc-2")
	assert.True(t, acc2.Balance.Equal(money("500.00")), "acc-2 no se toca")
	assert.Empty(t, acc2.Postings)
}

func TestReconcileInTx_BloqueaLaCuenta(t *testing.T) {
	s, _, r := setup(t)
	ctx := context.Background()

	var rec *lockRecorder
	err := s.Run(ctx, func(repos ports.Repositories) error {
		rec = &lockRecorder{AccountRepository: repos.Accounts}
		_, err := r.ReconcileInTx(ctx, rec, purchaseOrder(status.New(status.InvoiceSettled)), nil)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"acc-1"}, rec.locked, "el saldo se lee con la fila bloqueada")
	assert.Empty(t, rec.plain)
}

func TestReconcile_SinCambioDeSaldoNoHaceNada(t *testing.T) {
	s, pub, r := setup(t)
	next := purchaseOrder(status.New(status.InvoiceSettled, status.GoodsReceipt))
	require.NoError(t, r.Reconcile(context.Background(), next, purchaseOrder(status.New(status.InvoiceSettled))))

	acc, _ := s.Account("acc-1")
	assert.Empty(t, acc.Postings)
	assert.Empty(t, pub.postings)
}

func TestReconcile_SoloCompras(t *testing.T) {
	s, _, r := setup(t)
	next := purchaseOrder(status.New(status.InvoiceSettled))
	next.Kind = entity.OrderKindSales
	prior := next.Clone()
	prior.Status = status.New()

	require.NoError(t, r.Reconcile(context.Background(), next, prior))
	acc, _ := s.Account("acc-1")
	assert.Empty(t, acc.Postings)
}

func TestReconcile_ContraparteSinNombre(t *testing.T) {
	s, _, r := setup(t)
	next := purchaseOrder(status.New(status.InvoiceSettled))
	next.PartnerName = ""
	require.NoError(t, r.Reconcile(context.Background(), next, nil))

	acc, _ := s.Account("acc-1")
	require.Len(t, acc.Postings, 1)
	assert.Equal(t, "sup-9", acc.Postings[0].Counterparty)
}

func TestReconcile_Errores(t *testing.T) {
	ctx := context.Background()

	t.Run("moneda distinta", func(t *testing.T) {
		s, pub, r := setup(t)
		next := purchaseOrder(status.New(status.InvoiceSettled))
		for i := range next.Items {
			next.Items[i].Currency = "USD"
		}
		assert.ErrorIs(t, r.Reconcile(ctx, next, nil), domain.ErrCurrencyMismatch)
		acc, _ := s.Account("acc-1")
		assert.True(t, acc.Balance.Equal(money("1000.00")))
		assert.Empty(t, pub.postings)
	})

	t.Run("líneas en monedas distintas", func(t *testing.T) {
		s, pub, r := setup(t)
		next := purchaseOrder(status.New(status.InvoiceSettled))
		next.Items[1].Currency = "USD"
		assert.ErrorIs(t, r.Reconcile(ctx, next, nil), domain.ErrCurrencyMismatch)
		acc, _ := s.Account("acc-1")
		assert.True(t, acc.Balance.Equal(money("1000.00")))
		assert.Empty(t, acc.Postings)
		assert.Empty(t, pub.postings)
	})

	t.Run("sin cuenta", func(t *testing.T) {
		_, _, r := setup(t)
		next := purchaseOrder(status.New(status.InvoiceSettled))
		next.AccountID = ""
		assert.ErrorIs(t, r.Reconcile(ctx, next, nil), domain.ErrMissingAccount)
	})

	t.Run("cuenta inexistente", func(t *testing.T) {
		_, _, r := setup(t)
		next := purchaseOrder(status.New(status.InvoiceSettled))
		next.AccountID = "acc-x"
		assert.ErrorIs(t, r.Reconcile(ctx, next, nil), domain.ErrNotFound)
	})

	t.Run("falla al registrar el asiento revierte el saldo", func(t *testing.T) {
		s, pub, r := setup(t)
		boom := errors.New("insert falló")
		s.FailOn(memory.OpPostingCreate, "acc-1", boom)

		err := r.Reconcile(ctx, purchaseOrder(status.New(status.InvoiceSettled)), nil)
		assert.Same(t, boom, err)
		acc, _ := s.Account("acc-1")
		assert.True(t, acc.Balance.Equal(money("1000.00")))
		assert.Empty(t, pub.postings)
	})
}

func TestReconcile_ErrorDePublicacionNoFalla(t *testing.T) {
	s, pub, r := setup(t)
	pub.err = errors.New("kafka caído")

	require.NoError(t, r.Reconcile(context.Background(), purchaseOrder(status.New(status.InvoiceSettled)), nil))
	acc, _ := s.Account("acc-1")
	assert.Len(t, acc.Postings, 1, "el asiento queda confirmado aunque falle la publicación")
}
