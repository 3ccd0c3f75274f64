package payment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-conciliacion/internal/application/ports"
	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	inv "github.com/jhoicas/erp-conciliacion/internal/domain/inventory"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
	"github.com/jhoicas/erp-conciliacion/pkg/logger"
)

// ReferencePrefix prefijo de la referencia de los asientos de órdenes de compra.
const ReferencePrefix = "PO-"

// Reconciler concilia la cuenta de pago con la liquidación de la factura de una orden de compra.
type Reconciler struct {
	txRunner  ports.TxRunner
	publisher ports.PostingPublisher
	log       *logger.Logger
	now       func() time.Time
}

// NewReconciler construye el conciliador de pagos. publisher puede ser nil.
func NewReconciler(txRunner ports.TxRunner, publisher ports.PostingPublisher, log *logger.Logger) *Reconciler {
	if publisher == nil {
		publisher = ports.NopPublisher{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{
		txRunner:  txRunner,
		publisher: publisher,
		log:       log.Named("payment"),
		now:       time.Now,
	}
}

// Reconcile abre su propia transacción, concilia y, tras el commit, publica el asiento creado.
func (r *Reconciler) Reconcile(ctx context.Context, next, prior *entity.Order) error {
	var posting *entity.Posting
	err := r.txRunner.Run(ctx, func(repos ports.Repositories) error {
		p, err := r.ReconcileInTx(ctx, repos.Accounts, next, prior)
		posting = p
		return err
	})
	if err != nil {
		return err
	}
	if posting != nil {
		r.Publish(ctx, *posting)
	}
	return nil
}

// ReconcileInTx aplica el efecto de pago usando el repositorio de una transacción abierta.
// Devuelve el asiento creado, o nil si el cambio de estado no afecta pagos.
// Solo INVOICE_SETTLED en órdenes de compra genera efecto:
//   - inactiva→activa: saldo -= total, asiento DISBURSAL
//   - activa→inactiva: saldo += total, asiento RECEIPT
func (r *Reconciler) ReconcileInTx(
	ctx context.Context,
	accounts repository.AccountRepository,
	next, prior *entity.Order,
) (*entity.Posting, error) {
	if next == nil || next.Kind != entity.OrderKindPurchase {
		return nil, nil
	}
	var direction int
	if prior == nil {
		direction = inv.DetectPaymentTransition(0, next.Status)
	} else {
		direction = inv.DetectPaymentTransition(prior.Status, next.Status)
	}
	if direction == 0 {
		return nil, nil
	}

	// Al revertir se devuelve exactamente lo que se pagó, y a la cuenta que pagó:
	// total y cuenta salen de la versión anterior.
	source := next
	postingType := entity.PostingTypeDisbursal
	if direction < 0 {
		source = prior
		postingType = entity.PostingTypeReceipt
	}

	if source.AccountID == "" {
		return nil, domain.ErrMissingAccount
	}
	account, err := accounts.GetForUpdate(ctx, source.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, fmt.Errorf("%w: cuenta %s", domain.ErrNotFound, source.AccountID)
	}

	currency := source.Currency()
	if account.Currency != "" && !source.SingleCurrency(account.Currency) {
		return nil, domain.ErrCurrencyMismatch
	}
	if currency == "" {
		currency = account.Currency
	}

	counterparty := next.PartnerName
	if counterparty == "" {
		counterparty = next.PartnerID
	}
	now := r.now()
	posting := entity.Posting{
		ID:           uuid.New().String(),
		AccountID:    account.ID,
		Type:         postingType,
		Counterparty: counterparty,
		Reference:    ReferencePrefix + next.ID,
		Amount:       source.Total(),
		Currency:     currency,
		Timestamp:    now,
	}
	account.Post(posting)
	account.UpdatedAt = now

	if err := accounts.Update(ctx, account); err != nil {
		return nil, err
	}
	if err := accounts.CreatePosting(ctx, &posting); err != nil {
		return nil, err
	}
	r.log.Info().Str("order_id", next.ID).Str("account_id", account.ID).
		Str("type", posting.Type).Str("amount", posting.Amount.String()).
		Str("currency", posting.Currency).Msg("asiento registrado")
	return &posting, nil
}

// Publish envía el asiento al publicador. Los errores solo se registran: el asiento ya
// está confirmado en la base de datos.
func (r *Reconciler) Publish(ctx context.Context, posting entity.Posting) {
	if err := r.publisher.PublishPosting(ctx, posting); err != nil {
		r.log.Error().Err(err).Str("posting_id", posting.ID).Msg("publicar asiento")
	}
}
