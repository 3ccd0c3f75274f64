package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-conciliacion/internal/application/ports"
	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	inv "github.com/jhoicas/erp-conciliacion/internal/domain/inventory"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
	"github.com/jhoicas/erp-conciliacion/pkg/logger"
)

// Options configuración del conciliador de inventario.
type Options struct {
	StrictBOM bool // material producido sin lista de materiales = falla de validación
}

// Reconciler concilia el inventario de materiales con el cambio de estado de una orden.
// Calcula primero todas las variaciones y luego las aplica dentro de una sola transacción:
// o se aplican todas o ninguna.
type Reconciler struct {
	txRunner ports.TxRunner
	opts     Options
	log      *logger.Logger
	now      func() time.Time
}

// NewReconciler construye el conciliador de inventario.
func NewReconciler(txRunner ports.TxRunner, opts Options, log *logger.Logger) *Reconciler {
	if log == nil {
		log = logger.Nop()
	}
	return &Reconciler{
		txRunner: txRunner,
		opts:     opts,
		log:      log.Named("inventory"),
		now:      time.Now,
	}
}

// Reconcile abre su propia transacción y concilia (next, prior).
// prior == nil representa una orden recién creada (abierta y sin líneas).
func (r *Reconciler) Reconcile(ctx context.Context, next, prior *entity.Order) error {
	return r.txRunner.Run(ctx, func(repos ports.Repositories) error {
		return r.ReconcileInTx(ctx, repos, next, prior)
	})
}

// ReconcileInTx concilia usando repositorios de una transacción abierta por el caller.
func (r *Reconciler) ReconcileInTx(ctx context.Context, repos ports.Repositories, next, prior *entity.Order) error {
	batch, transition, err := r.Plan(ctx, repos.BOMs, next, prior)
	if err != nil {
		return err
	}
	r.log.Debug().Str("order_id", next.ID).Str("kind", next.Kind).
		Stringer("transition", transition).Msg("transición de inventario detectada")
	if transition == inv.TransitionNone {
		return nil
	}
	adjustments := batch.Adjustments()
	if err := r.Apply(ctx, repos.Materials, adjustments); err != nil {
		return err
	}
	if len(adjustments) > 0 {
		r.log.Info().Str("order_id", next.ID).Stringer("transition", transition).
			Int("materials", len(adjustments)).Msg("inventario conciliado")
	}
	return nil
}

// Plan calcula las variaciones de inventario sin tocar los materiales.
func (r *Reconciler) Plan(
	ctx context.Context,
	boms repository.BillOfMaterialRepository,
	next, prior *entity.Order,
) (*inv.Batch, inv.Transition, error) {
	if next == nil {
		return nil, inv.TransitionNone, domain.ErrInvalidInput
	}
	if prior == nil {
		prior = emptyPrior(next)
	}
	batch := inv.NewBatch()

	switch next.Kind {
	case entity.OrderKindPurchase, entity.OrderKindSales:
		sign := int64(1)
		if next.Kind == entity.OrderKindSales {
			// En ventas la mercancía sale del inventario.
			sign = -1
		}
		t := inv.DetectGoodsTransition(prior.Status, next.Status)
		planGoods(batch, t, next, prior, sign)
		return batch, t, nil

	case entity.OrderKindProduction:
		t := inv.DetectProductionTransition(prior.IsFinished(), next.IsFinished())
		expander := NewBOMExpander(boms, r.opts.StrictBOM, r.log)
		if err := planProduction(ctx, expander, batch, t, next, prior); err != nil {
			return nil, t, err
		}
		return batch, t, nil
	}
	return nil, inv.TransitionNone, domain.ErrInvalidInput
}

func planGoods(batch *inv.Batch, t inv.Transition, next, prior *entity.Order, sign int64) {
	switch t {
	case inv.TransitionReceive, inv.TransitionUncancel:
		batch.AddItems(next.Items, sign)
	case inv.TransitionUnreceive, inv.TransitionCancel:
		batch.AddItems(prior.Items, -sign)
	case inv.TransitionItemsChanged:
		additions, reductions := inv.DiffItems(next.Items, prior.Items)
		s := decimal.NewFromInt(sign)
		for _, it := range next.Items {
			if q, ok := additions[it.MaterialID]; ok {
				batch.Add(it.MaterialID, q.Mul(s))
				delete(additions, it.MaterialID)
			}
		}
		for _, it := range prior.Items {
			if q, ok := reductions[it.MaterialID]; ok {
				batch.Add(it.MaterialID, q.Mul(s).Neg())
				delete(reductions, it.MaterialID)
			}
		}
	}
}

func planProduction(
	ctx context.Context,
	expander *BOMExpander,
	batch *inv.Batch,
	t inv.Transition,
	next, prior *entity.Order,
) error {
	switch t {
	case inv.TransitionProduce:
		for _, it := range next.Items {
			if err := produce(ctx, expander, batch, it.MaterialID, it.Quantity); err != nil {
				return err
			}
		}
	case inv.TransitionUnproduce:
		for _, it := range prior.Items {
			if err := produce(ctx, expander, batch, it.MaterialID, it.Quantity.Neg()); err != nil {
				return err
			}
		}
	case inv.TransitionItemsChanged:
		additions, reductions := inv.DiffItems(next.Items, prior.Items)
		for _, it := range next.Items {
			if q, ok := additions[it.MaterialID]; ok {
				if err := produce(ctx, expander, batch, it.MaterialID, q); err != nil {
					return err
				}
				delete(additions, it.MaterialID)
			}
		}
		for _, it := range prior.Items {
			if q, ok := reductions[it.MaterialID]; ok {
				if err := produce(ctx, expander, batch, it.MaterialID, q.Neg()); err != nil {
					return err
				}
				delete(reductions, it.MaterialID)
			}
		}
	}
	return nil
}

// produce suma qty del material producido y descuenta sus componentes (qty negativa = inverso).
func produce(ctx context.Context, expander *BOMExpander, batch *inv.Batch, materialID string, qty decimal.Decimal) error {
	batch.Add(materialID, qty)
	components, err := expander.Expand(ctx, materialID, qty)
	if err != nil {
		return err
	}
	for _, c := range components {
		batch.Add(c.MaterialID, c.Quantity.Neg())
	}
	return nil
}

// Apply aplica las variaciones con bloqueo de fila. Primero carga y valida todos los
// materiales (existencia e inventario no negativo) y solo después escribe, de modo que una
// falla de validación no deja escrituras. Un error de escritura del repositorio se propaga
// sin reintento; el rollback del TxRunner descarta lo ya escrito.
func (r *Reconciler) Apply(ctx context.Context, materials repository.MaterialRepository, adjustments []inv.Adjustment) error {
	locked := make([]*entity.Material, 0, len(adjustments))
	for _, adj := range adjustments {
		m, err := materials.GetForUpdate(ctx, adj.MaterialID)
		if err != nil {
			return err
		}
		if m == nil {
			return fmt.Errorf("%w: %s", domain.ErrUnknownMaterial, adj.MaterialID)
		}
		if m.Inventory.Add(adj.Delta).IsNegative() {
			return fmt.Errorf("%w: material %s (disponible %s, requerido %s)",
				domain.ErrInsufficientStock, m.ID, m.Inventory.String(), adj.Delta.Neg().String())
		}
		locked = append(locked, m)
	}

	now := r.now()
	for i, m := range locked {
		m.Inventory = m.Inventory.Add(adjustments[i].Delta)
		m.UpdatedAt = now
		if err := materials.Update(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

// emptyPrior estado previo de una orden nueva: abierta, sin banderas y sin líneas.
func emptyPrior(next *entity.Order) *entity.Order {
	return &entity.Order{
		ID:               next.ID,
		Kind:             next.Kind,
		Status:           status.New(),
		ProductionStatus: entity.ProductionStatusOpen,
	}
}
