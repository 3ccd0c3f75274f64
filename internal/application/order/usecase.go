package order

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/erp-conciliacion/internal/application/dto"
	"github.com/jhoicas/erp-conciliacion/internal/application/inventory"
	"github.com/jhoicas/erp-conciliacion/internal/application/payment"
	"github.com/jhoicas/erp-conciliacion/internal/application/ports"
	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
	"github.com/jhoicas/erp-conciliacion/pkg/logger"
)

// UseCase alta, modificación y baja de órdenes. Cada operación valida la orden propuesta y
// concilia inventario y pagos contra la versión persistida en una sola transacción.
type UseCase struct {
	txRunner  ports.TxRunner
	inventory *inventory.Reconciler
	payment   *payment.Reconciler
	log       *logger.Logger
	now       func() time.Time
}

// NewUseCase construye el caso de uso de órdenes.
func NewUseCase(
	txRunner ports.TxRunner,
	inventoryRec *inventory.Reconciler,
	paymentRec *payment.Reconciler,
	log *logger.Logger,
) *UseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &UseCase{
		txRunner:  txRunner,
		inventory: inventoryRec,
		payment:   paymentRec,
		log:       log.Named("orders"),
		now:       time.Now,
	}
}

// Create valida y registra una orden nueva. Si ya llega con mercancía recibida, saldada o
// terminada, el efecto se concilia contra un estado previo vacío.
func (uc *UseCase) Create(ctx context.Context, in dto.OrderRequest) (*dto.OrderResponse, error) {
	var created *entity.Order
	err := uc.mutate(ctx, func(repos ports.Repositories) (*entity.Order, *entity.Order, error) {
		next, err := buildOrder(ctx, repos.Materials, in, nil)
		if err != nil {
			return nil, nil, err
		}
		if next.ID == "" {
			next.ID = uuid.New().String()
		}
		existing, err := repos.Orders.GetByID(ctx, next.ID)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			return nil, nil, domain.ErrDuplicate
		}
		now := uc.now()
		next.CreatedAt, next.UpdatedAt = now, now
		created = next
		return next, nil, nil
	}, func(repos ports.Repositories, next *entity.Order) error {
		return repos.Orders.Create(ctx, next)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(created), nil
}

// Update reemplaza la orden id con la versión propuesta.
func (uc *UseCase) Update(ctx context.Context, id string, in dto.OrderRequest) (*dto.OrderResponse, error) {
	var updated *entity.Order
	err := uc.mutate(ctx, func(repos ports.Repositories) (*entity.Order, *entity.Order, error) {
		prior, err := loadOrder(ctx, repos.Orders, id)
		if err != nil {
			return nil, nil, err
		}
		next, err := buildOrder(ctx, repos.Materials, in, prior)
		if err != nil {
			return nil, nil, err
		}
		next.ID = prior.ID
		next.CreatedAt = prior.CreatedAt
		next.UpdatedAt = uc.now()
		updated = next
		return next, prior, nil
	}, func(repos ports.Repositories, next *entity.Order) error {
		return repos.Orders.Update(ctx, next)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(updated), nil
}

// SetFlag activa o desactiva una bandera primitiva de una orden de compra o venta.
func (uc *UseCase) SetFlag(ctx context.Context, id string, in dto.SetFlagRequest) (*dto.OrderResponse, error) {
	flag, err := status.ParseFlag(in.Flag)
	if err != nil {
		return nil, err
	}
	var updated *entity.Order
	err = uc.mutate(ctx, func(repos ports.Repositories) (*entity.Order, *entity.Order, error) {
		prior, err := loadOrder(ctx, repos.Orders, id)
		if err != nil {
			return nil, nil, err
		}
		next := prior.Clone()
		if err := next.SetFlag(flag, in.Active); err != nil {
			return nil, nil, err
		}
		next.UpdatedAt = uc.now()
		updated = next
		return next, prior, nil
	}, func(repos ports.Repositories, next *entity.Order) error {
		return repos.Orders.Update(ctx, next)
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(updated), nil
}

// Delete revierte todos los efectos de la orden (como si volviera a estar abierta, sin
// mercancía, sin factura saldada y sin terminar) y la elimina.
func (uc *UseCase) Delete(ctx context.Context, id string) error {
	return uc.mutate(ctx, func(repos ports.Repositories) (*entity.Order, *entity.Order, error) {
		prior, err := loadOrder(ctx, repos.Orders, id)
		if err != nil {
			return nil, nil, err
		}
		next := prior.Clone()
		next.Status = status.New()
		next.ProductionStatus = entity.ProductionStatusOpen
		return next, prior, nil
	}, func(repos ports.Repositories, next *entity.Order) error {
		return repos.Orders.Delete(ctx, next.ID)
	})
}

// Get devuelve una orden por ID.
func (uc *UseCase) Get(ctx context.Context, id string) (*dto.OrderResponse, error) {
	var out *entity.Order
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		o, err := loadOrder(ctx, repos.Orders, id)
		out = o
		return err
	})
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(out), nil
}

// mutate ejecuta en una transacción: preparar (next, prior) → validar → conciliar inventario →
// conciliar pagos → persistir. Tras el commit publica el asiento creado, si hubo.
func (uc *UseCase) mutate(
	ctx context.Context,
	prepare func(repos ports.Repositories) (next, prior *entity.Order, err error),
	persist func(repos ports.Repositories, next *entity.Order) error,
) error {
	var posting *entity.Posting
	err := uc.txRunner.Run(ctx, func(repos ports.Repositories) error {
		next, prior, err := prepare(repos)
		if err != nil {
			return err
		}
		if err := Validate(next, prior); err != nil {
			return err
		}
		if err := uc.inventory.ReconcileInTx(ctx, repos, next, prior); err != nil {
			return err
		}
		posting, err = uc.payment.ReconcileInTx(ctx, repos.Accounts, next, prior)
		if err != nil {
			return err
		}
		return persist(repos, next)
	})
	if err != nil {
		uc.log.Debug().Err(err).Msg("operación de orden revertida")
		return err
	}
	if posting != nil {
		uc.payment.Publish(ctx, *posting)
	}
	return nil
}

func loadOrder(ctx context.Context, orders repository.OrderRepository, id string) (*entity.Order, error) {
	o, err := orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// buildOrder arma la orden propuesta. Las líneas sin cambio de material ni cantidad respecto
// de prior conservan su total congelado; las demás se valorizan con el precio actual del material.
func buildOrder(
	ctx context.Context,
	materials repository.MaterialRepository,
	in dto.OrderRequest,
	prior *entity.Order,
) (*entity.Order, error) {
	o := &entity.Order{
		ID:               in.ID,
		Kind:             in.Kind,
		PartnerID:        in.PartnerID,
		PartnerName:      in.PartnerName,
		AccountID:        in.AccountID,
		DeliveryDate:     in.DeliveryDate,
		ProductionStatus: in.ProductionStatus,
		Items:            make([]entity.OrderItem, 0, len(in.Items)),
	}
	if o.Kind != entity.OrderKindProduction {
		o.Status = in.Status
	}
	for _, it := range in.Items {
		item := entity.OrderItem{ID: it.ID}
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		if prior != nil {
			if old, ok := prior.ItemByID(it.ID); ok &&
				old.MaterialID == it.MaterialID && old.Quantity.Equal(it.Quantity) {
				o.Items = append(o.Items, old)
				continue
			}
		}
		if it.MaterialID == "" {
			return nil, domain.ErrUnknownMaterial
		}
		m, err := materials.GetByID(ctx, it.MaterialID)
		if err != nil {
			return nil, err
		}
		if m == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownMaterial, it.MaterialID)
		}
		item.Assign(m, it.Quantity)
		o.Items = append(o.Items, item)
	}
	return o, nil
}

// ToOrderResponse convierte la entidad en DTO de salida.
func ToOrderResponse(o *entity.Order) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:           o.ID,
		Kind:         o.Kind,
		PartnerID:    o.PartnerID,
		PartnerName:  o.PartnerName,
		AccountID:    o.AccountID,
		DeliveryDate: o.DeliveryDate,
		Total:        o.Total(),
		Currency:     o.Currency(),
		CreatedAt:    o.CreatedAt,
		UpdatedAt:    o.UpdatedAt,
		Items:        make([]dto.OrderItemResponse, 0, len(o.Items)),
	}
	if o.UsesFlags() {
		s := o.Status
		resp.Status = &s
	} else {
		resp.ProductionStatus = o.ProductionStatus
	}
	for _, it := range o.Items {
		resp.Items = append(resp.Items, dto.OrderItemResponse{
			ID:         it.ID,
			MaterialID: it.MaterialID,
			Quantity:   it.Quantity,
			PriceTotal: it.PriceTotal,
			Currency:   it.Currency,
		})
	}
	return resp
}
