package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
	"github.com/jhoicas/erp-conciliacion/internal/domain/status"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository sobre PostgreSQL (usable con pool o tx).
// El conjunto de banderas se guarda como SMALLINT (máscara de bits).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste cabecera y líneas.
func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orders (id, kind, partner_id, partner_name, account_id, delivery_date,
			status, production_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10)`,
		o.ID, o.Kind, o.PartnerID, o.PartnerName, o.AccountID, o.DeliveryDate,
		int16(o.Status), o.ProductionStatus, o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return r.insertItems(ctx, o)
}

// GetByID obtiene la orden con sus líneas en el orden en que se registraron.
func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	var (
		o                 entity.Order
		accountID, prodSt *string
		flags             int16
	)
	err := r.q.QueryRow(ctx, `
		SELECT id, kind, partner_id, partner_name, account_id, delivery_date,
			status, production_status, created_at, updated_at
		FROM orders WHERE id = $1`, id,
	).Scan(&o.ID, &o.Kind, &o.PartnerID, &o.PartnerName, &accountID, &o.DeliveryDate,
		&flags, &prodSt, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	o.Status = status.Set(flags)
	if accountID != nil {
		o.AccountID = *accountID
	}
	if prodSt != nil {
		o.ProductionStatus = *prodSt
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, material_id, quantity, price_total, currency
		FROM order_items WHERE order_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var it entity.OrderItem
		if err := rows.Scan(&it.ID, &it.MaterialID, &it.Quantity, &it.PriceTotal, &it.Currency); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		o.Items = append(o.Items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list order items: %w", err)
	}
	return &o, nil
}

// Update reemplaza cabecera, estado y líneas.
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	cmd, err := r.q.Exec(ctx, `
		UPDATE orders SET partner_id = $2, partner_name = $3, account_id = NULLIF($4, ''),
			delivery_date = $5, status = $6, production_status = NULLIF($7, ''), updated_at = $8
		WHERE id = $1`,
		o.ID, o.PartnerID, o.PartnerName, o.AccountID, o.DeliveryDate,
		int16(o.Status), o.ProductionStatus, o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, o.ID); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	return r.insertItems(ctx, o)
}

// Delete elimina la orden y sus líneas.
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
		return fmt.Errorf("delete order items: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *OrderRepo) insertItems(ctx context.Context, o *entity.Order) error {
	for i, it := range o.Items {
		_, err := r.q.Exec(ctx, `
			INSERT INTO order_items (order_id, id, position, material_id, quantity, price_total, currency)
			VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, it.ID, i, it.MaterialID, it.Quantity, it.PriceTotal, it.Currency,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return domain.ErrDuplicateItem
			}
			return fmt.Errorf("insert order item: %w", err)
		}
	}
	return nil
}
