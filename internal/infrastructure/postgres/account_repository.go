package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/entity"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
)

var _ repository.AccountRepository = (*AccountRepo)(nil)

// AccountRepo implementación de AccountRepository sobre PostgreSQL (usable con pool o tx).
type AccountRepo struct {
	q Querier
}

// NewAccountRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAccountRepository(q Querier) *AccountRepo {
	return &AccountRepo{q: q}
}

const accountColumns = `id, name, balance, currency, updated_at`

// GetByID obtiene la cuenta y su libro de asientos en orden cronológico.
func (r *AccountRepo) GetByID(ctx context.Context, id string) (*entity.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

// GetForUpdate obtiene la cuenta y bloquea la fila (SELECT FOR UPDATE).
func (r *AccountRepo) GetForUpdate(ctx context.Context, id string) (*entity.Account, error) {
	return r.get(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1 FOR UPDATE`, id)
}

func (r *AccountRepo) get(ctx context.Context, query, id string) (*entity.Account, error) {
	var a entity.Account
	err := r.q.QueryRow(ctx, query, id).Scan(&a.ID, &a.Name, &a.Balance, &a.Currency, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get account: %w", err)
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, account_id, type, counterparty, reference, amount, currency, created_at
		FROM postings WHERE account_id = $1
		ORDER BY created_at, id`, id)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p entity.Posting
		if err := rows.Scan(&p.ID, &p.AccountID, &p.Type, &p.Counterparty, &p.Reference,
			&p.Amount, &p.Currency, &p.Timestamp); err != nil {
			return nil, fmt.Errorf("scan posting: %w", err)
		}
		a.Postings = append(a.Postings, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	return &a, nil
}

// Update persiste el saldo de la cuenta.
func (r *AccountRepo) Update(ctx context.Context, a *entity.Account) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE accounts SET balance = $2, updated_at = $3 WHERE id = $1`,
		a.ID, a.Balance, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update account: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreatePosting agrega un asiento al libro (los asientos nunca se modifican).
func (r *AccountRepo) CreatePosting(ctx context.Context, p *entity.Posting) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO postings (id, account_id, type, counterparty, reference, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		p.ID, p.AccountID, p.Type, p.Counterparty, p.Reference, p.Amount, p.Currency, p.Timestamp,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert posting: %w", err)
	}
	return nil
}
