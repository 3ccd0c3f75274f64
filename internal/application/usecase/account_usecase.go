package usecase

import (
	"context"

	"github.com/jhoicas/erp-conciliacion/internal/application/dto"
	"github.com/jhoicas/erp-conciliacion/internal/domain"
	"github.com/jhoicas/erp-conciliacion/internal/domain/repository"
)

// AccountUseCase consulta de cuentas de pago y su libro de asientos.
type AccountUseCase struct {
	repo repository.AccountRepository
}

// NewAccountUseCase construye el caso de uso.
func NewAccountUseCase(repo repository.AccountRepository) *AccountUseCase {
	return &AccountUseCase{repo: repo}
}

// GetByID devuelve la cuenta con saldo y asientos.
func (uc *AccountUseCase) GetByID(ctx context.Context, id string) (*dto.AccountResponse, error) {
	a, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, domain.ErrNotFound
	}
	resp := &dto.AccountResponse{
		ID:       a.ID,
		Name:     a.Name,
		Balance:  a.Balance,
		Currency: a.Currency,
		Postings: make([]dto.PostingResponse, 0, len(a.Postings)),
	}
	for _, p := range a.Postings {
		resp.Postings = append(resp.Postings, dto.PostingResponse{
			ID:           p.ID,
			Type:         p.Type,
			Counterparty: p.Counterparty,
			Reference:    p.Reference,
			Amount:       p.Amount,
			Currency:     p.Currency,
			Timestamp:    p.Timestamp,
		})
	}
	return resp, nil
}
