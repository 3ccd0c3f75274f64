package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// PostingResponse asiento de una cuenta.
type PostingResponse struct {
	ID           string          `json:"id"`
	Type         string          `json:"type"`
	Counterparty string          `json:"counterparty"`
	Reference    string          `json:"reference"`
	Amount       decimal.Decimal `json:"amount"`
	Currency     string          `json:"currency"`
	Timestamp    time.Time       `json:"timestamp"`
}

// AccountResponse cuenta de pago con saldo y asientos.
type AccountResponse struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Balance  decimal.Decimal   `json:"balance"`
	Currency string            `json:"currency"`
	Postings []PostingResponse `json:"postings"`
}
