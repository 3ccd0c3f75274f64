package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento sobre una cuenta de pago.
const (
	PostingTypeReceipt   = "RECEIPT"   // aumenta el saldo
	PostingTypeDisbursal = "DISBURSAL" // disminuye el saldo
)

// Account cuenta de pago con su saldo y libro de asientos (solo se agregan, nunca se editan).
type Account struct {
	ID        string
	Name      string
	Balance   decimal.Decimal
	Currency  string
	Postings  []Posting
	UpdatedAt time.Time
}

// Posting asiento inmutable que registra un movimiento de dinero en la cuenta.
type Posting struct {
	ID           string
	AccountID    string
	Type         string // RECEIPT, DISBURSAL
	Counterparty string
	Reference    string // ej: "PO-<id de la orden>"
	Amount       decimal.Decimal
	Currency     string
	Timestamp    time.Time
}

// Post aplica el asiento al saldo y lo agrega al libro.
func (a *Account) Post(p Posting) {
	switch p.Type {
	case PostingTypeReceipt:
		a.Balance = a.Balance.Add(p.Amount)
	case PostingTypeDisbursal:
		a.Balance = a.Balance.Sub(p.Amount)
	}
	a.Postings = append(a.Postings, p)
}
