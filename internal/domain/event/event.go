// Package event holds the facts the loan domain announces after a commit.
package event

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TypeLoanCreated       = "loan.created"
	TypeLoanStatusChanged = "loan.status_changed"
	TypePaymentRecorded   = "payment.recorded"
)

type LoanCreated struct {
	LoanID     string          `json:"loan_id"`
	UserID     string          `json:"user_id"`
	Amount     decimal.Decimal `json:"amount"`
	Duration   int             `json:"duration"`
	Guarantors int             `json:"guarantors"`
	At         time.Time       `json:"at"`
}

type LoanStatusChanged struct {
	LoanID string    `json:"loan_id"`
	UserID string    `json:"user_id"`
	From   string    `json:"from"`
	To     string    `json:"to"`
	At     time.Time `json:"at"`
}

type PaymentRecorded struct {
	LoanID        string          `json:"loan_id"`
	UserID        string          `json:"user_id"`
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	TotalPaid     decimal.Decimal `json:"total_paid"`
	Provider      string          `json:"provider"`
	At            time.Time       `json:"at"`
}

// Publisher is called only after the producing transaction committed.
type Publisher interface {
	PublishLoanCreated(ctx context.Context, e LoanCreated) error
	PublishLoanStatusChanged(ctx context.Context, e LoanStatusChanged) error
	PublishPaymentRecorded(ctx context.Context, e PaymentRecorded) error
}

// Nop drops every event.
type Nop struct{}

func (Nop) PublishLoanCreated(context.Context, LoanCreated) error             { return nil }
func (Nop) PublishLoanStatusChanged(context.Context, LoanStatusChanged) error { return nil }
func (Nop) PublishPaymentRecorded(context.Context, PaymentRecorded) error     { return nil }
