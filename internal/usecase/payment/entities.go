package payment

import (
	"time"

	"github.com/shopspring/decimal"

	domain "fastloan-backend/internal/domain/payment"
)

type RecordPaymentInput struct {
	Amount   decimal.Decimal `json:"amount" validate:"positive,dec2,maxamount"`
	Provider string          `json:"provider" validate:"required,momoprovider"`
	// Client-chosen key; a resubmission with the same key returns the first payment.
	IdempotencyKey string `json:"idempotency_key" validate:"required,max=64"`
}

type PaymentDTO struct {
	PaymentID      string          `json:"payment_id"`
	LoanID         string          `json:"loan_id"`
	Amount         decimal.Decimal `json:"amount"`
	Date           time.Time       `json:"date"`
	Provider       string          `json:"provider"`
	TransactionID  string          `json:"transaction_id"`
	IdempotencyKey string          `json:"idempotency_key"`
}

type RecordResult struct {
	Payment     PaymentDTO      `json:"payment"`
	LoanStatus  string          `json:"loan_status"`
	TotalPaid   decimal.Decimal `json:"total_paid"`
	Outstanding decimal.Decimal `json:"outstanding"`
	// Replayed is set when the key had already been recorded and nothing was written.
	Replayed bool `json:"replayed"`
}

type SummaryDTO struct {
	LoanID       string          `json:"loan_id"`
	Status       string          `json:"status"`
	Principal    decimal.Decimal `json:"principal"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	Outstanding  decimal.Decimal `json:"outstanding"`
	PaymentCount int64           `json:"payment_count"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
}

func toDTO(p *domain.Payment, loanRef string) PaymentDTO {
	if loanRef == "" {
		loanRef = p.LoanRef
	}
	return PaymentDTO{
		PaymentID:      p.PaymentID,
		LoanID:         loanRef,
		Amount:         p.Amount,
		Date:           p.PaidAt,
		Provider:       p.Provider,
		TransactionID:  p.TransactionID,
		IdempotencyKey: p.IdempotencyKey,
	}
}
