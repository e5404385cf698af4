package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// Table: payments. Append-only: rows are inserted and never updated or deleted.
type Payment struct {
	ID        uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	PaymentID string `gorm:"column:payment_id;size:32;not null;uniqueIndex"`
	// FK to loans.id (numeric)
	LoanID uint64 `gorm:"column:loan_id;not null;index;uniqueIndex:ux_payments_loan_idem"`
	// Public loan_id, filled by queries that join loans
	LoanRef        string          `gorm:"->;-:migration;column:loan_ref"`
	Amount         decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	PaidAt         time.Time       `gorm:"column:date;not null;index"`
	Provider       string          `gorm:"column:provider;size:32;not null"`
	TransactionID  string          `gorm:"column:transaction_id;size:64;not null;uniqueIndex"`
	IdempotencyKey string          `gorm:"column:idempotency_key;size:64;not null;uniqueIndex:ux_payments_loan_idem"`
	CreatedAt      time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (Payment) TableName() string { return "payments" }

// Total sums the amounts of ps.
func Total(ps []Payment) decimal.Decimal {
	sum := decimal.Zero
	for _, p := range ps {
		sum = sum.Add(p.Amount)
	}
	return sum
}
