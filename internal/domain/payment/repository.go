package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

type Repository interface {
	Create(ctx context.Context, p *Payment) error

	// Lookup used to replay a retried submission
	GetByIdempotencyKey(ctx context.Context, loanID uint64, key string) (*Payment, error)

	// Sum of all payments for one loan (numeric id)
	SumByLoanID(ctx context.Context, loanID uint64) (decimal.Decimal, error)
	// Sums for many loans at once; loans without payments are absent from the map
	SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]decimal.Decimal, error)
	CountByLoanID(ctx context.Context, loanID uint64) (int64, error)

	// Payments on loans owned by userID, newest first. Empty loanRef means all loans.
	ListByUser(ctx context.Context, userID, loanRef string) ([]Payment, error)
}
