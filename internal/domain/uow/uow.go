package uow

import (
	"context"

	"fastloan-backend/internal/domain/loan"
	"fastloan-backend/internal/domain/payment"
	"fastloan-backend/internal/domain/user"
)

// Repos are bound to the transaction that WithinTx/WithinLoanTx opened.
type Repos struct {
	Loans    loan.Repository
	Payments payment.Repository
	Users    user.Repository
}

type UnitOfWork interface {
	// plain tx: fn's error rolls everything back
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan row first, then pass it in; concurrent callers for the same loan queue here
	WithinLoanTx(ctx context.Context, loanID string, fn func(r Repos, l *loan.Loan) error) error
}
