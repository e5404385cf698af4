package paymentmock

import (
	"context"

	"github.com/shopspring/decimal"

	domain "fastloan-backend/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn              func(ctx context.Context, p *domain.Payment) error
	GetByIdempotencyKeyFn func(ctx context.Context, loanID uint64, key string) (*domain.Payment, error)
	SumByLoanIDFn         func(ctx context.Context, loanID uint64) (decimal.Decimal, error)
	SumByLoanIDsFn        func(ctx context.Context, loanIDs []uint64) (map[uint64]decimal.Decimal, error)
	CountByLoanIDFn       func(ctx context.Context, loanID uint64) (int64, error)
	ListByUserFn          func(ctx context.Context, userID, loanRef string) ([]domain.Payment, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByIdempotencyKey(ctx context.Context, loanID uint64, key string) (*domain.Payment, error) {
	if m.GetByIdempotencyKeyFn != nil {
		return m.GetByIdempotencyKeyFn(ctx, loanID, key)
	}
	return nil, context.Canceled
}

func (m *Repo) SumByLoanID(ctx context.Context, loanID uint64) (decimal.Decimal, error) {
	if m.SumByLoanIDFn != nil {
		return m.SumByLoanIDFn(ctx, loanID)
	}
	return decimal.Zero, nil
}

func (m *Repo) SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]decimal.Decimal, error) {
	if m.SumByLoanIDsFn != nil {
		return m.SumByLoanIDsFn(ctx, loanIDs)
	}
	return map[uint64]decimal.Decimal{}, nil
}

func (m *Repo) CountByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	if m.CountByLoanIDFn != nil {
		return m.CountByLoanIDFn(ctx, loanID)
	}
	return 0, nil
}

func (m *Repo) ListByUser(ctx context.Context, userID, loanRef string) ([]domain.Payment, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID, loanRef)
	}
	return nil, context.Canceled
}
