package loanmock

import (
	"context"

	domain "fastloan-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Writes default to a nil error; reads default to context.Canceled.
type Repo struct {
	CreateFn               func(ctx context.Context, l *domain.Loan) error
	AddGuarantorsFn        func(ctx context.Context, gs []domain.Guarantor) error
	SetAccountDetailsFn    func(ctx context.Context, a *domain.AccountDetails) error
	GetByLoanIDFn          func(ctx context.Context, loanID string) (*domain.Loan, error)
	GetByLoanIDForUpdateFn func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByUserIDFn         func(ctx context.Context, userID string) ([]domain.Loan, error)
	UpdateStatusFn         func(ctx context.Context, l *domain.Loan, from domain.Status) (bool, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) AddGuarantors(ctx context.Context, gs []domain.Guarantor) error {
	if m.AddGuarantorsFn != nil {
		return m.AddGuarantorsFn(ctx, gs)
	}
	return nil
}

func (m *Repo) SetAccountDetails(ctx context.Context, a *domain.AccountDetails) error {
	if m.SetAccountDetailsFn != nil {
		return m.SetAccountDetailsFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByLoanIDForUpdate(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDForUpdateFn != nil {
		return m.GetByLoanIDForUpdateFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

// UpdateStatus defaults to "one row changed".
func (m *Repo) UpdateStatus(ctx context.Context, l *domain.Loan, from domain.Status) (bool, error) {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, l, from)
	}
	return true, nil
}
