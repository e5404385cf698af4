package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "fastloan-backend/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "LN-1"}

	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx || got != l {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	if err := (&Repo{}).Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_Defaults(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}

	if err := m.AddGuarantors(ctx, nil); err != nil {
		t.Fatalf("AddGuarantors default: %v", err)
	}
	if err := m.SetAccountDetails(ctx, &domain.AccountDetails{}); err != nil {
		t.Fatalf("SetAccountDetails default: %v", err)
	}
	if _, err := m.GetByLoanID(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByLoanID default: %v", err)
	}
	if _, err := m.GetByLoanIDForUpdate(ctx, "x"); !errors.Is(err, context.Canceled) {
		t.Fatalf("GetByLoanIDForUpdate default: %v", err)
	}
	if _, err := m.ListByUserID(ctx, "u"); !errors.Is(err, context.Canceled) {
		t.Fatalf("ListByUserID default: %v", err)
	}
	if ok, err := m.UpdateStatus(ctx, &domain.Loan{}, domain.StatusPending); !ok || err != nil {
		t.Fatalf("UpdateStatus default: %v %v", ok, err)
	}
}

func TestRepo_UpdateStatusForwards(t *testing.T) {
	m := &Repo{
		UpdateStatusFn: func(_ context.Context, l *domain.Loan, from domain.Status) (bool, error) {
			if l.Status != domain.StatusApproved || from != domain.StatusPending {
				t.Fatalf("unexpected args: %s from %s", l.Status, from)
			}
			return false, nil
		},
	}
	ok, err := m.UpdateStatus(context.Background(), &domain.Loan{Status: domain.StatusApproved}, domain.StatusPending)
	if ok || err != nil {
		t.Fatalf("got %v %v", ok, err)
	}
}
