package loan

import "context"

type Repository interface {
	// Create inserts the loan row only; children are written by AddGuarantors/SetAccountDetails.
	Create(ctx context.Context, l *Loan) error
	AddGuarantors(ctx context.Context, gs []Guarantor) error
	SetAccountDetails(ctx context.Context, a *AccountDetails) error

	// Get by public loan_id with guarantors and account details loaded
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	// Get by public loan_id and lock the row until the surrounding tx ends
	GetByLoanIDForUpdate(ctx context.Context, loanID string) (*Loan, error)
	// All loans of a user, hydrated, newest first
	ListByUserID(ctx context.Context, userID string) ([]Loan, error)

	// UpdateStatus writes l's status fields only if the stored status still equals from.
	// It reports whether a row changed.
	UpdateStatus(ctx context.Context, l *Loan, from Status) (bool, error)
}
