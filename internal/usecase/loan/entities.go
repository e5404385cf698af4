package loan

import (
	"time"

	"github.com/shopspring/decimal"

	domain "fastloan-backend/internal/domain/loan"
)

type GuarantorInput struct {
	FullName     string  `json:"full_name" validate:"required,max=128"`
	PhoneNumber  string  `json:"phone_number" validate:"required,phone"`
	Email        *string `json:"email,omitempty" validate:"omitempty,email,max=255"`
	Relationship string  `json:"relationship" validate:"required,relationship"`
}

type AccountDetailsInput struct {
	MobileMoneyNumber string `json:"mobile_money_number" validate:"required,phone"`
	AccountName       string `json:"account_name" validate:"required,max=128"`
	Provider          string `json:"provider" validate:"required,momoprovider"`
}

type CreateLoanInput struct {
	Amount         decimal.Decimal      `json:"amount" validate:"positive,dec2,maxamount"`
	Purpose        string               `json:"purpose" validate:"required,loanpurpose"`
	Duration       int                  `json:"duration" validate:"required,loanduration"`
	Guarantors     []GuarantorInput     `json:"guarantors" validate:"required,min=1,max=2,dive"`
	AccountDetails *AccountDetailsInput `json:"account_details" validate:"required"`
}

type TransitionInput struct {
	Status string `json:"status" validate:"required,oneof=pending approved rejected active completed"`
}

type GuarantorDTO struct {
	GuarantorID  string  `json:"guarantor_id"`
	FullName     string  `json:"full_name"`
	PhoneNumber  string  `json:"phone_number"`
	Email        *string `json:"email,omitempty"`
	Relationship string  `json:"relationship"`
}

type AccountDetailsDTO struct {
	MobileMoneyNumber string `json:"mobile_money_number"`
	AccountName       string `json:"account_name"`
	Provider          string `json:"provider"`
}

type LoanDTO struct {
	LoanID         string             `json:"loan_id"`
	UserID         string             `json:"user_id"`
	Amount         decimal.Decimal    `json:"amount"`
	Purpose        string             `json:"purpose"`
	Duration       int                `json:"duration"`
	Status         string             `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	ApprovedAt     *time.Time         `json:"approved_at,omitempty"`
	DueDate        *time.Time         `json:"due_date,omitempty"`
	Guarantors     []GuarantorDTO     `json:"guarantors"`
	AccountDetails *AccountDetailsDTO `json:"account_details,omitempty"`
	TotalPaid      decimal.Decimal    `json:"total_paid"`
	Outstanding    decimal.Decimal    `json:"outstanding"`
}

// Outstanding is principal minus paid, floored at zero. Interest is not applied.
func Outstanding(principal, paid decimal.Decimal) decimal.Decimal {
	if rest := principal.Sub(paid); rest.IsPositive() {
		return rest
	}
	return decimal.Zero
}

func toDTO(l *domain.Loan, paid decimal.Decimal) LoanDTO {
	dto := LoanDTO{
		LoanID:      l.LoanID,
		UserID:      l.UserID,
		Amount:      l.Amount,
		Purpose:     l.Purpose,
		Duration:    l.Duration,
		Status:      string(l.Status),
		CreatedAt:   l.CreatedAt,
		ApprovedAt:  l.ApprovedAt,
		DueDate:     l.DueDate,
		Guarantors:  make([]GuarantorDTO, 0, len(l.Guarantors)),
		TotalPaid:   paid,
		Outstanding: Outstanding(l.Amount, paid),
	}
	for _, g := range l.Guarantors {
		dto.Guarantors = append(dto.Guarantors, GuarantorDTO{
			GuarantorID:  g.GuarantorID,
			FullName:     g.FullName,
			PhoneNumber:  g.PhoneNumber,
			Email:        g.Email,
			Relationship: g.Relationship,
		})
	}
	if a := l.AccountDetails; a != nil {
		dto.AccountDetails = &AccountDetailsDTO{
			MobileMoneyNumber: a.MobileMoneyNumber,
			AccountName:       a.AccountName,
			Provider:          a.Provider,
		}
	}
	return dto
}
