package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// MaxGuarantors bounds the guarantor list of a single request.
const MaxGuarantors = 2

// Table: loans
type Loan struct {
	// Internal numeric PK, referenced by guarantors/account_details/payments
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	LoanID     string          `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id"`
	UserID     string          `gorm:"column:user_id;size:32;not null;index:idx_loans_user_created"`
	Amount     decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	Purpose    string          `gorm:"column:purpose;size:32;not null"`
	Duration   int             `gorm:"column:duration;not null"`
	Status     Status          `gorm:"column:status;size:16;not null;default:pending;index"`
	CreatedAt  time.Time       `gorm:"column:created_at;autoCreateTime;index:idx_loans_user_created"`
	UpdatedAt  time.Time       `gorm:"column:updated_at;autoUpdateTime"`
	ApprovedAt *time.Time      `gorm:"column:approved_at"`
	DueDate    *time.Time      `gorm:"column:due_date"`

	Guarantors     []Guarantor     `gorm:"foreignKey:LoanID;references:ID"`
	AccountDetails *AccountDetails `gorm:"foreignKey:LoanID;references:ID"`
}

func (Loan) TableName() string { return "loans" }

// Table: guarantors. Owned by exactly one loan.
type Guarantor struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	GuarantorID  string    `gorm:"column:guarantor_id;size:32;not null;uniqueIndex"`
	LoanID       uint64    `gorm:"column:loan_id;not null;index"`
	FullName     string    `gorm:"column:full_name;size:128;not null"`
	PhoneNumber  string    `gorm:"column:phone_number;size:32;not null"`
	Email        *string   `gorm:"column:email;size:255"`
	Relationship string    `gorm:"column:relationship;size:32;not null"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Guarantor) TableName() string { return "guarantors" }

// Table: account_details. One row per loan.
type AccountDetails struct {
	ID                uint64    `gorm:"column:id;primaryKey;autoIncrement"`
	LoanID            uint64    `gorm:"column:loan_id;not null;uniqueIndex"`
	MobileMoneyNumber string    `gorm:"column:mobile_money_number;size:32;not null"`
	AccountName       string    `gorm:"column:account_name;size:128;not null"`
	Provider          string    `gorm:"column:provider;size:32;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (AccountDetails) TableName() string { return "account_details" }
