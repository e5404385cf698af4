package sqlstore

import (
	"context"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	paymentDomain "fastloan-backend/internal/domain/payment"
)

type PaymentRepository struct{ db *gorm.DB }

var _ paymentDomain.Repository = (*PaymentRepository)(nil)

func NewPaymentRepository(db *gorm.DB) *PaymentRepository { return &PaymentRepository{db: db} }

func (r *PaymentRepository) Create(ctx context.Context, p *paymentDomain.Payment) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PaymentRepository) GetByIdempotencyKey(ctx context.Context, loanID uint64, key string) (*paymentDomain.Payment, error) {
	var out paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Where("loan_id = ? AND idempotency_key = ?", loanID, key).
		First(&out)
	return &out, res.Error
}

func (r *PaymentRepository) SumByLoanID(ctx context.Context, loanID uint64) (decimal.Decimal, error) {
	sums, err := r.SumByLoanIDs(ctx, []uint64{loanID})
	if err != nil {
		return decimal.Zero, err
	}
	return sums[loanID], nil
}

// Amounts are summed in Go with exact decimals instead of SQL SUM, which
// some drivers hand back as float.
func (r *PaymentRepository) SumByLoanIDs(ctx context.Context, loanIDs []uint64) (map[uint64]decimal.Decimal, error) {
	out := make(map[uint64]decimal.Decimal, len(loanIDs))
	if len(loanIDs) == 0 {
		return out, nil
	}
	var rows []paymentDomain.Payment
	res := r.db.WithContext(ctx).
		Select("loan_id", "amount").
		Where("loan_id IN ?", loanIDs).
		Find(&rows)
	if res.Error != nil {
		return nil, res.Error
	}
	for _, p := range rows {
		out[p.LoanID] = out[p.LoanID].Add(p.Amount)
	}
	return out, nil
}

func (r *PaymentRepository) CountByLoanID(ctx context.Context, loanID uint64) (int64, error) {
	var n int64
	res := r.db.WithContext(ctx).Model(&paymentDomain.Payment{}).Where("loan_id = ?", loanID).Count(&n)
	return n, res.Error
}

func (r *PaymentRepository) ListByUser(ctx context.Context, userID, loanRef string) ([]paymentDomain.Payment, error) {
	q := r.db.WithContext(ctx).
		Model(&paymentDomain.Payment{}).
		Select("payments.*, loans.loan_id AS loan_ref").
		Joins("JOIN loans ON loans.id = payments.loan_id").
		Where("loans.user_id = ?", userID)
	if loanRef != "" {
		q = q.Where("loans.loan_id = ?", loanRef)
	}
	var out []paymentDomain.Payment
	res := q.Order("payments.date DESC, payments.id DESC").Find(&out)
	return out, res.Error
}
