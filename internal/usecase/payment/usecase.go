package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fastloan-backend/internal/domain/errs"
	"fastloan-backend/internal/domain/event"
	"fastloan-backend/internal/domain/loan"
	domain "fastloan-backend/internal/domain/payment"
	"fastloan-backend/internal/domain/uow"
	"fastloan-backend/internal/infrastructure/logger"
	"fastloan-backend/internal/infrastructure/metrics"
	loanuc "fastloan-backend/internal/usecase/loan"
	"fastloan-backend/internal/validation"
	"fastloan-backend/pkg/id"
	"fastloan-backend/pkg/retry"
)

var readPolicy = retry.Policy{
	Attempts:  2,
	Backoff:   50 * time.Millisecond,
	Retryable: func(err error) bool { return errors.Is(err, errs.ErrPersistence) },
}

// Transitioner is the lifecycle authority the ledger completes loans through.
type Transitioner interface {
	ApplyTransition(ctx context.Context, r uow.Repos, l *loan.Loan, to loan.Status) (event.LoanStatusChanged, error)
	Announce(ctx context.Context, changes ...event.LoanStatusChanged)
}

type Usecase struct {
	uow       uow.UnitOfWork
	loans     loan.Repository
	payments  domain.Repository
	lifecycle Transitioner
	validate  *validation.Validator

	pub     event.Publisher
	log     *zap.Logger
	metrics *metrics.Domain
	now     func() time.Time
}

type Option func(*Usecase)

func WithPublisher(p event.Publisher) Option { return func(u *Usecase) { u.pub = p } }
func WithLogger(l *zap.Logger) Option        { return func(u *Usecase) { u.log = l } }
func WithMetrics(m *metrics.Domain) Option   { return func(u *Usecase) { u.metrics = m } }
func WithClock(now func() time.Time) Option  { return func(u *Usecase) { u.now = now } }

func NewUsecase(tx uow.UnitOfWork, loans loan.Repository, payments domain.Repository, lifecycle Transitioner, v *validation.Validator, opts ...Option) *Usecase {
	u := &Usecase{
		uow:       tx,
		loans:     loans,
		payments:  payments,
		lifecycle: lifecycle,
		validate:  v,
		pub:       event.Nop{},
		log:       zap.NewNop(),
		now:       func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(u)
	}
	if u.validate == nil {
		u.validate = validation.New()
	}
	return u
}

// Record appends a payment to the user's loan and completes the loan once
// the principal is covered. All payments of one loan are serialized by the
// loan row lock. Writes are never retried here.
func (u *Usecase) Record(ctx context.Context, userID, loanID string, in RecordPaymentInput) (*RecordResult, error) {
	if userID == "" {
		return nil, errs.NotAuthenticated("no session")
	}
	if err := u.validate.Struct("invalid payment", in); err != nil {
		return nil, err
	}
	amount := in.Amount

	var (
		res     RecordResult
		paid    *domain.Payment
		changes []event.LoanStatusChanged
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *loan.Loan) error {
		if l.UserID != userID {
			return errs.NotFound("loan")
		}

		prior, err := r.Payments.GetByIdempotencyKey(ctx, l.ID, in.IdempotencyKey)
		switch {
		case err == nil:
			if !prior.Amount.Equal(amount) || prior.Provider != in.Provider {
				return errs.Conflict("idempotency key already used for a different payment")
			}
			total, err := r.Payments.SumByLoanID(ctx, l.ID)
			if err != nil {
				return err
			}
			res = result(prior, l, total)
			res.Replayed = true
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		if !l.Status.Payable() {
			return errs.LoanNotPayable(string(l.Status))
		}

		p := &domain.Payment{
			PaymentID:      id.NewID32(),
			LoanID:         l.ID,
			Amount:         amount,
			PaidAt:         u.now(),
			Provider:       in.Provider,
			TransactionID:  id.NewTransactionID(),
			IdempotencyKey: in.IdempotencyKey,
		}
		if err := r.Payments.Create(ctx, p); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errs.Conflict("idempotency key already used for this loan")
			}
			return err
		}
		total, err := r.Payments.SumByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		if total.GreaterThanOrEqual(l.Amount) {
			// approved loans pass through active; each step is a legal move
			for _, step := range l.Status.PathTo(loan.StatusCompleted) {
				c, err := u.lifecycle.ApplyTransition(ctx, r, l, step)
				if err != nil {
					return err
				}
				changes = append(changes, c)
			}
		}
		paid = p
		res = result(p, l, total)
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("loan")
		}
		return nil, errs.Persistence("record payment", err)
	}

	log := logger.FromContext(ctx, u.log)
	if res.Replayed {
		log.Info("payment replayed", zap.String("loan_id", loanID), zap.String("transaction_id", res.Payment.TransactionID))
		u.metrics.PaymentReplayed()
		return &res, nil
	}

	log.Info("payment recorded",
		zap.String("loan_id", loanID),
		zap.String("transaction_id", paid.TransactionID),
		zap.String("amount", paid.Amount.String()),
		zap.String("total_paid", res.TotalPaid.String()))
	u.metrics.PaymentRecorded(paid.Provider, paid.Amount)
	if err := u.pub.PublishPaymentRecorded(ctx, event.PaymentRecorded{
		LoanID:        loanID,
		UserID:        userID,
		TransactionID: paid.TransactionID,
		Amount:        paid.Amount,
		TotalPaid:     res.TotalPaid,
		Provider:      paid.Provider,
		At:            paid.PaidAt,
	}); err != nil {
		log.Warn("publish payment.recorded failed", zap.String("loan_id", loanID), zap.Error(err))
	}
	u.lifecycle.Announce(ctx, changes...)
	return &res, nil
}

func result(p *domain.Payment, l *loan.Loan, total decimal.Decimal) RecordResult {
	return RecordResult{
		Payment:     toDTO(p, l.LoanID),
		LoanStatus:  string(l.Status),
		TotalPaid:   total,
		Outstanding: loanuc.Outstanding(l.Amount, total),
	}
}

// List returns the user's payments newest first, optionally for one loan only.
func (u *Usecase) List(ctx context.Context, userID, loanID string) ([]PaymentDTO, error) {
	if userID == "" {
		return nil, errs.NotAuthenticated("no session")
	}
	var out []PaymentDTO
	err := retry.Do(ctx, readPolicy, func(ctx context.Context) error {
		if loanID != "" {
			if _, err := u.ownedLoan(ctx, userID, loanID); err != nil {
				return err
			}
		}
		ps, err := u.payments.ListByUser(ctx, userID, loanID)
		if err != nil {
			return errs.Persistence("list payments", err)
		}
		out = make([]PaymentDTO, 0, len(ps))
		for i := range ps {
			out = append(out, toDTO(&ps[i], ""))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Summary reports principal, paid and outstanding amounts of one loan.
func (u *Usecase) Summary(ctx context.Context, userID, loanID string) (*SummaryDTO, error) {
	if userID == "" {
		return nil, errs.NotAuthenticated("no session")
	}
	var out SummaryDTO
	err := retry.Do(ctx, readPolicy, func(ctx context.Context) error {
		l, err := u.ownedLoan(ctx, userID, loanID)
		if err != nil {
			return err
		}
		total, err := u.payments.SumByLoanID(ctx, l.ID)
		if err != nil {
			return errs.Persistence("sum payments", err)
		}
		n, err := u.payments.CountByLoanID(ctx, l.ID)
		if err != nil {
			return errs.Persistence("count payments", err)
		}
		out = SummaryDTO{
			LoanID:       l.LoanID,
			Status:       string(l.Status),
			Principal:    l.Amount,
			TotalPaid:    total,
			Outstanding:  loanuc.Outstanding(l.Amount, total),
			PaymentCount: n,
			DueDate:      l.DueDate,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (u *Usecase) ownedLoan(ctx context.Context, userID, loanID string) (*loan.Loan, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.NotFound("loan")
	}
	if err != nil {
		return nil, errs.Persistence("get loan", err)
	}
	if l.UserID != userID {
		return nil, errs.NotFound("loan")
	}
	return l, nil
}
