package loan

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fastloan-backend/internal/domain/errs"
	"fastloan-backend/internal/domain/event"
	domain "fastloan-backend/internal/domain/loan"
	"fastloan-backend/internal/domain/payment"
	"fastloan-backend/internal/domain/uow"
	"fastloan-backend/internal/infrastructure/logger"
	"fastloan-backend/internal/infrastructure/metrics"
	"fastloan-backend/internal/validation"
	"fastloan-backend/pkg/id"
	"fastloan-backend/pkg/retry"
)

// Reads are retried once on a storage failure; writes never are.
var readPolicy = retry.Policy{
	Attempts:  2,
	Backoff:   50 * time.Millisecond,
	Retryable: func(err error) bool { return errors.Is(err, errs.ErrPersistence) },
}

type Usecase struct {
	uow      uow.UnitOfWork
	loans    domain.Repository
	payments payment.Repository
	validate *validation.Validator

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

// NewUsecase: loans/payments serve reads; every write goes through tx.
func NewUsecase(tx uow.UnitOfWork, loans domain.Repository, payments payment.Repository, v *validation.Validator, opts ...Option) *Usecase {
	u := &Usecase{
		uow:      tx,
		loans:    loans,
		payments: payments,
		validate: v,
		pub:      event.Nop{},
		log:      zap.NewNop(),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, o := range opts {
		o(u)
	}
	if u.validate == nil {
		u.validate = validation.New()
	}
	return u
}

// Create validates the draft and writes the loan with its guarantors and account details in one tx.
func (u *Usecase) Create(ctx context.Context, userID string, in CreateLoanInput) (*LoanDTO, error) {
	if userID == "" {
		return nil, errs.NotAuthenticated("no session")
	}
	if err := u.validate.Struct("invalid loan request", in); err != nil {
		return nil, err
	}

	l := &domain.Loan{
		LoanID:   id.NewID32(),
		UserID:   userID,
		Amount:   in.Amount,
		Purpose:  in.Purpose,
		Duration: in.Duration,
		Status:   domain.StatusPending,
	}
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if err := r.Loans.Create(ctx, l); err != nil {
			return err
		}
		gs := make([]domain.Guarantor, 0, len(in.Guarantors))
		for _, g := range in.Guarantors {
			gs = append(gs, domain.Guarantor{
				GuarantorID:  id.NewID32(),
				LoanID:       l.ID,
				FullName:     strings.TrimSpace(g.FullName),
				PhoneNumber:  g.PhoneNumber,
				Email:        g.Email,
				Relationship: g.Relationship,
			})
		}
		if err := r.Loans.AddGuarantors(ctx, gs); err != nil {
			return err
		}
		acct := &domain.AccountDetails{
			LoanID:            l.ID,
			MobileMoneyNumber: in.AccountDetails.MobileMoneyNumber,
			AccountName:       strings.TrimSpace(in.AccountDetails.AccountName),
			Provider:          in.AccountDetails.Provider,
		}
		if err := r.Loans.SetAccountDetails(ctx, acct); err != nil {
			return err
		}
		l.Guarantors, l.AccountDetails = gs, acct
		return nil
	})
	if err != nil {
		return nil, errs.Persistence("create loan", err)
	}

	log := logger.FromContext(ctx, u.log)
	log.Info("loan created", zap.String("loan_id", l.LoanID), zap.String("user_id", userID), zap.String("amount", l.Amount.String()))
	u.metrics.LoanCreated()
	if err := u.pub.PublishLoanCreated(ctx, event.LoanCreated{
		LoanID:     l.LoanID,
		UserID:     userID,
		Amount:     l.Amount,
		Duration:   l.Duration,
		Guarantors: len(l.Guarantors),
		At:         l.CreatedAt,
	}); err != nil {
		log.Warn("publish loan.created failed", zap.String("loan_id", l.LoanID), zap.Error(err))
	}

	dto := toDTO(l, decimal.Zero)
	return &dto, nil
}

// List returns the user's loans newest first, each with its repayment balance.
func (u *Usecase) List(ctx context.Context, userID string) ([]LoanDTO, error) {
	if userID == "" {
		return nil, errs.NotAuthenticated("no session")
	}
	var out []LoanDTO
	err := retry.Do(ctx, readPolicy, func(ctx context.Context) error {
		ls, err := u.loans.ListByUserID(ctx, userID)
		if err != nil {
			return errs.Persistence("list loans", err)
		}
		ids := make([]uint64, 0, len(ls))
		for _, l := range ls {
			ids = append(ids, l.ID)
		}
		sums, err := u.payments.SumByLoanIDs(ctx, ids)
		if err != nil {
			return errs.Persistence("sum payments", err)
		}
		out = make([]LoanDTO, 0, len(ls))
		for i := range ls {
			out = append(out, toDTO(&ls[i], sums[ls[i].ID]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns one loan owned by userID. Loans of other users read as not found.
func (u *Usecase) Get(ctx context.Context, userID, loanID string) (*LoanDTO, error) {
	if userID == "" {
		return nil, errs.NotAuthenticated("no session")
	}
	var dto LoanDTO
	err := retry.Do(ctx, readPolicy, func(ctx context.Context) error {
		l, err := u.loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return storeErr("get loan", err)
		}
		if l.UserID != userID {
			return errs.NotFound("loan")
		}
		paid, err := u.payments.SumByLoanID(ctx, l.ID)
		if err != nil {
			return errs.Persistence("sum payments", err)
		}
		dto = toDTO(l, paid)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &dto, nil
}

func storeErr(op string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return errs.NotFound("loan")
	}
	return errs.Persistence(op, err)
}
