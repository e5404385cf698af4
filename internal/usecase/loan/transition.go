package loan

import (
	"context"

	"go.uber.org/zap"

	"fastloan-backend/internal/domain/errs"
	"fastloan-backend/internal/domain/event"
	domain "fastloan-backend/internal/domain/loan"
	"fastloan-backend/internal/domain/uow"
	"fastloan-backend/internal/infrastructure/logger"
)

// Transition moves a loan to status `to` under the loan's row lock.
// Status changes of loans are administrative and not scoped to an owner.
func (u *Usecase) Transition(ctx context.Context, loanID string, in TransitionInput) (*LoanDTO, error) {
	if err := u.validate.Struct("invalid transition", in); err != nil {
		return nil, err
	}
	to := domain.Status(in.Status)

	var (
		dto    LoanDTO
		change event.LoanStatusChanged
	)
	err := u.uow.WithinLoanTx(ctx, loanID, func(r uow.Repos, l *domain.Loan) error {
		var err error
		if change, err = u.ApplyTransition(ctx, r, l, to); err != nil {
			return err
		}
		hydrated, err := r.Loans.GetByLoanID(ctx, loanID)
		if err != nil {
			return err
		}
		paid, err := r.Payments.SumByLoanID(ctx, l.ID)
		if err != nil {
			return err
		}
		dto = toDTO(hydrated, paid)
		return nil
	})
	if err != nil {
		return nil, storeErr("transition loan", err)
	}
	u.Announce(ctx, change)
	return &dto, nil
}

// ApplyTransition is the only place a loan's status is written. It must run
// inside the caller's transaction, with r bound to it and l locked. The
// returned event is not published; pass it to Announce after commit.
func (u *Usecase) ApplyTransition(ctx context.Context, r uow.Repos, l *domain.Loan, to domain.Status) (event.LoanStatusChanged, error) {
	from := l.Status
	if !from.CanTransitionTo(to) {
		return event.LoanStatusChanged{}, errs.InvalidTransition(string(from), string(to))
	}

	now := u.now()
	prevApproved, prevDue := l.ApprovedAt, l.DueDate
	l.Status = to
	switch to {
	case domain.StatusApproved:
		l.ApprovedAt = &now
	case domain.StatusActive:
		due := now.AddDate(0, 0, l.Duration)
		l.DueDate = &due
	}

	ok, err := r.Loans.UpdateStatus(ctx, l, from)
	if err != nil || !ok {
		l.Status, l.ApprovedAt, l.DueDate = from, prevApproved, prevDue
		if err != nil {
			return event.LoanStatusChanged{}, errs.Persistence("update loan status", err)
		}
		// someone else moved the loan first
		return event.LoanStatusChanged{}, errs.InvalidTransition(string(from), string(to))
	}
	return event.LoanStatusChanged{
		LoanID: l.LoanID,
		UserID: l.UserID,
		From:   string(from),
		To:     string(to),
		At:     now,
	}, nil
}

// Announce records and publishes committed status changes, in order.
// Publish failures are logged; the changes are already durable.
func (u *Usecase) Announce(ctx context.Context, changes ...event.LoanStatusChanged) {
	log := logger.FromContext(ctx, u.log)
	for _, c := range changes {
		if c.LoanID == "" {
			continue
		}
		log.Info("loan status changed", zap.String("loan_id", c.LoanID), zap.String("from", c.From), zap.String("to", c.To))
		u.metrics.Transitioned(c.From, c.To)
		if err := u.pub.PublishLoanStatusChanged(ctx, c); err != nil {
			log.Warn("publish loan.status_changed failed", zap.String("loan_id", c.LoanID), zap.Error(err))
		}
	}
}
