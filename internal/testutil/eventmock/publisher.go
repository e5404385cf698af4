// Package eventmock records published domain events.
package eventmock

import (
	"context"
	"sync"

	"fastloan-backend/internal/domain/event"
)

var _ event.Publisher = (*Recorder)(nil)

// Recorder keeps every event it is handed; Err, when set, is returned after recording.
type Recorder struct {
	mu            sync.Mutex
	Err           error
	Created       []event.LoanCreated
	StatusChanged []event.LoanStatusChanged
	Payments      []event.PaymentRecorded
}

func (r *Recorder) PublishLoanCreated(_ context.Context, e event.LoanCreated) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Created = append(r.Created, e)
	return r.Err
}

func (r *Recorder) PublishLoanStatusChanged(_ context.Context, e event.LoanStatusChanged) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StatusChanged = append(r.StatusChanged, e)
	return r.Err
}

func (r *Recorder) PublishPaymentRecorded(_ context.Context, e event.PaymentRecorded) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Payments = append(r.Payments, e)
	return r.Err
}

// Transitions returns "from->to" for each status change seen so far.
func (r *Recorder) Transitions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.StatusChanged))
	for _, e := range r.StatusChanged {
		out = append(out, e.From+"->"+e.To)
	}
	return out
}
