package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "fastloan"

// Domain counts lifecycle and ledger outcomes. A nil *Domain records nothing.
type Domain struct {
	LoansCreated     prometheus.Counter
	Transitions      *prometheus.CounterVec
	PaymentsRecorded *prometheus.CounterVec
	PaymentReplays   prometheus.Counter
	AmountRepaid     prometheus.Counter
}

func NewDomain(reg prometheus.Registerer) (*Domain, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	var (
		d   Domain
		err error
	)
	if d.LoansCreated, err = Register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "loans", Name: "created_total",
		Help: "Loan requests created.",
	})); err != nil {
		return nil, err
	}
	if d.Transitions, err = Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "loans", Name: "transitions_total",
		Help: "Loan status transitions partitioned by source and target status.",
	}, []string{"from", "to"})); err != nil {
		return nil, err
	}
	if d.PaymentsRecorded, err = Register(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "payments", Name: "recorded_total",
		Help: "Payments appended to the ledger partitioned by provider.",
	}, []string{"provider"})); err != nil {
		return nil, err
	}
	if d.PaymentReplays, err = Register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "payments", Name: "replays_total",
		Help: "Payment submissions answered from an existing idempotency key.",
	})); err != nil {
		return nil, err
	}
	if d.AmountRepaid, err = Register(reg, prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace, Subsystem: "payments", Name: "amount_total",
		Help: "Sum of recorded payment amounts.",
	})); err != nil {
		return nil, err
	}
	return &d, nil
}

func (d *Domain) LoanCreated() {
	if d != nil {
		d.LoansCreated.Inc()
	}
}

func (d *Domain) Transitioned(from, to string) {
	if d != nil {
		d.Transitions.WithLabelValues(from, to).Inc()
	}
}

func (d *Domain) PaymentRecorded(provider string, amount decimal.Decimal) {
	if d != nil {
		d.PaymentsRecorded.WithLabelValues(provider).Inc()
		d.AmountRepaid.Add(amount.InexactFloat64())
	}
}

func (d *Domain) PaymentReplayed() {
	if d != nil {
		d.PaymentReplays.Inc()
	}
}

// Register registers c, or returns the collector already registered under the same descriptor.
func Register[T prometheus.Collector](reg prometheus.Registerer, c T) (T, error) {
	if err := reg.Register(c); err != nil {
		already, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return c, fmt.Errorf("register collector: %w", err)
		}
		existing, ok := already.ExistingCollector.(T)
		if !ok {
			return c, fmt.Errorf("existing collector has unexpected type %T", already.ExistingCollector)
		}
		return existing, nil
	}
	return c, nil
}
