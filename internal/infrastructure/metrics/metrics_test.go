package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestDomain_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	d, err := NewDomain(reg)
	if err != nil {
		t.Fatalf("NewDomain: %v", err)
	}

	d.LoanCreated()
	d.Transitioned("pending", "approved")
	d.Transitioned("pending", "approved")
	d.PaymentRecorded("mtn", decimal.NewFromInt(600))
	d.PaymentRecorded("mtn", decimal.RequireFromString("400.50"))
	d.PaymentReplayed()

	if got := testutil.ToFloat64(d.LoansCreated); got != 1 {
		t.Fatalf("loans created = %v", got)
	}
	if got := testutil.ToFloat64(d.Transitions.WithLabelValues("pending", "approved")); got != 2 {
		t.Fatalf("transitions = %v", got)
	}
	if got := testutil.ToFloat64(d.PaymentsRecorded.WithLabelValues("mtn")); got != 2 {
		t.Fatalf("payments = %v", got)
	}
	if got := testutil.ToFloat64(d.AmountRepaid); got != 1000.5 {
		t.Fatalf("amount = %v", got)
	}
	if got := testutil.ToFloat64(d.PaymentReplays); got != 1 {
		t.Fatalf("replays = %v", got)
	}
}

func TestDomain_ReuseOnSecondRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewDomain(reg)
	if err != nil {
		t.Fatal(err)
	}
	second, err := NewDomain(reg)
	if err != nil {
		t.Fatalf("second NewDomain: %v", err)
	}
	second.LoanCreated()
	if got := testutil.ToFloat64(first.LoansCreated); got != 1 {
		t.Fatalf("collectors not shared, first = %v", got)
	}
}

func TestDomain_NilIsNoop(t *testing.T) {
	var d *Domain
	d.LoanCreated()
	d.Transitioned("a", "b")
	d.PaymentRecorded("mtn", decimal.NewFromInt(1))
	d.PaymentReplayed()
}
