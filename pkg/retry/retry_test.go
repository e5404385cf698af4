package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func isTransient(err error) bool { return errors.Is(err, errTransient) }

func TestDo(t *testing.T) {
	other := errors.New("fatal")
	tests := []struct {
		name      string
		policy    Policy
		results   []error
		wantCalls int
		wantErr   error
	}{
		{"success first try", Policy{Attempts: 2, Retryable: isTransient}, []error{nil}, 1, nil},
		{"retry once then ok", Policy{Attempts: 2, Retryable: isTransient}, []error{errTransient, nil}, 2, nil},
		{"gives up after attempts", Policy{Attempts: 2, Retryable: isTransient}, []error{errTransient, errTransient, nil}, 2, errTransient},
		{"non retryable stops", Policy{Attempts: 3, Retryable: isTransient}, []error{other, nil}, 1, other},
		{"nil classifier never retries", Policy{Attempts: 3}, []error{errTransient, nil}, 1, errTransient},
		{"zero attempts means one", Policy{Retryable: isTransient}, []error{errTransient, nil}, 1, errTransient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Do(context.Background(), tt.policy, func(context.Context) error {
				r := tt.results[calls]
				calls++
				return r
			})
			if calls != tt.wantCalls {
				t.Fatalf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if !errors.Is(err, tt.wantErr) || (tt.wantErr == nil && err != nil) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestDo_ContextCanceledDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	err := Do(ctx, Policy{Attempts: 3, Backoff: time.Hour, Retryable: isTransient}, func(context.Context) error {
		calls++
		cancel()
		return errTransient
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, errTransient) {
		t.Fatalf("want last op error, got %v", err)
	}
}
