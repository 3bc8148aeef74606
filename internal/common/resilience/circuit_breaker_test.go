package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/bearer-auth/internal/common/clock"
)

var errDown = errors.New("connection refused")

func newTestBreaker(clk clock.Clock, isFailure func(error) bool) *CircuitBreaker {
	return NewCircuitBreaker(CircuitBreakerConfig{
		Threshold:  2,
		ResetAfter: time.Minute,
		IsFailure:  isFailure,
		Clock:      clk,
	})
}

func TestCircuitBreaker_OpensAfterThreshold(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	cb := newTestBreaker(clk, nil)
	failing := func(context.Context) error { return errDown }

	for i := 0; i < 2; i++ {
		if err := cb.Call(context.Background(), failing); !errors.Is(err, errDown) {
			t.Fatalf("call %d: expected errDown, got %v", i, err)
		}
	}

	calls := 0
	err := cb.Call(context.Background(), func(context.Context) error {
		calls++
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if calls != 0 {
		t.Errorf("fn must not run while open, ran %d times", calls)
	}
}

func TestCircuitBreaker_ClosesAfterResetWindow(t *testing.T) {
	clk := clock.NewMockClock(time.Now())
	cb := newTestBreaker(clk, nil)

	for i := 0; i < 2; i++ {
		_ = cb.Call(context.Background(), func(context.Context) error { return errDown })
	}
	if !cb.IsOpen() {
		t.Fatal("expected open circuit")
	}

	clk.Advance(2 * time.Minute)
	if cb.IsOpen() {
		t.Fatal("expected circuit to close after reset window")
	}
	if err := cb.Call(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Errorf("expected call to pass, got %v", err)
	}
}

func TestCircuitBreaker_SuccessResetsCount(t *testing.T) {
	cb := newTestBreaker(clock.NewMockClock(time.Now()), nil)

	_ = cb.Call(context.Background(), func(context.Context) error { return errDown })
	_ = cb.Call(context.Background(), func(context.Context) error { return nil })
	_ = cb.Call(context.Background(), func(context.Context) error { return errDown })

	if cb.IsOpen() {
		t.Error("non-consecutive failures must not open the circuit")
	}
}

func TestCircuitBreaker_IgnoresNonFailures(t *testing.T) {
	errMiss := errors.New("not found")
	cb := newTestBreaker(clock.NewMockClock(time.Now()), func(err error) bool {
		return !errors.Is(err, errMiss)
	})

	for i := 0; i < 5; i++ {
		if err := cb.Call(context.Background(), func(context.Context) error { return errMiss }); !errors.Is(err, errMiss) {
			t.Fatalf("expected errMiss, got %v", err)
		}
	}
	if cb.IsOpen() {
		t.Error("ignored errors must not open the circuit")
	}
}

func TestCircuitBreaker_TimeoutBoundsCall(t *testing.T) {
	cb := NewCircuitBreaker(CircuitBreakerConfig{Timeout: 10 * time.Millisecond})

	err := cb.Call(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}
