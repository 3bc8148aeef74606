package resilience

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/AlibekovAA/bearer-auth/internal/common/clock"
	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
	"github.com/AlibekovAA/bearer-auth/internal/observability/metrics"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

// CircuitBreaker stops calling a dependency after Threshold consecutive
// failures and lets calls through again once ResetAfter has passed since the
// last one.
type CircuitBreaker struct {
	mu          sync.Mutex
	failures    int
	lastFailure time.Time

	threshold  int
	timeout    time.Duration
	resetAfter time.Duration
	name       string
	isFailure  func(error) bool
	clock      clock.Clock
	log        *logger.Logger
}

type CircuitBreakerConfig struct {
	Threshold  int
	Timeout    time.Duration
	ResetAfter time.Duration
	Name       string
	// IsFailure decides which errors count against the dependency. Errors
	// it rejects are returned without touching the breaker. Defaults to
	// any non-nil error except context cancellation.
	IsFailure func(error) bool
	Clock     clock.Clock
	Logger    *logger.Logger
}

func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = constants.DefaultStoreBreakerThreshold
	}
	if cfg.ResetAfter <= 0 {
		cfg.ResetAfter = constants.DefaultStoreBreakerResetAfter
	}
	if cfg.IsFailure == nil {
		cfg.IsFailure = func(err error) bool { return !errors.Is(err, context.Canceled) }
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.NewRealClock()
	}

	return &CircuitBreaker{
		threshold:  cfg.Threshold,
		timeout:    cfg.Timeout,
		resetAfter: cfg.ResetAfter,
		name:       cfg.Name,
		isFailure:  cfg.IsFailure,
		clock:      cfg.Clock,
		log:        cfg.Logger,
	}
}

func (cb *CircuitBreaker) IsOpen() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.isOpenLocked()
}

func (cb *CircuitBreaker) isOpenLocked() bool {
	if cb.failures < cb.threshold {
		cb.setState(0)
		return false
	}

	if cb.clock.Now().Sub(cb.lastFailure) > cb.resetAfter {
		cb.failures = 0
		cb.lastFailure = time.Time{}
		cb.setState(0)
		return false
	}

	cb.setState(1)
	return true
}

func (cb *CircuitBreaker) setState(state float64) {
	if cb.name != "" {
		metrics.StoreCircuitBreakerState.WithLabelValues(cb.name).Set(state)
	}
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err == nil || !cb.isFailure(err) {
		if err == nil {
			cb.failures = 0
			cb.lastFailure = time.Time{}
		}
		return
	}

	cb.failures++
	cb.lastFailure = cb.clock.Now()
	if cb.name != "" {
		metrics.StoreCircuitBreakerFailures.WithLabelValues(cb.name).Inc()
	}
	if cb.log != nil {
		cb.log.Warnf("circuit breaker [%s]: failure recorded (%d/%d): %v", cb.name, cb.failures, cb.threshold, err)
	}
}

// Call runs fn unless the circuit is open. A positive Timeout bounds each
// call.
func (cb *CircuitBreaker) Call(ctx context.Context, fn func(context.Context) error) error {
	if cb.IsOpen() {
		if cb.log != nil {
			cb.log.Warnf("circuit breaker [%s]: circuit is open, rejecting request", cb.name)
		}
		return ErrCircuitOpen
	}

	callCtx := ctx
	if cb.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, cb.timeout)
		defer cancel()
	}

	err := fn(callCtx)
	cb.record(err)
	return err
}
