package notify

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
	"github.com/AlibekovAA/bearer-auth/internal/observability/metrics"
)

// Job asks for a welcome message to be sent to a freshly registered user.
type Job struct {
	UserID   int64
	Username string
}

type Sender interface {
	SendWelcome(ctx context.Context, job Job) error
}

type Config struct {
	Workers    int
	QueueSize  int
	JobTimeout time.Duration
}

type task struct {
	ctx context.Context
	job Job
}

// Dispatcher runs welcome jobs on a fixed set of workers. A job outlives
// the request that submitted it and its failure is only logged.
type Dispatcher struct {
	sender     Sender
	log        *logger.Logger
	queue      chan task
	jobTimeout time.Duration

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

func NewDispatcher(sender Sender, cfg Config, log *logger.Logger) *Dispatcher {
	if cfg.Workers <= 0 {
		cfg.Workers = constants.DefaultNotifyWorkers
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = constants.DefaultNotifyQueueSize
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = constants.DefaultNotifyJobTimeout
	}

	d := &Dispatcher{
		sender:     sender,
		log:        log,
		queue:      make(chan task, cfg.QueueSize),
		jobTimeout: cfg.JobTimeout,
	}

	d.wg.Add(cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		go d.worker()
	}

	return d
}

// Submit enqueues job without blocking. It reports false when the queue is
// full or the dispatcher has been shut down.
func (d *Dispatcher) Submit(ctx context.Context, job Job) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(ctx, job, "stopped")
		return false
	}

	select {
	case d.queue <- task{ctx: context.WithoutCancel(ctx), job: job}:
		metrics.WelcomeQueueDepth.Set(float64(len(d.queue)))
		return true
	default:
		d.drop(ctx, job, "queue_full")
		return false
	}
}

func (d *Dispatcher) drop(ctx context.Context, job Job, reason string) {
	metrics.WelcomeNotificationsTotal.WithLabelValues("dropped").Inc()
	d.log.WithFields(ctx, logger.Fields{
		"username": job.Username,
		"reason":   reason,
		"action":   "welcome_dropped",
	}).Warn("welcome notification dropped")
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for t := range d.queue {
		metrics.WelcomeQueueDepth.Set(float64(len(d.queue)))
		d.process(t)
	}
}

func (d *Dispatcher) process(t task) {
	ctx, cancel := context.WithTimeout(t.ctx, d.jobTimeout)
	defer cancel()

	fields := logger.Fields{
		"username": t.job.Username,
		"action":   "welcome_send",
	}

	if err := d.send(ctx, t.job); err != nil {
		metrics.WelcomeNotificationsTotal.WithLabelValues("failed").Inc()
		d.log.WithFields(ctx, fields).Warnf("welcome notification failed: %v", err)
		return
	}

	metrics.WelcomeNotificationsTotal.WithLabelValues("sent").Inc()
	d.log.WithFields(ctx, fields).Debug("welcome notification sent")
}

func (d *Dispatcher) send(ctx context.Context, job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sender panicked: %v", r)
		}
	}()
	return d.sender.SendWelcome(ctx, job)
}

// Shutdown stops accepting jobs and waits for queued ones to finish or for
// ctx to expire.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("welcome dispatcher drain: %w", ctx.Err())
	}
}
