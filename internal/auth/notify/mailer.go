package notify

import (
	"context"
	"time"

	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
)

// LogMailer stands in for a mail gateway: it waits for the configured delay
// and logs the message it would have sent.
type LogMailer struct {
	log   *logger.Logger
	delay time.Duration
}

func NewLogMailer(log *logger.Logger, delay time.Duration) *LogMailer {
	return &LogMailer{log: log, delay: delay}
}

func (m *LogMailer) SendWelcome(ctx context.Context, job Job) error {
	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	m.log.WithFields(ctx, logger.Fields{
		"username": job.Username,
		"action":   "welcome_mail",
	}).Infof("welcome mail sent to %s", job.Username)
	return nil
}
