package service

import (
	"time"

	"github.com/AlibekovAA/bearer-auth/internal/observability/metrics"
)

func incrementAccessTokensIssued() {
	metrics.AccessTokensIssued.Inc()
}

func recordRegistration(result string) {
	metrics.RegistrationsTotal.WithLabelValues(result).Inc()
}

func recordLogin(result string) {
	metrics.LoginsTotal.WithLabelValues(result).Inc()
}

func observePasswordHash(start time.Time) {
	metrics.PasswordHashDurationSeconds.Observe(time.Since(start).Seconds())
}
