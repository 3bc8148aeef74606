package constants

import "time"

const (
	UsernameMaxLength  = 64
	PasswordMinLength  = 1
	PasswordMaxLength  = 72
	JWTSecretMinLength = 32

	DefaultMaxRequestSize = 1 << 20

	DefaultBcryptCost = 12

	DefaultTokenTTL       = 15 * time.Minute
	DefaultAccessTokenTTL = 30 * time.Minute
	TokenType             = "bearer"

	DBPoolMaxConns        = 25
	DBPoolMinConns        = 5
	DBPoolConnMaxLifetime = time.Hour
	DBPoolConnMaxIdleTime = 30 * time.Minute
	DBPoolHealthCheck     = time.Minute
	DBPoolConnectTimeout  = 5 * time.Second
	DBPoolMaxAttempts     = 10
	DBPoolRetryDelay      = time.Second
	DBPoolMetricsInterval = 30 * time.Second

	DefaultStoreBreakerThreshold  = 5
	DefaultStoreBreakerResetAfter = 30 * time.Second
	DefaultStoreCallTimeout       = 3 * time.Second

	ServerReadHeaderTimeout = 10 * time.Second
	ServerReadTimeout       = 30 * time.Second
	ServerWriteTimeout      = 30 * time.Second
	ServerIdleTimeout       = 120 * time.Second
	ServerWriteSlack        = 5 * time.Second

	ShutdownTimeout = 30 * time.Second
	DrainTimeout    = 10 * time.Second

	DefaultAuthHTTPPort       = "8000"
	DefaultAuthRequestTimeout = 5 * time.Second
	DefaultStoreDriver        = "sqlite"
	DefaultSQLitePath         = "database.db"
	DefaultCORSOrigins        = "http://localhost,http://127.0.0.1:3000,*"

	DefaultNotifyWorkers    = 2
	DefaultNotifyQueueSize  = 100
	DefaultNotifySendDelay  = 3 * time.Second
	DefaultNotifyJobTimeout = 10 * time.Second

	LoggerMaxSize    = 100
	LoggerMaxBackups = 3
	LoggerMaxAge     = 28
)

type TraceIDKeyType string

const TraceIDKey TraceIDKeyType = "trace_id"
