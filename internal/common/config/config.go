package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
	commonerrors "github.com/AlibekovAA/bearer-auth/internal/common/errors"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type AuthConfig struct {
	HTTPPort       string
	JWTSecret      string
	AccessTokenTTL time.Duration
	RequestTimeout time.Duration
	BcryptCost     int

	StoreDriver string
	SQLitePath  string
	DatabaseURL string

	CORSAllowedOrigins []string

	NotifyWorkers    int
	NotifyQueueSize  int
	NotifySendDelay  time.Duration
	NotifyJobTimeout time.Duration

	LogDir   string
	LogLevel string
}

func LoadAuthConfig() (AuthConfig, error) {
	jwtSecret, err := mustEnv("JWT_SECRET")
	if err != nil {
		return AuthConfig{}, err
	}

	if err := validateJWTSecret(jwtSecret); err != nil {
		return AuthConfig{}, err
	}

	cfg := AuthConfig{
		HTTPPort:           getEnv("AUTH_HTTP_PORT", constants.DefaultAuthHTTPPort),
		JWTSecret:          jwtSecret,
		AccessTokenTTL:     getDurationEnv("ACCESS_TOKEN_TTL", constants.DefaultAccessTokenTTL),
		RequestTimeout:     getDurationEnv("AUTH_REQUEST_TIMEOUT", constants.DefaultAuthRequestTimeout),
		BcryptCost:         getIntEnv("BCRYPT_COST", constants.DefaultBcryptCost),
		StoreDriver:        strings.ToLower(getEnv("STORE_DRIVER", constants.DefaultStoreDriver)),
		SQLitePath:         getEnv("SQLITE_PATH", constants.DefaultSQLitePath),
		DatabaseURL:        getEnv("DATABASE_URL", ""),
		CORSAllowedOrigins: parseCSV(getEnv("CORS_ALLOWED_ORIGINS", constants.DefaultCORSOrigins)),
		NotifyWorkers:      getIntEnv("NOTIFY_WORKERS", constants.DefaultNotifyWorkers),
		NotifyQueueSize:    getIntEnv("NOTIFY_QUEUE_SIZE", constants.DefaultNotifyQueueSize),
		NotifySendDelay:    getDurationEnv("NOTIFY_SEND_DELAY", constants.DefaultNotifySendDelay),
		NotifyJobTimeout:   getDurationEnv("NOTIFY_JOB_TIMEOUT", constants.DefaultNotifyJobTimeout),
		LogDir:             getEnv("LOG_DIR", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return AuthConfig{}, err
	}
	return cfg, nil
}

// Validate checks the values that cannot be defaulted sensibly.
func (c AuthConfig) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.HTTPPort, validation.Required, validation.By(isPort)),
		validation.Field(&c.StoreDriver, validation.Required, validation.In(StoreSQLite, StorePostgres, StoreMemory)),
		validation.Field(&c.AccessTokenTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.RequestTimeout, validation.Required, validation.Min(time.Millisecond)),
		validation.Field(&c.BcryptCost, validation.Min(4), validation.Max(31)),
		validation.Field(&c.NotifyWorkers, validation.Min(1)),
		validation.Field(&c.NotifyQueueSize, validation.Min(1)),
		validation.Field(&c.DatabaseURL, validation.By(c.requireForPostgres)),
		validation.Field(&c.SQLitePath, validation.By(c.requireForSQLite)),
	)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c AuthConfig) requireForPostgres(value interface{}) error {
	if c.StoreDriver == StorePostgres && strings.TrimSpace(value.(string)) == "" {
		return errors.New("is required when STORE_DRIVER=postgres")
	}
	return nil
}

func (c AuthConfig) requireForSQLite(value interface{}) error {
	if c.StoreDriver == StoreSQLite && strings.TrimSpace(value.(string)) == "" {
		return errors.New("is required when STORE_DRIVER=sqlite")
	}
	return nil
}

func isPort(value interface{}) error {
	port, err := strconv.Atoi(value.(string))
	if err != nil || port < 1 || port > 65535 {
		return errors.New("must be a port number")
	}
	return nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", commonerrors.ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", commonerrors.ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func parseCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
