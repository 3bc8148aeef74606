package server

import (
	"net/http"
	"time"

	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
)

// ServerConfig holds the HTTP timeouts plus the budget for stopping: how
// long in-flight requests may drain and how long shutdown hooks may run.
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	HookTimeout       time.Duration
}

// DefaultServerConfig keeps the write timeout above requestTimeout so a
// handler that uses its full budget can still write the response.
func DefaultServerConfig(port string, requestTimeout time.Duration) ServerConfig {
	writeTimeout := constants.ServerWriteTimeout
	if floor := requestTimeout + constants.ServerWriteSlack; writeTimeout < floor {
		writeTimeout = floor
	}

	return ServerConfig{
		Addr:              ":" + port,
		ReadHeaderTimeout: constants.ServerReadHeaderTimeout,
		ReadTimeout:       constants.ServerReadTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       constants.ServerIdleTimeout,
		ShutdownTimeout:   constants.ShutdownTimeout,
		HookTimeout:       constants.DrainTimeout,
	}
}

func (c ServerConfig) withDefaults() ServerConfig {
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = constants.ShutdownTimeout
	}
	if c.HookTimeout <= 0 {
		c.HookTimeout = constants.DrainTimeout
	}
	return c
}

func NewServer(cfg ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}
