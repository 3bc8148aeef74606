package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// StartWithGracefulShutdownAndHooks serves until SIGINT or SIGTERM arrives,
// then drains in-flight requests and runs hooks within the budgets in cfg.
func StartWithGracefulShutdownAndHooks(
	server *http.Server,
	cfg ServerConfig,
	log *logger.Logger,
	serviceName string,
	hooks []ShutdownHook,
) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		return fmt.Errorf("failed to start %s service: %w", serviceName, err)
	}
	return Serve(ctx, server, cfg, ln, log, serviceName, hooks)
}

// Serve runs server on ln until ctx is done.
func Serve(
	ctx context.Context,
	server *http.Server,
	cfg ServerConfig,
	ln net.Listener,
	log *logger.Logger,
	serviceName string,
	hooks []ShutdownHook,
) error {
	cfg = cfg.withDefaults()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("%s service listening on %s", serviceName, ln.Addr())
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("%s service stopped: %w", serviceName, err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down %s service...", serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	server.SetKeepAlivesEnabled(false)

	var shutdownErr error
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("%s service forced to shutdown: %v", serviceName, err)
		shutdownErr = err
	}

	if len(hooks) > 0 {
		drainCtx, drainCancel := context.WithTimeout(shutdownCtx, cfg.HookTimeout)
		defer drainCancel()

		log.Infof("%s service: executing shutdown hooks", serviceName)
		for i, hook := range hooks {
			if err := hook(drainCtx); err != nil {
				log.Errorf("%s service: shutdown hook %d failed: %v", serviceName, i, err)
				shutdownErr = errors.Join(shutdownErr, err)
			}
		}
	}

	if shutdownErr == nil {
		log.Infof("%s service stopped gracefully", serviceName)
	}
	return shutdownErr
}
