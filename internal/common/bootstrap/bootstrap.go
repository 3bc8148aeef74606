package bootstrap

import (
	"context"
	"fmt"

	"github.com/AlibekovAA/bearer-auth/internal/common/config"
	"github.com/AlibekovAA/bearer-auth/internal/common/constants"
	"github.com/AlibekovAA/bearer-auth/internal/common/db"
	"github.com/AlibekovAA/bearer-auth/internal/common/logger"
	"github.com/AlibekovAA/bearer-auth/internal/common/resilience"
	"github.com/AlibekovAA/bearer-auth/internal/common/server"
	userrepo "github.com/AlibekovAA/bearer-auth/internal/user/repository"
)

// AuthApp holds the process-wide dependencies of the auth service.
type AuthApp struct {
	Log      *logger.Logger
	Config   config.AuthConfig
	UserRepo userrepo.Repository

	closers []server.ShutdownHook
}

func NewAuthApp(ctx context.Context) (*AuthApp, error) {
	cfg, err := config.LoadAuthConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.LogDir, "auth", cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return NewAuthAppWithConfig(ctx, cfg, log)
}

func NewAuthAppWithConfig(ctx context.Context, cfg config.AuthConfig, log *logger.Logger) (*AuthApp, error) {
	app := &AuthApp{Log: log, Config: cfg}

	if err := app.openStore(ctx); err != nil {
		return nil, err
	}

	log.Infof("user store ready: driver=%s", cfg.StoreDriver)
	return app, nil
}

func (a *AuthApp) openStore(ctx context.Context) error {
	switch a.Config.StoreDriver {
	case config.StoreMemory:
		a.UserRepo = userrepo.NewMemoryRepository()

	case config.StoreSQLite:
		repo, err := userrepo.OpenSQLite(ctx, a.Config.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite store: %w", err)
		}
		a.UserRepo = a.guard(repo)
		a.closers = append(a.closers, func(context.Context) error { return repo.Close() })

	case config.StorePostgres:
		pool, err := db.NewPool(ctx, a.Log, a.Config.DatabaseURL)
		if err != nil {
			return err
		}

		sqlDB := db.OpenSQL(pool)
		migrateErr := db.Migrate(ctx, sqlDB, db.DialectPostgres)
		_ = sqlDB.Close()
		if migrateErr != nil {
			pool.Close()
			return migrateErr
		}

		a.UserRepo = a.guard(userrepo.NewPgRepository(pool))
		a.closers = append(a.closers, func(context.Context) error {
			pool.Close()
			return nil
		})

	default:
		return fmt.Errorf("unsupported store driver %q", a.Config.StoreDriver)
	}
	return nil
}

// guard puts durable stores behind a circuit breaker so an outage fails
// fast instead of stacking up request timeouts.
func (a *AuthApp) guard(repo userrepo.Repository) userrepo.Repository {
	return userrepo.NewGuardedRepository(repo, resilience.CircuitBreakerConfig{
		Threshold:  constants.DefaultStoreBreakerThreshold,
		Timeout:    constants.DefaultStoreCallTimeout,
		ResetAfter: constants.DefaultStoreBreakerResetAfter,
		Name:       "user_store_" + a.Config.StoreDriver,
		Logger:     a.Log,
	})
}

// ShutdownHooks releases the store. Callers append them after hooks that may
// still need it.
func (a *AuthApp) ShutdownHooks() []server.ShutdownHook {
	return a.closers
}
