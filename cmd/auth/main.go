package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/bearer-auth/internal/auth/http"
	"github.com/AlibekovAA/bearer-auth/internal/auth/notify"
	"github.com/AlibekovAA/bearer-auth/internal/auth/service"
	"github.com/AlibekovAA/bearer-auth/internal/common/bootstrap"
	"github.com/AlibekovAA/bearer-auth/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/bearer-auth/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/bearer-auth/internal/common/http"
	"github.com/AlibekovAA/bearer-auth/internal/common/jwtverify"
	srv "github.com/AlibekovAA/bearer-auth/internal/common/server"
)

func main() {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewAuthApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start auth service: %v\n", err)
		os.Exit(1)
	}
	log := app.Log
	cfg := app.Config

	key, err := jwtverify.NewSigningKey(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("invalid signing key: %v", err)
	}

	clk := clock.NewRealClock()
	issuer := service.NewTokenIssuer(key, clk)
	verifier := jwtverify.NewVerifier(key, clk)

	dispatcher := notify.NewDispatcher(
		notify.NewLogMailer(log, cfg.NotifySendDelay),
		notify.Config{
			Workers:    cfg.NotifyWorkers,
			QueueSize:  cfg.NotifyQueueSize,
			JobTimeout: cfg.NotifyJobTimeout,
		},
		log,
	)

	authService := service.NewAuthService(
		app.UserRepo,
		commoncrypto.NewBcryptHasher(cfg.BcryptCost),
		issuer,
		verifier,
		service.NewSessionAuthenticator(app.UserRepo),
		dispatcher,
		service.Config{AccessTokenTTL: cfg.AccessTokenTTL},
		log,
	)

	mux := http.NewServeMux()
	mux.Handle("/", authhttp.NewHandler(authService, verifier, log, cfg.RequestTimeout))
	mux.Handle("/metrics", promhttp.Handler())

	serverConfig := srv.DefaultServerConfig(cfg.HTTPPort, cfg.RequestTimeout)
	server := srv.NewServer(
		serverConfig,
		commonhttp.BuildBaseHandler(log, cfg.CORSAllowedOrigins, mux),
	)

	shutdownHooks := []srv.ShutdownHook{
		func(ctx context.Context) error {
			log.Infof("auth service: draining welcome notifications")
			return dispatcher.Shutdown(ctx)
		},
	}
	shutdownHooks = append(shutdownHooks, app.ShutdownHooks()...)

	if err := srv.StartWithGracefulShutdownAndHooks(server, serverConfig, log, "auth", shutdownHooks); err != nil {
		log.Errorf("auth service exited: %v", err)
		cancel()
		os.Exit(1)
	}
}
