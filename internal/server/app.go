// Package server initializes and runs the identity service: it loads key
// material, opens storage, wires the token subsystem and the HTTP API, and
// handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.opentelemetry.io/otel"

	"github.com/dkrasnovs/tenauth/internal/logging"
	"github.com/dkrasnovs/tenauth/internal/server/auth"
	"github.com/dkrasnovs/tenauth/internal/server/config"
	"github.com/dkrasnovs/tenauth/internal/server/httpapi"
	"github.com/dkrasnovs/tenauth/internal/server/metrics"
	"github.com/dkrasnovs/tenauth/internal/server/storage"
	"github.com/dkrasnovs/tenauth/internal/server/tenants"
	"github.com/dkrasnovs/tenauth/internal/server/users"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	storage *storage.Manager
	server  *httpapi.Server
}

// NewApp builds the full object graph. Signing-key problems surface here,
// before the process accepts any traffic.
func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	privateKey, err := os.ReadFile(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("read private key: %w", err)
	}
	signer, err := auth.NewSigner(auth.SignerConfig{
		PrivateKeyPEM:   privateKey,
		RefreshSecret:   []byte(cfg.RefreshTokenSecret),
		AccessTokenTTL:  cfg.AccessTokenValidityDuration,
		RefreshTokenTTL: cfg.RefreshTokenValidityDuration,
	})
	if err != nil {
		return nil, err
	}

	manager, err := storage.NewPostgresManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	authMetrics, err := metrics.New(otel.Meter("tenauth"))
	if err != nil {
		return nil, err
	}

	userService := users.NewService(manager.Users(), manager.UsersTx(), cfg.BcryptCost, logger)
	tenantService := tenants.NewService(manager.Tenants(), logger)
	issuer := auth.NewIssuer(signer, manager.RefreshTokens(), userService, logger, authMetrics)
	guard := auth.NewGuard(signer, issuer, logger, authMetrics)

	server := httpapi.NewServer(cfg, logger, issuer, guard, userService, tenantService, authMetrics)

	return &App{config: cfg, logger: logger, storage: manager, server: server}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.storage.Close(); err != nil {
		app.logger.Error(ctx, "closing storage failed", "error", err)
	}
}
