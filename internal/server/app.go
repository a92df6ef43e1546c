// Package server initializes and runs the ledger store. It opens the
// database, applies migrations, seeds the first admin account when needed,
// and serves the action API until interrupted.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/primesolution/invoicer/internal/logging"
	"github.com/primesolution/invoicer/internal/server/config"
	"github.com/primesolution/invoicer/internal/server/httpapi"
	"github.com/primesolution/invoicer/internal/server/repositories"
	"github.com/primesolution/invoicer/internal/server/sequence"
	"github.com/primesolution/invoicer/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	repos  *repositories.Repositories
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := repositories.InitDatabase(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	userService := services.NewUserService(repos.Users, cfg, logger)
	if err := userService.EnsureAdmin(ctx); err != nil {
		_ = repos.Close()
		return nil, fmt.Errorf("admin seed error: %w", err)
	}

	handler := httpapi.NewHandler(
		services.NewInvoiceService(repos.DB(), sequence.NewLock(), cfg, logger),
		userService,
		services.NewCatalogService(repos.Products, logger),
		services.NewActivityService(repos.Activity, logger),
		services.NewDefaultsService(repos.Defaults, logger),
		logger,
	)

	srv := httpapi.NewServer(cfg.EndpointAddr, handler, logger)

	return &App{config: cfg, logger: logger, repos: repos, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
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

	app.logger.Info(ctx, "Starting app...")

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

	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, err.Error())
	}
}
