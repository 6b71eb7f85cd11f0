// Package server wires configuration, storage, services and transports
// together and runs the contactkeeper server until it is told to stop.
package server

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/contactkeeper/internal/common"
	"github.com/dmitrijs2005/contactkeeper/internal/logging"
	"github.com/dmitrijs2005/contactkeeper/internal/server/auth"
	"github.com/dmitrijs2005/contactkeeper/internal/server/config"
	"github.com/dmitrijs2005/contactkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/contactkeeper/internal/server/rest"
	"github.com/dmitrijs2005/contactkeeper/internal/server/services"

	gs "github.com/dmitrijs2005/contactkeeper/internal/server/grpc"
)

// ephemeralSecretSize is the key length generated for development runs
// without a configured secret. 64 bytes selects HS512.
const ephemeralSecretSize = 64

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	handler    http.Handler
	httpServer *rest.Server
	health     *gs.HealthServer
}

// NewApp opens the database, applies migrations and builds the HTTP and
// gRPC servers. Logs go to stdout as JSON.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, os.Stdout)
}

func newApp(ctx context.Context, c *config.Config, logOut io.Writer) (*App, error) {
	logger := logging.NewJSON(logOut, c.LogLevel)

	secret := c.SecretKey
	if secret == "" && c.Development {
		logger.Warn(ctx, "No secret key configured, using an ephemeral one; tokens will not survive a restart")
		secret = base64.StdEncoding.EncodeToString(common.GenerateRandByteArray(ephemeralSecretSize))
	}

	tokens, err := auth.NewTokenService(secret, c.TokenValidityDuration)
	if err != nil {
		return nil, fmt.Errorf("token service init error: %w", err)
	}

	passwords, err := auth.NewPasswords(c.PasswordHashAlgorithm, c.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher init error: %w", err)
	}

	rm, err := repomanager.New(c.DatabaseDriver)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	db, err := repomanager.OpenDB(ctx, c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	accounts := services.NewAccountService(db, rm, passwords, tokens, logger)
	contacts := services.NewContactService(db, rm, logger)

	metrics := rest.NewMetrics()
	v := rest.NewValidator()

	handler := rest.NewRouter(rest.RouterConfig{
		Accounts:       rest.NewAccountHandler(accounts, v, metrics, logger),
		Contacts:       rest.NewContactHandler(contacts, v, logger),
		Gate:           rest.NewAuthGate(tokens, auth.NewIdentityResolver(rm.Users(db)), logger),
		Metrics:        metrics,
		AllowedOrigins: c.AllowedOrigins,
		Development:    c.Development,
		Logger:         logger,
	})

	app := &App{
		config:     c,
		logger:     logger,
		db:         db,
		handler:    handler,
		httpServer: rest.NewServer(c.EndpointAddrHTTP, handler, logger),
	}

	if c.EndpointAddrGRPC != "" {
		app.health = gs.NewHealthServer(c.EndpointAddrGRPC, logger)
	}

	return app, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case s := <-sigs:
			app.logger.Info(ctx, "Received signal", "signal", s.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run serves until ctx is cancelled, a termination signal arrives or one of
// the servers fails. The database is closed on the way out.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	run := func(name string, fn func(context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(ctx); err != nil {
				app.logger.Error(ctx, "Server stopped with error", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	run("http", app.httpServer.Run)
	if app.health != nil {
		app.health.SetServing(true)
		run("grpc", app.health.Run)
	}

	wg.Wait()

	if err := app.db.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close db: %w", err))
	}

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return errors.Join(errs...)
}
