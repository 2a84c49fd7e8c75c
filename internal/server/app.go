// Package server wires the AuthKeeper server: storage, credential and token
// services, metrics and the REST and gRPC transports.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/authkeeper/internal/logging"
	"github.com/dmitrijs2005/authkeeper/internal/server/auth"
	"github.com/dmitrijs2005/authkeeper/internal/server/config"
	"github.com/dmitrijs2005/authkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/authkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/authkeeper/internal/server/rest"
	"github.com/dmitrijs2005/authkeeper/internal/server/services"
	"github.com/dmitrijs2005/authkeeper/internal/server/users"

	gs "github.com/dmitrijs2005/authkeeper/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	auth     *services.AuthService
	recorder *metrics.Recorder
}

// openDB is a seam for tests.
var openDB = func(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	manager, db, err := openStorage(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	hasher, err := auth.NewPasswordHasher(c.PasswordHashAlgorithm, c.BcryptCost)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey), c.TokenValidityDuration)
	if err != nil {
		closeDB(db)
		return nil, err
	}

	store := users.NewCredentialStore(manager.Users(db), hasher)

	return &App{
		config:   c,
		logger:   logger,
		db:       db,
		auth:     services.NewAuthService(store, tokens),
		recorder: metrics.NewRecorder(),
	}, nil
}

func openStorage(ctx context.Context, c *config.Config) (repomanager.RepositoryManager, *sql.DB, error) {
	if c.StorageType == config.StorageMemory {
		return repomanager.NewMemoryRepositoryManager(), nil, nil
	}

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return m, db, nil
}

func closeDB(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
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

func (app *App) restServer() *rest.Server {
	h := rest.NewHandler(app.auth, app.recorder, app.logger.With("module", "rest"))
	return rest.NewServer(app.config.EndpointAddrHTTP, rest.NewRouter(h, app.recorder.Handler()), app.logger)
}

func (app *App) grpcServer() *gs.GRPCServer {
	return gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.auth, app.recorder)
}

// Run starts both servers and blocks until ctx is cancelled, a signal
// arrives or one of the servers fails. The first server error is returned.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer closeDB(app.db)

	app.logger.Info(ctx, "Starting app...", "storage", app.config.StorageType)

	app.initSignalHandler(ctx, cancelFunc)

	runners := []func(context.Context) error{
		app.restServer().Run,
		app.grpcServer().Run,
	}

	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)

	for _, run := range runners {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := run(ctx); err != nil {
				app.logger.Error(ctx, err.Error())
				once.Do(func() { firstErr = err })
				cancelFunc()
			}
		}()
	}

	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	return firstErr
}
