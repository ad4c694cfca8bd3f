package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/nkiryanov/mimiplus/internal/db"
	"github.com/nkiryanov/mimiplus/internal/handlers"
	"github.com/nkiryanov/mimiplus/internal/logger"
	"github.com/nkiryanov/mimiplus/internal/repository/postgres"
	"github.com/nkiryanov/mimiplus/internal/service/account"
	"github.com/nkiryanov/mimiplus/internal/service/batch"
	"github.com/nkiryanov/mimiplus/internal/service/catalog"
	"github.com/nkiryanov/mimiplus/internal/service/dashboard"
	"github.com/nkiryanov/mimiplus/internal/service/identity"
	"github.com/nkiryanov/mimiplus/internal/service/ledger"
	"github.com/nkiryanov/mimiplus/internal/service/purchase"
	"github.com/nkiryanov/mimiplus/internal/service/redemption"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger
	pool   *pgxpool.Pool
}

func NewServerApp(ctx context.Context, c *Config) (*ServerApp, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config. Err: %w", err)
	}

	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	tokens, err := identity.New(identity.Config{SecretKey: c.SecretKey})
	if err != nil {
		return nil, fmt.Errorf("error while creating token manager. Err: %w", err)
	}

	// Connect to the database and run migrations
	pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
	}

	// Initialize repositories
	storage := postgres.NewStorage(pool)

	// Initialize services
	ledgerService := ledger.NewService(storage)
	redemptionService := redemption.NewService(storage, ledgerService, logger)

	router := handlers.NewRouter(
		handlers.Services{
			Tokens:      tokens,
			Accounts:    account.NewService(storage.Account(), account.BcryptCode),
			Ledger:      ledgerService,
			Catalog:     catalog.NewService(storage.Reward()),
			Redemptions: redemptionService,
			Purchases:   purchase.NewService(ledgerService),
			Batch:       batch.NewService(redemptionService, logger),
			Dashboard:   dashboard.NewService(storage.Report(), storage.Ledger()),
		},
		handlers.RouterConfig{
			PointsPerUnit:  c.PointsPerUnit,
			AllowedOrigins: c.AllowedOrigins,
		},
		logger,
	)

	return &ServerApp{
		ListenAddr: c.ListenAddr,
		Handler:    router,
		logger:     logger,
		pool:       pool,
	}, nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.pool.Close()

	httpServer := &http.Server{
		Addr:              s.ListenAddr,
		Handler:           s.Handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Listen and serve until context is cancelled
	g.Go(func() error {
		s.logger.Info("Starting server", "address", s.ListenAddr)
		err := httpServer.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	})

	// Then close connections gracefully
	g.Go(func() error {
		<-gctx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		err := httpServer.Shutdown(timeoutCtx)
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
			err = httpServer.Close()
		}
		s.logger.Info("HTTP server stopped")
		return err
	})

	return g.Wait()
}
