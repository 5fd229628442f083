package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/vncsmyrnk/estate/internal/adapters/handler/http"
	"github.com/vncsmyrnk/estate/internal/adapters/identity/local"
	"github.com/vncsmyrnk/estate/internal/adapters/identity/remote"
	"github.com/vncsmyrnk/estate/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/estate/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/estate/internal/adapters/token/jwt"
	"github.com/vncsmyrnk/estate/internal/config"
	"github.com/vncsmyrnk/estate/internal/core/ports"
	"github.com/vncsmyrnk/estate/internal/core/services"
	"github.com/vncsmyrnk/estate/internal/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadListing(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(cfg.Server.LogLevel), "listing")
	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "listing service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Listing, logger *logging.SlogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	properties, closeStore, err := openPropertyStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	svc := services.NewPropertyService(properties, newResolver(cfg, logger))
	handler := http.NewListingHandler(http.NewPropertyHandler(svc, logger))
	server := &stdhttp.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", server.Addr, "identity_strategy", cfg.Strategy, "db_driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info(context.Background(), "gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func newResolver(cfg *config.Listing, logger logging.Logger) ports.CallerResolver {
	if cfg.Strategy == config.StrategyLocal {
		return local.NewResolver(jwt.NewCodec([]byte(cfg.JWTSecret), 0))
	}
	return remote.NewResolver(cfg.UserServiceURL, cfg.IdentityTimeout, logger)
}

func openPropertyStore(ctx context.Context, db config.Database) (ports.PropertyRepository, func(), error) {
	switch db.Driver {
	case config.DriverPostgres:
		poolCfg, err := pgxpool.ParseConfig(db.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("parse database url: %w", err)
		}
		poolCfg.MaxConns = 20
		poolCfg.MinConns = 2
		poolCfg.MaxConnLifetime = time.Hour
		poolCfg.MaxConnIdleTime = 30 * time.Minute

		connectCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()

		pool, err := pgxpool.NewWithConfig(connectCtx, poolCfg)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := pool.Ping(connectCtx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := postgres.EnsurePropertySchema(connectCtx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return postgres.NewPropertyRepository(pool), pool.Close, nil

	default:
		gdb, err := sqlite.OpenProperties(db.URL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewPropertyStore(gdb), func() { sqlDB.Close() }, nil
	}
}
