package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/estate/internal/adapters/handler/http"
	"github.com/vncsmyrnk/estate/internal/adapters/identity/local"
	"github.com/vncsmyrnk/estate/internal/adapters/password/bcrypt"
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

	cfg, err := config.LoadIdentity(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.NewJSON(os.Stdout, logging.ParseLevel(cfg.Server.LogLevel), "identity")
	if err := run(cfg, logger); err != nil {
		logger.Error(context.Background(), "identity service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Identity, logger *logging.SlogLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	users, closeStore, err := openUserStore(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer closeStore()

	codec := jwt.NewCodec([]byte(cfg.JWTSecret), cfg.TokenTTL)
	svc, err := services.NewIdentityService(users, bcrypt.NewHasher(cfg.BcryptCost), codec)
	if err != nil {
		return err
	}

	handler := http.NewIdentityHandler(http.NewUserHandler(svc, logger), local.NewResolver(codec))
	server := &stdhttp.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(ctx, "listening", "addr", server.Addr, "db_driver", cfg.Database.Driver)
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

func openUserStore(ctx context.Context, db config.Database) (ports.UserRepository, func(), error) {
	switch db.Driver {
	case config.DriverPostgres:
		conn, err := sql.Open("postgres", db.URL)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
		defer cancel()
		if err := conn.PingContext(pingCtx); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("ping postgres: %w", err)
		}
		if err := postgres.EnsureUserSchema(pingCtx, conn); err != nil {
			conn.Close()
			return nil, nil, err
		}
		return postgres.NewUserRepository(conn), func() { conn.Close() }, nil

	default:
		gdb, err := sqlite.OpenUsers(db.URL)
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, nil, err
		}
		return sqlite.NewUserStore(gdb), func() { sqlDB.Close() }, nil
	}
}
