// Package config builds the runtime settings of both binaries from defaults,
// the environment and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	StrategyRemote = "remote"
	StrategyLocal  = "local"
)

var ErrInvalid = errors.New("invalid configuration")

type Server struct {
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
	LogLevel     string
}

func (s Server) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", s.Port)
}

type Database struct {
	Driver string
	URL    string
}

type Identity struct {
	Server     Server
	Database   Database
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type Listing struct {
	Server          Server
	Database        Database
	Strategy        string
	UserServiceURL  string
	IdentityTimeout time.Duration
	JWTSecret       string
}

// LoadIdentity reads the identity service settings. args excludes the
// program name.
func LoadIdentity(args []string) (*Identity, error) {
	cfg := &Identity{}
	fs := flag.NewFlagSet("identity", flag.ContinueOnError)

	serverFlags(fs, &cfg.Server, 5000)
	databaseFlags(fs, &cfg.Database, "file:users.db")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET_KEY"), "HS256 signing secret")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", envDuration("TOKEN_TTL", 15*time.Minute), "Access token lifetime")
	fs.IntVar(&cfg.BcryptCost, "bcrypt-cost", envInt("BCRYPT_COST", 0), "bcrypt cost (0 uses the library default)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Database.validate(); err != nil {
		return nil, err
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("%w: JWT_SECRET_KEY is required", ErrInvalid)
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("%w: token ttl must be positive", ErrInvalid)
	}
	return cfg, nil
}

// LoadListing reads the listing service settings. args excludes the program
// name.
func LoadListing(args []string) (*Listing, error) {
	cfg := &Listing{}
	fs := flag.NewFlagSet("listing", flag.ContinueOnError)

	serverFlags(fs, &cfg.Server, 5001)
	databaseFlags(fs, &cfg.Database, "file:properties.db")
	fs.StringVar(&cfg.Strategy, "identity-strategy", envString("IDENTITY_STRATEGY", StrategyRemote), "Caller resolution: remote or local")
	fs.StringVar(&cfg.UserServiceURL, "user-service-url", os.Getenv("USER_SERVICE_URL"), "Identity service base URL")
	fs.DurationVar(&cfg.IdentityTimeout, "identity-timeout", envDuration("IDENTITY_TIMEOUT", 5*time.Second), "Timeout of a remote validation call")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", os.Getenv("JWT_SECRET_KEY"), "HS256 secret shared with the identity service (local strategy)")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if err := cfg.Database.validate(); err != nil {
		return nil, err
	}
	switch cfg.Strategy {
	case StrategyRemote:
		if cfg.UserServiceURL == "" {
			return nil, fmt.Errorf("%w: USER_SERVICE_URL is required for the remote strategy", ErrInvalid)
		}
		if cfg.IdentityTimeout <= 0 {
			return nil, fmt.Errorf("%w: identity timeout must be positive", ErrInvalid)
		}
	case StrategyLocal:
		if cfg.JWTSecret == "" {
			return nil, fmt.Errorf("%w: JWT_SECRET_KEY is required for the local strategy", ErrInvalid)
		}
	default:
		return nil, fmt.Errorf("%w: unknown identity strategy %q", ErrInvalid, cfg.Strategy)
	}
	return cfg, nil
}

func serverFlags(fs *flag.FlagSet, s *Server, defaultPort int) {
	fs.IntVar(&s.Port, "port", envInt("PORT", defaultPort), "HTTP listen port")
	fs.DurationVar(&s.ReadTimeout, "read-timeout", envDuration("HTTP_READ_TIMEOUT", 10*time.Second), "HTTP read timeout")
	fs.DurationVar(&s.WriteTimeout, "write-timeout", envDuration("HTTP_WRITE_TIMEOUT", 15*time.Second), "HTTP write timeout")
	fs.DurationVar(&s.IdleTimeout, "idle-timeout", envDuration("HTTP_IDLE_TIMEOUT", 60*time.Second), "HTTP idle timeout")
	fs.StringVar(&s.LogLevel, "log-level", envString("LOG_LEVEL", "info"), "debug, info, warn or error")
}

func databaseFlags(fs *flag.FlagSet, d *Database, defaultURL string) {
	fs.StringVar(&d.Driver, "db-driver", envString("DATABASE_DRIVER", DriverSQLite), "postgres or sqlite")
	fs.StringVar(&d.URL, "db-url", envString("DATABASE_URL", defaultURL), "Database connection string")
}

func (d Database) validate() error {
	switch d.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown database driver %q", ErrInvalid, d.Driver)
	}
	if d.URL == "" {
		return fmt.Errorf("%w: DATABASE_URL is required", ErrInvalid)
	}
	return nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
