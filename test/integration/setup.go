// Package integration runs both services over real HTTP, with the listing
// service resolving callers through the identity service.
package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	handler "github.com/vncsmyrnk/estate/internal/adapters/handler/http"
	"github.com/vncsmyrnk/estate/internal/adapters/identity/local"
	"github.com/vncsmyrnk/estate/internal/adapters/identity/remote"
	pwbcrypt "github.com/vncsmyrnk/estate/internal/adapters/password/bcrypt"
	pgrepo "github.com/vncsmyrnk/estate/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/estate/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/estate/internal/adapters/token/jwt"
	"github.com/vncsmyrnk/estate/internal/core/ports"
	"github.com/vncsmyrnk/estate/internal/core/services"
	"github.com/vncsmyrnk/estate/internal/logging"
)

type TestApp struct {
	Identity *httptest.Server
	Listing  *httptest.Server
}

func setupPostgresContainer(ctx context.Context) (testcontainers.Container, string, error) {
	pgContainer, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, "", fmt.Errorf("failed to start postgres container: %w", err)
	}

	connStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", err
	}
	return pgContainer, connStr, nil
}

func startServices(t *testing.T, users ports.UserRepository, properties ports.PropertyRepository) *TestApp {
	t.Helper()

	codec := jwt.NewCodec([]byte("test-secret"), 15*time.Minute)
	identitySvc, err := services.NewIdentityService(users, pwbcrypt.NewHasher(bcrypt.MinCost), codec)
	require.NoError(t, err)
	identity := httptest.NewServer(handler.NewIdentityHandler(
		handler.NewUserHandler(identitySvc, logging.Nop()),
		local.NewResolver(codec),
	))
	t.Cleanup(identity.Close)

	// The listing side never sees the signing secret.
	resolver := remote.NewResolver(identity.URL, 2*time.Second, logging.Nop())
	listing := httptest.NewServer(handler.NewListingHandler(
		handler.NewPropertyHandler(services.NewPropertyService(properties, resolver), logging.Nop()),
	))
	t.Cleanup(listing.Close)

	return &TestApp{Identity: identity, Listing: listing}
}

func setupSQLiteApp(t *testing.T) *TestApp {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")

	usersDB, err := sqlite.OpenUsers("file:" + name + "_users?mode=memory&cache=shared")
	require.NoError(t, err)
	propsDB, err := sqlite.OpenProperties("file:" + name + "_properties?mode=memory&cache=shared")
	require.NoError(t, err)
	for _, db := range []interface{ DB() (*sql.DB, error) }{usersDB, propsDB} {
		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })
	}

	return startServices(t, sqlite.NewUserStore(usersDB), sqlite.NewPropertyStore(propsDB))
}

func setupPostgresApp(t *testing.T) *TestApp {
	t.Helper()
	ctx := context.Background()

	container, connStr, err := setupPostgresContainer(ctx)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	db, err := sql.Open("postgres", connStr)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, pgrepo.EnsureUserSchema(ctx, db))

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pgrepo.EnsurePropertySchema(ctx, pool))

	return startServices(t, pgrepo.NewUserRepository(db), pgrepo.NewPropertyRepository(pool))
}
