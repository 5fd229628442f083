package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/vncsmyrnk/estate/internal/adapters/identity/local"
	pwbcrypt "github.com/vncsmyrnk/estate/internal/adapters/password/bcrypt"
	"github.com/vncsmyrnk/estate/internal/adapters/repository/sqlite"
	"github.com/vncsmyrnk/estate/internal/adapters/token/jwt"
	"github.com/vncsmyrnk/estate/internal/core/ports"
	"github.com/vncsmyrnk/estate/internal/core/services"
	"github.com/vncsmyrnk/estate/internal/logging"
)

const testSecret = "test-secret"

type testApp struct {
	Server *httptest.Server
	Codec  *jwt.Codec
	Users  ports.UserRepository
	Props  ports.PropertyRepository
}

func memoryDSN(t *testing.T, name string) string {
	return "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "_" + name + "?mode=memory&cache=shared"
}

func newIdentityApp(t *testing.T) *testApp {
	t.Helper()
	db, err := sqlite.OpenUsers(memoryDSN(t, "users"))
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)

	users := sqlite.NewUserStore(db)
	codec := jwt.NewCodec([]byte(testSecret), 15*time.Minute)
	svc, err := services.NewIdentityService(users, pwbcrypt.NewHasher(bcrypt.MinCost), codec)
	require.NoError(t, err)

	handler := NewIdentityHandler(NewUserHandler(svc, logging.Nop()), local.NewResolver(codec))
	srv := httptest.NewServer(handler)
	t.Cleanup(func() {
		srv.Close()
		sqlDB.Close()
	})
	return &testApp{Server: srv, Codec: codec, Users: users}
}

func newListingApp(t *testing.T, repo ports.PropertyRepository) *testApp {
	t.Helper()
	codec := jwt.NewCodec([]byte(testSecret), 15*time.Minute)

	if repo == nil {
		db, err := sqlite.OpenProperties(memoryDSN(t, "properties"))
		require.NoError(t, err)
		sqlDB, err := db.DB()
		require.NoError(t, err)
		t.Cleanup(func() { sqlDB.Close() })
		repo = sqlite.NewPropertyStore(db)
	}

	svc := services.NewPropertyService(repo, local.NewResolver(codec))
	srv := httptest.NewServer(NewListingHandler(NewPropertyHandler(svc, logging.Nop())))
	t.Cleanup(srv.Close)
	return &testApp{Server: srv, Codec: codec, Props: repo}
}

func (a *testApp) token(t *testing.T, userID int64) string {
	t.Helper()
	tok, err := a.Codec.Issue(userID)
	require.NoError(t, err)
	return tok
}

func (a *testApp) do(t *testing.T, method, path, token string, body any) (*http.Response, []byte) {
	t.Helper()

	var rdr io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rdr = strings.NewReader(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		rdr = bytes.NewReader(buf)
	}

	req, err := http.NewRequest(method, a.Server.URL+path, rdr)
	require.NoError(t, err)
	if rdr != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.Server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(data, &v), string(data))
	return v
}
