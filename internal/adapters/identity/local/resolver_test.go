package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vncsmyrnk/estate/internal/adapters/token/jwt"
	"github.com/vncsmyrnk/estate/internal/core/domain"
)

func TestResolve(t *testing.T) {
	codec := jwt.NewCodec([]byte("shared"), time.Hour)
	tok, err := codec.Issue(9)
	require.NoError(t, err)

	caller, err := NewResolver(codec).Resolve(context.Background(), "Bearer "+tok)
	require.NoError(t, err)
	assert.Equal(t, int64(9), caller.ID)
}

func TestResolve_Failures(t *testing.T) {
	codec := jwt.NewCodec([]byte("shared"), time.Hour)
	expired, err := jwt.NewCodec([]byte("shared"), -time.Minute).Issue(9)
	require.NoError(t, err)
	foreign, err := jwt.NewCodec([]byte("other"), time.Hour).Issue(9)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":      "",
		"not bearer":   "Token abc",
		"malformed":    "Bearer abc",
		"expired":      "Bearer " + expired,
		"wrong secret": "Bearer " + foreign,
	} {
		_, err := NewResolver(codec).Resolve(context.Background(), header)
		assert.ErrorIs(t, err, domain.ErrUnauthorized, name)
	}
}
