package ports

import (
	"context"

	"github.com/vncsmyrnk/estate/internal/core/domain"
)

// TokenCodec mints and verifies bearer tokens whose subject is a user id.
type TokenCodec interface {
	Issue(userID int64) (string, error)
	Parse(token string) (int64, error)
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

// CallerResolver turns an Authorization header value into a verified caller.
// Any failure is reported as a domain.ErrUnauthorized.
type CallerResolver interface {
	Resolve(ctx context.Context, authorization string) (*domain.Caller, error)
}
