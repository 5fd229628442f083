// Package local resolves callers by verifying the bearer token in process with
// the signing secret shared with the identity service.
package local

import (
	"context"

	"github.com/vncsmyrnk/estate/internal/adapters/token/jwt"
	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/core/ports"
)

type Resolver struct {
	codec ports.TokenCodec
}

func NewResolver(codec ports.TokenCodec) *Resolver {
	return &Resolver{codec: codec}
}

// Resolve only knows the caller's id; profile fields stay empty.
func (r *Resolver) Resolve(_ context.Context, authorization string) (*domain.Caller, error) {
	token, err := jwt.BearerToken(authorization)
	if err != nil {
		return nil, err
	}

	id, err := r.codec.Parse(token)
	if err != nil {
		return nil, err
	}
	return &domain.Caller{ID: id}, nil
}
