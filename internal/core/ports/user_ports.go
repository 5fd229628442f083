package ports

import (
	"context"

	"github.com/vncsmyrnk/estate/internal/core/domain"
)

// UserRepository is the Credential Store.
type UserRepository interface {
	// Create persists user and sets its ID. A duplicate email yields
	// domain.ErrEmailTaken.
	Create(ctx context.Context, user *domain.User) error
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int64) error
}
