package ports

import (
	"context"

	"github.com/vncsmyrnk/estate/internal/core/domain"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	BirthDate string
}

// IdentityService covers registration, login, token validation and the
// self-only profile operations.
type IdentityService interface {
	Register(ctx context.Context, input RegisterInput) (int64, error)
	Login(ctx context.Context, email, password string) (string, error)
	ValidateToken(ctx context.Context, token string) (*domain.Caller, error)

	GetSelf(ctx context.Context, callerID, targetID int64) (*domain.User, error)
	UpdateSelf(ctx context.Context, callerID, targetID int64, patch domain.UserPatch) error
	DeleteSelf(ctx context.Context, callerID, targetID int64) error
}
