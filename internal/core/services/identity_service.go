package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/core/ports"
)

type identityService struct {
	users     ports.UserRepository
	hasher    ports.PasswordHasher
	tokens    ports.TokenCodec
	dummyHash string
}

func NewIdentityService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenCodec) (ports.IdentityService, error) {
	// Unknown emails are verified against this hash so both login failures
	// cost one bcrypt comparison.
	dummy, err := hasher.Hash("not-a-real-password")
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}

	return &identityService{
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		dummyHash: dummy,
	}, nil
}

func (s *identityService) Register(ctx context.Context, in ports.RegisterInput) (int64, error) {
	user, err := newUser(in)
	if err != nil {
		return 0, err
	}

	existing, err := s.users.GetByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return 0, fmt.Errorf("lookup email: %w", err)
	}
	if existing != nil {
		return 0, domain.ErrEmailTaken
	}

	user.PasswordHash, err = s.hasher.Hash(in.Password)
	if err != nil {
		return 0, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return 0, err
		}
		return 0, fmt.Errorf("create user: %w", err)
	}
	return user.ID, nil
}

func newUser(in ports.RegisterInput) (*domain.User, error) {
	required := []struct{ field, value string }{
		{"email", in.Email},
		{"password", in.Password},
		{"nom", in.LastName},
		{"prenom", in.FirstName},
		{"date_de_naissance", in.BirthDate},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return nil, domain.MissingField(r.field)
		}
	}

	addr, err := mail.ParseAddress(in.Email)
	if err != nil || addr.Address != in.Email {
		return nil, domain.InvalidField("email", "must be a valid email address")
	}

	birth, err := domain.ParseBirthDate("date_de_naissance", in.BirthDate)
	if err != nil {
		return nil, err
	}

	return &domain.User{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		BirthDate: birth,
	}, nil
}

func (s *identityService) Login(ctx context.Context, email, password string) (string, error) {
	if email == "" {
		return "", domain.MissingField("email")
	}
	if password == "" {
		return "", domain.MissingField("password")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return "", fmt.Errorf("lookup email: %w", err)
		}
		s.hasher.Verify(s.dummyHash, password)
		return "", domain.ErrInvalidCredentials
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", domain.ErrInvalidCredentials
	}

	return s.tokens.Issue(user.ID)
}

func (s *identityService) ValidateToken(ctx context.Context, token string) (*domain.Caller, error) {
	id, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return user.Caller(), nil
}

func (s *identityService) GetSelf(ctx context.Context, callerID, targetID int64) (*domain.User, error) {
	if callerID != targetID {
		return nil, domain.ErrNotSelf
	}
	return s.users.GetByID(ctx, targetID)
}

func (s *identityService) UpdateSelf(ctx context.Context, callerID, targetID int64, patch domain.UserPatch) error {
	if callerID != targetID {
		return domain.ErrNotSelf
	}
	if err := validateUserPatch(patch); err != nil {
		return err
	}

	user, err := s.users.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	patch.Apply(user)
	return s.users.Update(ctx, user)
}

func validateUserPatch(p domain.UserPatch) error {
	if p.Malformed != nil {
		return p.Malformed
	}
	if len(p.Immutable) > 0 {
		return domain.InvalidField(p.Immutable[0], "cannot be changed")
	}
	if p.FirstName != nil && strings.TrimSpace(*p.FirstName) == "" {
		return domain.InvalidField("prenom", "must not be empty")
	}
	if p.LastName != nil && strings.TrimSpace(*p.LastName) == "" {
		return domain.InvalidField("nom", "must not be empty")
	}
	return nil
}

func (s *identityService) DeleteSelf(ctx context.Context, callerID, targetID int64) error {
	if callerID != targetID {
		return domain.ErrNotSelf
	}
	return s.users.Delete(ctx, targetID)
}
