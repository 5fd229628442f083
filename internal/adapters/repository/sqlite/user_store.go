package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/core/ports"
)

type userRecord struct {
	ID           int64     `gorm:"primaryKey"`
	Email        string    `gorm:"size:120;not null;uniqueIndex"`
	PasswordHash string    `gorm:"size:128;not null"`
	Nom          string    `gorm:"size:50;not null"`
	Prenom       string    `gorm:"size:50;not null"`
	BirthDate    time.Time `gorm:"column:date_de_naissance;not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

func (r *userRecord) toDomain() *domain.User {
	return &domain.User{
		ID:           r.ID,
		Email:        r.Email,
		PasswordHash: r.PasswordHash,
		LastName:     r.Nom,
		FirstName:    r.Prenom,
		BirthDate:    r.BirthDate.UTC(),
		CreatedAt:    r.CreatedAt,
	}
}

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) ports.UserRepository {
	return &UserStore{db: db}
}

func (s *UserStore) Create(ctx context.Context, user *domain.User) error {
	rec := userRecord{
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Nom:          user.LastName,
		Prenom:       user.FirstName,
		BirthDate:    user.BirthDate,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	user.ID = rec.ID
	user.CreatedAt = rec.CreatedAt
	return nil
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *UserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *UserStore) Update(ctx context.Context, user *domain.User) error {
	res := s.db.WithContext(ctx).Model(&userRecord{}).Where("id = ?", user.ID).Updates(map[string]any{
		"nom":               user.LastName,
		"prenom":            user.FirstName,
		"date_de_naissance": user.BirthDate,
	})
	if res.Error != nil {
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&userRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) first(ctx context.Context, cond string, arg any) (*domain.User, error) {
	var rec userRecord
	if err := s.db.WithContext(ctx).Where(cond, arg).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return rec.toDomain(), nil
}
