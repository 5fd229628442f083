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

type propertyRecord struct {
	ID           int64         `gorm:"primaryKey"`
	Nom          string        `gorm:"not null"`
	Description  string        `gorm:"not null"`
	TypeDeBien   string        `gorm:"not null"`
	Ville        string        `gorm:"not null;index"`
	Proprietaire int64         `gorm:"not null"`
	Pieces       []domain.Room `gorm:"serializer:json"`
	CreatedAt    time.Time
}

func (propertyRecord) TableName() string { return "properties" }

func (r *propertyRecord) toDomain() *domain.Property {
	rooms := r.Pieces
	if rooms == nil {
		rooms = []domain.Room{}
	}
	return &domain.Property{
		ID:          r.ID,
		Title:       r.Nom,
		Description: r.Description,
		Kind:        r.TypeDeBien,
		City:        r.Ville,
		OwnerID:     r.Proprietaire,
		Rooms:       rooms,
		CreatedAt:   r.CreatedAt,
	}
}

type PropertyStore struct {
	db *gorm.DB
}

func NewPropertyStore(db *gorm.DB) ports.PropertyRepository {
	return &PropertyStore{db: db}
}

func (s *PropertyStore) Create(ctx context.Context, p *domain.Property) error {
	rec := propertyRecord{
		Nom:          p.Title,
		Description:  p.Description,
		TypeDeBien:   p.Kind,
		Ville:        p.City,
		Proprietaire: p.OwnerID,
		Pieces:       p.Rooms,
		CreatedAt:    p.CreatedAt,
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("insert property: %w", err)
	}
	p.ID = rec.ID
	p.CreatedAt = rec.CreatedAt
	return nil
}

func (s *PropertyStore) ListByCity(ctx context.Context, city string) ([]*domain.Property, error) {
	var recs []propertyRecord
	if err := s.db.WithContext(ctx).Where("ville = ?", city).Order("id").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}

	out := make([]*domain.Property, 0, len(recs))
	for i := range recs {
		out = append(out, recs[i].toDomain())
	}
	return out, nil
}

func (s *PropertyStore) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var rec propertyRecord
	if err := s.db.WithContext(ctx).First(&rec, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPropertyNotFound
		}
		return nil, fmt.Errorf("get property: %w", err)
	}
	return rec.toDomain(), nil
}

// Update rewrites the mutable columns; proprietaire is never touched.
func (s *PropertyStore) Update(ctx context.Context, p *domain.Property) error {
	rooms := p.Rooms
	if rooms == nil {
		rooms = []domain.Room{}
	}
	rec := propertyRecord{
		Nom:         p.Title,
		Description: p.Description,
		TypeDeBien:  p.Kind,
		Ville:       p.City,
		Pieces:      rooms,
	}
	res := s.db.WithContext(ctx).Model(&propertyRecord{}).Where("id = ?", p.ID).
		Select("nom", "description", "type_de_bien", "ville", "pieces").
		Updates(&rec)
	if res.Error != nil {
		return fmt.Errorf("update property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func (s *PropertyStore) Delete(ctx context.Context, id int64) error {
	res := s.db.WithContext(ctx).Delete(&propertyRecord{}, id)
	if res.Error != nil {
		return fmt.Errorf("delete property: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}
