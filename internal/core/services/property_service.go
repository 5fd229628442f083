package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/core/ports"
)

type propertyService struct {
	repo     ports.PropertyRepository
	resolver ports.CallerResolver
	now      func() time.Time
}

func NewPropertyService(repo ports.PropertyRepository, resolver ports.CallerResolver) ports.PropertyService {
	return &propertyService{
		repo:     repo,
		resolver: resolver,
		now:      time.Now,
	}
}

func (s *propertyService) Create(ctx context.Context, authorization string, in ports.CreatePropertyInput) (int64, error) {
	caller, err := s.resolver.Resolve(ctx, authorization)
	if err != nil {
		return 0, err
	}

	required := []struct{ field, value string }{
		{"nom", in.Title},
		{"description", in.Description},
		{"type_de_bien", in.Kind},
		{"ville", in.City},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return 0, domain.MissingField(r.field)
		}
	}

	rooms := in.Rooms
	if rooms == nil {
		rooms = []domain.Room{}
	}

	property := &domain.Property{
		Title:       in.Title,
		Description: in.Description,
		Kind:        in.Kind,
		City:        in.City,
		OwnerID:     caller.ID,
		Rooms:       rooms,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repo.Create(ctx, property); err != nil {
		return 0, fmt.Errorf("create property: %w", err)
	}
	return property.ID, nil
}

func (s *propertyService) ListByCity(ctx context.Context, city string) ([]*domain.Property, error) {
	if city == "" {
		return nil, domain.MissingField("city")
	}

	properties, err := s.repo.ListByCity(ctx, city)
	if err != nil {
		return nil, fmt.Errorf("list properties: %w", err)
	}
	if properties == nil {
		properties = []*domain.Property{}
	}
	return properties, nil
}

func (s *propertyService) Get(ctx context.Context, id int64) (*domain.Property, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *propertyService) Update(ctx context.Context, authorization string, id int64, patch domain.PropertyPatch) error {
	property, err := s.authorize(ctx, authorization, id)
	if err != nil {
		return err
	}
	if err := validatePropertyPatch(patch); err != nil {
		return err
	}

	patch.Apply(property)
	if property.Rooms == nil {
		property.Rooms = []domain.Room{}
	}
	return s.repo.Update(ctx, property)
}

func (s *propertyService) Delete(ctx context.Context, authorization string, id int64) error {
	if _, err := s.authorize(ctx, authorization, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// authorize loads the property before resolving the caller, so a missing id
// reports not found to owners and strangers alike.
func (s *propertyService) authorize(ctx context.Context, authorization string, id int64) (*domain.Property, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	caller, err := s.resolver.Resolve(ctx, authorization)
	if err != nil {
		return nil, err
	}

	if !property.OwnedBy(caller) {
		return nil, domain.ErrNotOwner
	}
	return property, nil
}

func validatePropertyPatch(p domain.PropertyPatch) error {
	if p.Malformed != nil {
		return p.Malformed
	}
	if len(p.Immutable) > 0 {
		return domain.InvalidField(p.Immutable[0], "cannot be changed")
	}
	fields := []struct {
		field string
		value *string
	}{
		{"nom", p.Title},
		{"description", p.Description},
		{"type_de_bien", p.Kind},
		{"ville", p.City},
	}
	for _, f := range fields {
		if f.value != nil && strings.TrimSpace(*f.value) == "" {
			return domain.InvalidField(f.field, "must not be empty")
		}
	}
	return nil
}
