package ports

import (
	"context"

	"github.com/vncsmyrnk/estate/internal/core/domain"
)

// PropertyRepository is the Listing Store.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property) error
	ListByCity(ctx context.Context, city string) ([]*domain.Property, error)
	GetByID(ctx context.Context, id int64) (*domain.Property, error)
	Update(ctx context.Context, property *domain.Property) error
	Delete(ctx context.Context, id int64) error
}

type CreatePropertyInput struct {
	Title       string
	Description string
	Kind        string
	City        string
	Rooms       []domain.Room
}

// PropertyService takes the raw Authorization header on mutating calls and
// resolves the caller itself.
type PropertyService interface {
	Create(ctx context.Context, authorization string, input CreatePropertyInput) (int64, error)
	ListByCity(ctx context.Context, city string) ([]*domain.Property, error)
	Get(ctx context.Context, id int64) (*domain.Property, error)
	Update(ctx context.Context, authorization string, id int64, patch domain.PropertyPatch) error
	Delete(ctx context.Context, authorization string, id int64) error
}
