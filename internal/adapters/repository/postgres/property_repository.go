package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vncsmyrnk/estate/internal/core/domain"
	"github.com/vncsmyrnk/estate/internal/core/ports"
)

const propertyColumns = `id, nom, description, type_de_bien, ville, proprietaire, pieces, created_at`

type propertyRepository struct {
	pool *pgxpool.Pool
}

func NewPropertyRepository(pool *pgxpool.Pool) ports.PropertyRepository {
	return &propertyRepository{pool: pool}
}

func (r *propertyRepository) Create(ctx context.Context, p *domain.Property) error {
	rooms, err := encodeRooms(p.Rooms)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO properties (nom, description, type_de_bien, ville, proprietaire, pieces)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb)
		RETURNING id, created_at
	`
	err = r.pool.QueryRow(ctx, query,
		p.Title, p.Description, p.Kind, p.City, p.OwnerID, rooms,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert property: %w", err)
	}
	return nil
}

// ListByCity matches ville exactly and returns rows in insertion order.
func (r *propertyRepository) ListByCity(ctx context.Context, city string) ([]*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE ville = $1 ORDER BY id`
	rows, err := r.pool.Query(ctx, query, city)
	if err != nil {
		return nil, fmt.Errorf("failed to list properties: %w", err)
	}
	defer rows.Close()

	properties := []*domain.Property{}
	for rows.Next() {
		p, err := scanProperty(rows)
		if err != nil {
			return nil, err
		}
		properties = append(properties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating properties: %w", err)
	}
	return properties, nil
}

func (r *propertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = $1`
	p, err := scanProperty(r.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPropertyNotFound
	}
	return p, err
}

func (r *propertyRepository) Update(ctx context.Context, p *domain.Property) error {
	rooms, err := encodeRooms(p.Rooms)
	if err != nil {
		return err
	}

	query := `
		UPDATE properties
		SET nom = $1, description = $2, type_de_bien = $3, ville = $4, pieces = $5::jsonb
		WHERE id = $6
	`
	tag, err := r.pool.Exec(ctx, query, p.Title, p.Description, p.Kind, p.City, rooms, p.ID)
	if err != nil {
		return fmt.Errorf("failed to update property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func (r *propertyRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM properties WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete property: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrPropertyNotFound
	}
	return nil
}

func scanProperty(row pgx.Row) (*domain.Property, error) {
	var (
		p     domain.Property
		rooms []byte
	)
	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.Kind, &p.City, &p.OwnerID, &rooms, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan property: %w", err)
	}

	p.Rooms = []domain.Room{}
	if len(rooms) > 0 {
		if err := json.Unmarshal(rooms, &p.Rooms); err != nil {
			return nil, fmt.Errorf("failed to decode pieces: %w", err)
		}
	}
	return &p, nil
}

func encodeRooms(rooms []domain.Room) (string, error) {
	if rooms == nil {
		rooms = []domain.Room{}
	}
	b, err := json.Marshal(rooms)
	if err != nil {
		return "", fmt.Errorf("failed to encode pieces: %w", err)
	}
	return string(b), nil
}
