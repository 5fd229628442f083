package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Tables are created on startup when absent; there are no versioned
// migrations.
const usersTable = `
CREATE TABLE IF NOT EXISTS users (
	id                BIGSERIAL PRIMARY KEY,
	email             VARCHAR(120) NOT NULL UNIQUE,
	password_hash     VARCHAR(128) NOT NULL,
	nom               VARCHAR(50)  NOT NULL,
	prenom            VARCHAR(50)  NOT NULL,
	date_de_naissance DATE         NOT NULL,
	created_at        TIMESTAMPTZ  NOT NULL DEFAULT NOW()
)`

const propertiesTable = `
CREATE TABLE IF NOT EXISTS properties (
	id           BIGSERIAL PRIMARY KEY,
	nom          TEXT        NOT NULL,
	description  TEXT        NOT NULL,
	type_de_bien TEXT        NOT NULL,
	ville        TEXT        NOT NULL,
	proprietaire BIGINT      NOT NULL,
	pieces       JSONB       NOT NULL DEFAULT '[]'::jsonb,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS properties_ville_idx ON properties (ville)`

func EnsureUserSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, usersTable); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}
	return nil
}

func EnsurePropertySchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, propertiesTable); err != nil {
		return fmt.Errorf("failed to create properties table: %w", err)
	}
	return nil
}
