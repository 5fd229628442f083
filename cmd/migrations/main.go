package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/vncsmyrnk/estate/internal/adapters/repository/postgres"
)

// Creates the postgres tables of one service ahead of its first start.
// Usage: migrations users|properties
func main() {
	if len(os.Args) < 2 {
		log.Fatal("a schema name is required: users or properties")
	}
	schema := os.Args[1]

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	connStr := os.Getenv("DATABASE_URL")
	if connStr == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrate(ctx, schema, connStr); err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Schema %q is up to date.\n", schema)
}

func migrate(ctx context.Context, schema, connStr string) error {
	switch schema {
	case "users":
		db, err := sql.Open("postgres", connStr)
		if err != nil {
			return err
		}
		defer db.Close()
		return postgres.EnsureUserSchema(ctx, db)

	case "properties":
		pool, err := pgxpool.New(ctx, connStr)
		if err != nil {
			return err
		}
		defer pool.Close()
		return postgres.EnsurePropertySchema(ctx, pool)

	default:
		return fmt.Errorf("unknown schema %q", schema)
	}
}
