package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	Pool *pgxpool.Pool
}

func New(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{Pool: pool}, nil
}

func (db *DB) Close() {
	db.Pool.Close()
}

func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// Migrate creates the two tables owned by this service. The schema has
// a single writer/reader, so idempotent DDL at startup is enough.
func (db *DB) Migrate(ctx context.Context) error {
	_, err := db.Pool.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS clients (
            id BIGSERIAL PRIMARY KEY,
            token TEXT NOT NULL UNIQUE,
            first_ip TEXT NOT NULL DEFAULT '',
            first_user_agent TEXT NOT NULL DEFAULT '',
            daily_quota INT NOT NULL DEFAULT 25,
            unlimited BOOLEAN NOT NULL DEFAULT false,
            unlimited_until TIMESTAMPTZ,
            self_subject TEXT NOT NULL DEFAULT '',
            active BOOLEAN NOT NULL DEFAULT true,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE TABLE IF NOT EXISTS search_logs (
            id BIGSERIAL PRIMARY KEY,
            client_token TEXT NOT NULL DEFAULT '',
            ip TEXT NOT NULL DEFAULT '',
            user_agent TEXT NOT NULL DEFAULT '',
            query TEXT NOT NULL DEFAULT '',
            targeted_query TEXT NOT NULL DEFAULT '',
            search_type TEXT NOT NULL DEFAULT '',
            locality TEXT NOT NULL DEFAULT '',
            country TEXT NOT NULL DEFAULT '',
            result_count INT NOT NULL DEFAULT 0,
            success BOOLEAN NOT NULL DEFAULT false,
            error_message TEXT NOT NULL DEFAULT '',
            status_code INT NOT NULL DEFAULT 0,
            created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        );
        CREATE INDEX IF NOT EXISTS idx_search_logs_token_created
            ON search_logs (client_token, created_at);
        CREATE INDEX IF NOT EXISTS idx_search_logs_created
            ON search_logs (created_at);
    `)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}
