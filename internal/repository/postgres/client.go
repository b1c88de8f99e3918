package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/kitbuilder587/osint-gateway/internal/domain"
)

type ClientRepo struct {
	db *DB
}

func NewClientRepo(db *DB) *ClientRepo {
	return &ClientRepo{db: db}
}

const clientColumns = `id, token, first_ip, first_user_agent, daily_quota,
        unlimited, unlimited_until, self_subject, active, created_at`

// GetOrCreate inserts a fresh identity for an unseen token. The UNIQUE
// constraint on token plus ON CONFLICT makes two racing first requests
// collapse into a single row; first-seen metadata is never overwritten.
func (r *ClientRepo) GetOrCreate(ctx context.Context, token, ip, userAgent string, defaultQuota int) (*domain.ClientIdentity, error) {
	query := `
        INSERT INTO clients (token, first_ip, first_user_agent, daily_quota)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (token) DO UPDATE SET token = EXCLUDED.token
        RETURNING ` + clientColumns

	client, err := r.scanClient(r.db.Pool.QueryRow(ctx, query, token, ip, userAgent, defaultQuota))
	if err != nil {
		return nil, fmt.Errorf("get or create client: %w", err)
	}

	return client, nil
}

func (r *ClientRepo) GetByToken(ctx context.Context, token string) (*domain.ClientIdentity, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE token = $1`

	client, err := r.scanClient(r.db.Pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrClientNotFound
		}
		return nil, fmt.Errorf("get client by token: %w", err)
	}

	return client, nil
}

func (r *ClientRepo) Update(ctx context.Context, client *domain.ClientIdentity) error {
	query := `
        UPDATE clients
        SET daily_quota = $2, unlimited = $3, unlimited_until = $4,
            self_subject = $5, active = $6
        WHERE token = $1
    `

	result, err := r.db.Pool.Exec(ctx, query,
		client.Token,
		client.DailyQuota,
		client.Unlimited,
		client.UnlimitedUntil,
		client.SelfSubject,
		client.Active,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}

	if result.RowsAffected() == 0 {
		return domain.ErrClientNotFound
	}

	return nil
}

func (r *ClientRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count clients: %w", err)
	}

	return count, nil
}

func (r *ClientRepo) scanClient(row pgx.Row) (*domain.ClientIdentity, error) {
	var c domain.ClientIdentity
	err := row.Scan(
		&c.ID,
		&c.Token,
		&c.FirstIP,
		&c.FirstUserAgent,
		&c.DailyQuota,
		&c.Unlimited,
		&c.UnlimitedUntil,
		&c.SelfSubject,
		&c.Active,
		&c.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
