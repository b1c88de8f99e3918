package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
)

type SearchLogRepo struct {
	db *DB
}

func NewSearchLogRepo(db *DB) *SearchLogRepo {
	return &SearchLogRepo{db: db}
}

func (r *SearchLogRepo) Insert(ctx context.Context, entry *domain.SearchLogEntry) error {
	query := `
        INSERT INTO search_logs (client_token, ip, user_agent, query, targeted_query,
            search_type, locality, country, result_count, success, error_message, status_code)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING id, created_at
    `

	err := r.db.Pool.QueryRow(ctx, query,
		entry.ClientToken,
		entry.IP,
		entry.UserAgent,
		entry.Query,
		entry.TargetedQuery,
		entry.SearchType,
		entry.Locality,
		entry.Country,
		entry.ResultCount,
		entry.Success,
		entry.ErrorMessage,
		entry.StatusCode,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert search log: %w", err)
	}

	return nil
}

func (r *SearchLogRepo) CountClientSuccessSince(ctx context.Context, token string, since time.Time) (int, error) {
	query := `
        SELECT COUNT(*) FROM search_logs
        WHERE client_token = $1 AND success AND created_at >= $2
    `

	var count int
	err := r.db.Pool.QueryRow(ctx, query, token, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count client success: %w", err)
	}

	return count, nil
}

func (r *SearchLogRepo) CountSuccessSince(ctx context.Context, since time.Time) (int, error) {
	query := `SELECT COUNT(*) FROM search_logs WHERE success AND created_at >= $1`

	var count int
	err := r.db.Pool.QueryRow(ctx, query, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count success since: %w", err)
	}

	return count, nil
}

func (r *SearchLogRepo) List(ctx context.Context, limit, offset int) ([]domain.SearchLogEntry, error) {
	query := `
        SELECT id, client_token, ip, user_agent, query, targeted_query,
            search_type, locality, country, result_count, success, error_message,
            status_code, created_at
        FROM search_logs
        ORDER BY id DESC
        LIMIT $1 OFFSET $2
    `

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list search logs: %w", err)
	}
	defer rows.Close()

	var entries []domain.SearchLogEntry
	for rows.Next() {
		var e domain.SearchLogEntry
		err := rows.Scan(
			&e.ID,
			&e.ClientToken,
			&e.IP,
			&e.UserAgent,
			&e.Query,
			&e.TargetedQuery,
			&e.SearchType,
			&e.Locality,
			&e.Country,
			&e.ResultCount,
			&e.Success,
			&e.ErrorMessage,
			&e.StatusCode,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan search log: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return entries, nil
}

func (r *SearchLogRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM search_logs`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count search logs: %w", err)
	}

	return count, nil
}

func (r *SearchLogRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	query := `SELECT COUNT(*) FROM search_logs WHERE created_at >= $1`

	var count int64
	err := r.db.Pool.QueryRow(ctx, query, since).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count since: %w", err)
	}

	return count, nil
}

func (r *SearchLogRepo) DistinctClients(ctx context.Context) (int64, error) {
	query := `SELECT COUNT(DISTINCT client_token) FROM search_logs WHERE client_token <> ''`

	var count int64
	err := r.db.Pool.QueryRow(ctx, query).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count distinct clients: %w", err)
	}

	return count, nil
}

func (r *SearchLogRepo) TopQueries(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	query := `
        SELECT query, COUNT(*) AS cnt FROM search_logs
        WHERE query <> ''
        GROUP BY query
        ORDER BY cnt DESC, query ASC
        LIMIT $1
    `

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	defer rows.Close()

	var result []domain.QueryCount
	for rows.Next() {
		var qc domain.QueryCount
		if err := rows.Scan(&qc.Query, &qc.Count); err != nil {
			return nil, fmt.Errorf("scan query count: %w", err)
		}
		result = append(result, qc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *SearchLogRepo) TopCountries(ctx context.Context, limit int) ([]domain.CountryCount, error) {
	query := `
        SELECT country, COUNT(*) AS cnt FROM search_logs
        WHERE country <> ''
        GROUP BY country
        ORDER BY cnt DESC, country ASC
        LIMIT $1
    `

	rows, err := r.db.Pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("top countries: %w", err)
	}
	defer rows.Close()

	var result []domain.CountryCount
	for rows.Next() {
		var cc domain.CountryCount
		if err := rows.Scan(&cc.Country, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan country count: %w", err)
		}
		result = append(result, cc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *SearchLogRepo) DailyCounts(ctx context.Context, days int) ([]domain.DayCount, error) {
	query := `
        SELECT date_trunc('day', created_at) AS day, COUNT(*) AS cnt
        FROM search_logs
        WHERE created_at >= date_trunc('day', NOW()) - ($1 - 1) * INTERVAL '1 day'
        GROUP BY day
        ORDER BY day ASC
    `

	rows, err := r.db.Pool.Query(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("daily counts: %w", err)
	}
	defer rows.Close()

	var result []domain.DayCount
	for rows.Next() {
		var dc domain.DayCount
		if err := rows.Scan(&dc.Day, &dc.Count); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		result = append(result, dc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}

func (r *SearchLogRepo) ClientUsageSince(ctx context.Context, since time.Time) ([]domain.ClientUsage, error) {
	query := `
        SELECT l.client_token, COUNT(*) AS used,
            COALESCE(c.daily_quota, 0), COALESCE(c.unlimited, false)
        FROM search_logs l
        LEFT JOIN clients c ON c.token = l.client_token
        WHERE l.success AND l.client_token <> '' AND l.created_at >= $1
        GROUP BY l.client_token, c.daily_quota, c.unlimited
        ORDER BY used DESC
    `

	rows, err := r.db.Pool.Query(ctx, query, since)
	if err != nil {
		return nil, fmt.Errorf("client usage: %w", err)
	}
	defer rows.Close()

	var result []domain.ClientUsage
	for rows.Next() {
		var cu domain.ClientUsage
		if err := rows.Scan(&cu.Token, &cu.Used, &cu.DailyQuota, &cu.Unlimited); err != nil {
			return nil, fmt.Errorf("scan client usage: %w", err)
		}
		result = append(result, cu)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return result, nil
}
