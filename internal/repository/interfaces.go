package repository

import (
	"context"
	"time"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
)

type ClientRepository interface {
	// GetOrCreate resolves the identity behind a token, inserting a new
	// row with first-seen metadata when the token is unknown.
	GetOrCreate(ctx context.Context, token, ip, userAgent string, defaultQuota int) (*domain.ClientIdentity, error)
	GetByToken(ctx context.Context, token string) (*domain.ClientIdentity, error)
	Update(ctx context.Context, client *domain.ClientIdentity) error
	Count(ctx context.Context) (int64, error)
}

type SearchLogRepository interface {
	Insert(ctx context.Context, entry *domain.SearchLogEntry) error

	// quota accounting
	CountClientSuccessSince(ctx context.Context, token string, since time.Time) (int, error)
	CountSuccessSince(ctx context.Context, since time.Time) (int, error)

	// history listing
	List(ctx context.Context, limit, offset int) ([]domain.SearchLogEntry, error)
	Count(ctx context.Context) (int64, error)

	// usage reporting
	CountSince(ctx context.Context, since time.Time) (int64, error)
	DistinctClients(ctx context.Context) (int64, error)
	TopQueries(ctx context.Context, limit int) ([]domain.QueryCount, error)
	TopCountries(ctx context.Context, limit int) ([]domain.CountryCount, error)
	DailyCounts(ctx context.Context, days int) ([]domain.DayCount, error)
	ClientUsageSince(ctx context.Context, since time.Time) ([]domain.ClientUsage, error)
}
