package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
)

type MockClientRepository struct {
	mu      sync.RWMutex
	clients map[string]*domain.ClientIdentity // key: token
	nextID  int64
}

func NewMockClientRepository() *MockClientRepository {
	return &MockClientRepository{
		clients: make(map[string]*domain.ClientIdentity),
		nextID:  1,
	}
}

func (m *MockClientRepository) GetOrCreate(ctx context.Context, token, ip, userAgent string, defaultQuota int) (*domain.ClientIdentity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if client, exists := m.clients[token]; exists {
		return cloneClient(client), nil
	}

	client := &domain.ClientIdentity{
		ID:             m.nextID,
		Token:          token,
		FirstIP:        ip,
		FirstUserAgent: userAgent,
		DailyQuota:     defaultQuota,
		Active:         true,
		CreatedAt:      time.Now(),
	}
	m.nextID++
	m.clients[token] = client
	return cloneClient(client), nil
}

func (m *MockClientRepository) GetByToken(ctx context.Context, token string) (*domain.ClientIdentity, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if client, exists := m.clients[token]; exists {
		return cloneClient(client), nil
	}
	return nil, domain.ErrClientNotFound
}

func (m *MockClientRepository) Update(ctx context.Context, client *domain.ClientIdentity) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.clients[client.Token]; !exists {
		return domain.ErrClientNotFound
	}
	m.clients[client.Token] = cloneClient(client)
	return nil
}

func (m *MockClientRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.clients)), nil
}

func cloneClient(c *domain.ClientIdentity) *domain.ClientIdentity {
	cp := *c
	if c.UnlimitedUntil != nil {
		until := *c.UnlimitedUntil
		cp.UnlimitedUntil = &until
	}
	return &cp
}

type MockSearchLogRepository struct {
	mu      sync.RWMutex
	entries []domain.SearchLogEntry
	nextID  int64
}

func NewMockSearchLogRepository() *MockSearchLogRepository {
	return &MockSearchLogRepository{nextID: 1}
}

func (m *MockSearchLogRepository) Insert(ctx context.Context, entry *domain.SearchLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry.ID = m.nextID
	m.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *MockSearchLogRepository) CountClientSuccessSince(ctx context.Context, token string, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, e := range m.entries {
		if e.ClientToken == token && e.Success && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockSearchLogRepository) CountSuccessSince(ctx context.Context, since time.Time) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	count := 0
	for _, e := range m.entries {
		if e.Success && !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockSearchLogRepository) List(ctx context.Context, limit, offset int) ([]domain.SearchLogEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// newest first, matching the postgres ORDER BY
	sorted := make([]domain.SearchLogEntry, len(m.entries))
	copy(sorted, m.entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	if offset >= len(sorted) {
		return nil, nil
	}
	sorted = sorted[offset:]
	if limit < len(sorted) {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

func (m *MockSearchLogRepository) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.entries)), nil
}

func (m *MockSearchLogRepository) CountSince(ctx context.Context, since time.Time) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var count int64
	for _, e := range m.entries {
		if !e.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (m *MockSearchLogRepository) DistinctClients(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]bool)
	for _, e := range m.entries {
		if e.ClientToken != "" {
			seen[e.ClientToken] = true
		}
	}
	return int64(len(seen)), nil
}

func (m *MockSearchLogRepository) TopQueries(ctx context.Context, limit int) ([]domain.QueryCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range m.entries {
		q := strings.TrimSpace(e.Query)
		if q != "" {
			counts[q]++
		}
	}
	return topCounts(counts, limit, func(k string, v int64) domain.QueryCount {
		return domain.QueryCount{Query: k, Count: v}
	}), nil
}

func (m *MockSearchLogRepository) TopCountries(ctx context.Context, limit int) ([]domain.CountryCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	counts := make(map[string]int64)
	for _, e := range m.entries {
		if e.Country != "" {
			counts[e.Country]++
		}
	}
	return topCounts(counts, limit, func(k string, v int64) domain.CountryCount {
		return domain.CountryCount{Country: k, Count: v}
	}), nil
}

func (m *MockSearchLogRepository) DailyCounts(ctx context.Context, days int) ([]domain.DayCount, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cutoff := startOfDay(time.Now()).AddDate(0, 0, -(days - 1))
	byDay := make(map[time.Time]int64)
	for _, e := range m.entries {
		day := startOfDay(e.CreatedAt)
		if day.Before(cutoff) {
			continue
		}
		byDay[day]++
	}

	result := make([]domain.DayCount, 0, len(byDay))
	for day, count := range byDay {
		result = append(result, domain.DayCount{Day: day, Count: count})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Day.Before(result[j].Day) })
	return result, nil
}

func (m *MockSearchLogRepository) ClientUsageSince(ctx context.Context, since time.Time) ([]domain.ClientUsage, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byToken := make(map[string]int64)
	for _, e := range m.entries {
		if e.Success && e.ClientToken != "" && !e.CreatedAt.Before(since) {
			byToken[e.ClientToken]++
		}
	}

	result := make([]domain.ClientUsage, 0, len(byToken))
	for token, used := range byToken {
		result = append(result, domain.ClientUsage{Token: token, Used: used})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Used > result[j].Used })
	return result, nil
}

func topCounts[T any](counts map[string]int64, limit int, build func(string, int64) T) []T {
	type kv struct {
		key   string
		count int64
	}
	pairs := make([]kv, 0, len(counts))
	for k, v := range counts {
		pairs = append(pairs, kv{k, v})
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].count != pairs[j].count {
			return pairs[i].count > pairs[j].count
		}
		return pairs[i].key < pairs[j].key
	})
	if limit > 0 && len(pairs) > limit {
		pairs = pairs[:limit]
	}
	result := make([]T, len(pairs))
	for i, p := range pairs {
		result[i] = build(p.key, p.count)
	}
	return result
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}
