package service

import (
	"context"
	"fmt"
	"time"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
	"github.com/kitbuilder587/osint-gateway/internal/repository"
)

const (
	topLimit       = 10
	dailySeriesLen = 14
)

type StatsService interface {
	Usage(ctx context.Context) (*domain.UsageStats, error)
}

type statsService struct {
	logs repository.SearchLogRepository
	now  func() time.Time
}

func NewStatsService(logs repository.SearchLogRepository) StatsService {
	return &statsService{logs: logs, now: time.Now}
}

func (s *statsService) Usage(ctx context.Context) (*domain.UsageStats, error) {
	stats := &domain.UsageStats{}

	total, err := s.logs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count searches: %w", err)
	}
	stats.TotalSearches = total

	success, err := s.logs.CountSuccessSince(ctx, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("count successful searches: %w", err)
	}
	stats.SuccessSearches = int64(success)

	midnight := startOfDay(s.now())
	today, err := s.logs.CountSince(ctx, midnight)
	if err != nil {
		return nil, fmt.Errorf("count today's searches: %w", err)
	}
	stats.TodaySearches = today

	clients, err := s.logs.DistinctClients(ctx)
	if err != nil {
		return nil, fmt.Errorf("count distinct clients: %w", err)
	}
	stats.DistinctClients = clients

	if stats.TopQueries, err = s.logs.TopQueries(ctx, topLimit); err != nil {
		return nil, fmt.Errorf("top queries: %w", err)
	}
	if stats.TopCountries, err = s.logs.TopCountries(ctx, topLimit); err != nil {
		return nil, fmt.Errorf("top countries: %w", err)
	}
	if stats.DailySeries, err = s.logs.DailyCounts(ctx, dailySeriesLen); err != nil {
		return nil, fmt.Errorf("daily series: %w", err)
	}
	if stats.ClientsToday, err = s.logs.ClientUsageSince(ctx, midnight); err != nil {
		return nil, fmt.Errorf("client usage: %w", err)
	}

	return stats, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}
