package service

import (
	"context"
	"fmt"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
	"github.com/kitbuilder587/osint-gateway/internal/repository"
)

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

// HistoryPage is one page of the audit trail, newest first.
type HistoryPage struct {
	Entries []domain.SearchLogEntry
	Page    int
	PerPage int
	Total   int64
}

type HistoryService interface {
	List(ctx context.Context, page, perPage int) (*HistoryPage, error)
}

type historyService struct {
	logs repository.SearchLogRepository
}

func NewHistoryService(logs repository.SearchLogRepository) HistoryService {
	return &historyService{logs: logs}
}

func (s *historyService) List(ctx context.Context, page, perPage int) (*HistoryPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	total, err := s.logs.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count search logs: %w", err)
	}

	entries, err := s.logs.List(ctx, perPage, (page-1)*perPage)
	if err != nil {
		return nil, fmt.Errorf("list search logs: %w", err)
	}

	return &HistoryPage{
		Entries: entries,
		Page:    page,
		PerPage: perPage,
		Total:   total,
	}, nil
}
