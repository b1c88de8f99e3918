package service

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
	"github.com/kitbuilder587/osint-gateway/internal/metrics"
	"github.com/kitbuilder587/osint-gateway/internal/normalize"
	"github.com/kitbuilder587/osint-gateway/internal/quota"
	"github.com/kitbuilder587/osint-gateway/internal/repository"
	"github.com/kitbuilder587/osint-gateway/internal/search"
	"github.com/kitbuilder587/osint-gateway/internal/targeting"
)

// SearchRequest is a search attempt on behalf of an already-resolved
// client identity.
type SearchRequest struct {
	Client    *domain.ClientIdentity
	IP        string
	UserAgent string
	Query     domain.SearchQuery
}

type SearchService interface {
	Process(ctx context.Context, req *SearchRequest) (*normalize.ResultSet, error)
}

type SearchConfig struct {
	ResultCount int
}

type SearchDeps struct {
	Logs      repository.SearchLogRepository
	Upstream  search.Client
	Targeting *targeting.Engine
	Quota     *quota.Checker
	Burst     *quota.BurstLimiter
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Config    SearchConfig
}

type searchService struct {
	logs      repository.SearchLogRepository
	upstream  search.Client
	targeting *targeting.Engine
	quota     *quota.Checker
	burst     *quota.BurstLimiter
	logger    *zap.Logger
	metrics   *metrics.Metrics
	config    SearchConfig
}

func NewSearchService(deps SearchDeps) SearchService {
	if deps.Config.ResultCount == 0 {
		deps.Config.ResultCount = 10
	}

	return &searchService{
		logs:      deps.Logs,
		upstream:  deps.Upstream,
		targeting: deps.Targeting,
		quota:     deps.Quota,
		burst:     deps.Burst,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		config:    deps.Config,
	}
}

// Process runs the full pipeline: burst check, quota check, payload
// validation, targeting, upstream call, normalization. Every terminal
// branch writes exactly one SearchLogEntry before returning.
func (s *searchService) Process(ctx context.Context, req *SearchRequest) (*normalize.ResultSet, error) {
	if s.metrics != nil {
		s.metrics.IncRequestsInFlight()
		defer s.metrics.DecRequestsInFlight()
	}

	entry := &domain.SearchLogEntry{
		ClientToken: req.Client.Token,
		IP:          req.IP,
		UserAgent:   req.UserAgent,
		Query:       req.Query.Query,
		SearchType:  req.Query.SearchType,
		Locality:    req.Query.Locality,
		Country:     req.Query.Country,
	}

	if s.burst != nil && !s.burst.Allow(req.Client.Token) {
		if s.metrics != nil {
			s.metrics.RecordQuotaDenial("burst")
		}
		return nil, s.fail(ctx, entry, domain.ErrBurstLimited)
	}

	decision, err := s.quota.Check(ctx, req.Client.Token)
	if err != nil {
		if s.metrics != nil && errors.Is(err, domain.ErrDailyQuotaExceeded) {
			s.metrics.RecordQuotaDenial("daily")
		}
		entry.ErrorMessage = decision.Message
		return nil, s.fail(ctx, entry, err)
	}

	if _, err := s.quota.CheckMonthly(ctx); err != nil {
		if s.metrics != nil && errors.Is(err, domain.ErrMonthlyQuotaExceeded) {
			s.metrics.RecordQuotaDenial("monthly")
		}
		return nil, s.fail(ctx, entry, err)
	}

	if err := req.Query.Validate(); err != nil {
		return nil, s.fail(ctx, entry, err)
	}
	req.Query.Sanitize()
	entry.SearchType = req.Query.SearchType

	target, err := s.targeting.Target(req.Query, req.Client.SelfSubject)
	if err != nil {
		return nil, s.fail(ctx, entry, err)
	}
	entry.TargetedQuery = target.TargetedQuery
	entry.Country = target.Country

	s.logger.Info("dispatching search",
		zap.String("client_token", req.Client.Token),
		zap.String("search_type", req.Query.SearchType),
		zap.String("country", target.Country),
		zap.String("quota_usage", decision.Message),
	)

	upstreamStart := time.Now()
	doc, err := s.upstream.Search(ctx, search.Request{
		Query:   target.TargetedQuery,
		Country: target.Country,
		Num:     s.config.ResultCount,
	})
	if s.metrics != nil {
		outcome := "success"
		if err != nil {
			outcome = "error"
		}
		s.metrics.RecordUpstreamRequest(outcome, time.Since(upstreamStart))
	}
	if err != nil {
		return nil, s.fail(ctx, entry, err)
	}

	result := normalize.Normalize(doc, req.Query.Query, target.Country)

	entry.ResultCount = result.TotalResults()
	entry.Success = true
	entry.StatusCode = http.StatusOK
	s.writeLog(ctx, entry)

	if s.metrics != nil {
		s.metrics.RecordSearch(req.Query.SearchType, target.Country, "200")
	}

	s.logger.Info("search completed",
		zap.String("client_token", req.Client.Token),
		zap.Int("result_count", entry.ResultCount),
	)

	return result, nil
}

// fail records the attempt and hands the error back unchanged, so the
// HTTP layer maps it to a status with StatusFor.
func (s *searchService) fail(ctx context.Context, entry *domain.SearchLogEntry, err error) error {
	entry.Success = false
	entry.StatusCode = StatusFor(err)
	if entry.ErrorMessage == "" {
		entry.ErrorMessage = err.Error()
	}
	s.writeLog(ctx, entry)

	if s.metrics != nil {
		s.metrics.RecordSearch(entry.SearchType, entry.Country, strconv.Itoa(entry.StatusCode))
	}

	return err
}

func (s *searchService) writeLog(ctx context.Context, entry *domain.SearchLogEntry) {
	if err := s.logs.Insert(ctx, entry); err != nil {
		s.logger.Error("failed to write search log",
			zap.Error(err),
			zap.String("client_token", entry.ClientToken),
		)
	}
}

// StatusFor maps each failure kind to exactly one HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrEmptyQuery),
		errors.Is(err, domain.ErrQueryTooLong),
		errors.Is(err, domain.ErrSelfSubjectNotSet):
		return http.StatusBadRequest
	case errors.Is(err, search.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, search.ErrForbidden),
		errors.Is(err, domain.ErrClientInactive):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrDailyQuotaExceeded),
		errors.Is(err, domain.ErrMonthlyQuotaExceeded),
		errors.Is(err, domain.ErrBurstLimited),
		errors.Is(err, domain.ErrClientNotFound),
		errors.Is(err, search.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, search.ErrTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
