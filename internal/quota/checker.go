package quota

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
	"github.com/kitbuilder587/osint-gateway/internal/repository"
)

// Decision is the outcome of a quota check: allow/deny plus the live
// usage ratio for the caller-facing status message.
type Decision struct {
	Allowed bool
	Used    int
	Limit   int
	Message string
}

// Checker enforces the per-client daily quota against the count of
// successful log rows since local midnight. It must run before the
// upstream call so denied requests never spend plan credits.
type Checker struct {
	clients      repository.ClientRepository
	logs         repository.SearchLogRepository
	monthlyQuota int
	now          func() time.Time
}

func NewChecker(clients repository.ClientRepository, logs repository.SearchLogRepository, monthlyQuota int) *Checker {
	return &Checker{
		clients:      clients,
		logs:         logs,
		monthlyQuota: monthlyQuota,
		now:          time.Now,
	}
}

// Check applies the decision order: unlimited flag, time-boxed
// unlimited window, then the daily count against the quota.
func (c *Checker) Check(ctx context.Context, token string) (Decision, error) {
	client, err := c.clients.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrClientNotFound) {
			return Decision{Message: "unknown client identity"}, domain.ErrClientNotFound
		}
		return Decision{}, fmt.Errorf("load client: %w", err)
	}

	if !client.Active {
		return Decision{Message: "client access disabled"}, domain.ErrClientInactive
	}

	now := c.now()
	if client.HasUnlimitedAccess(now) {
		return Decision{Allowed: true, Limit: client.DailyQuota, Message: "unlimited access"}, nil
	}

	used, err := c.logs.CountClientSuccessSince(ctx, token, startOfDay(now))
	if err != nil {
		return Decision{}, fmt.Errorf("count daily usage: %w", err)
	}

	ratio := fmt.Sprintf("%d/%d searches used today", used, client.DailyQuota)
	if used >= client.DailyQuota {
		return Decision{Used: used, Limit: client.DailyQuota, Message: "daily quota exceeded: " + ratio},
			fmt.Errorf("%w: %s", domain.ErrDailyQuotaExceeded, ratio)
	}

	return Decision{Allowed: true, Used: used, Limit: client.DailyQuota, Message: ratio}, nil
}

// CheckMonthly guards the upstream plan ceiling: total successful
// searches since the first of the month across all clients.
func (c *Checker) CheckMonthly(ctx context.Context) (int, error) {
	if c.monthlyQuota <= 0 {
		return 0, nil
	}

	used, err := c.logs.CountSuccessSince(ctx, startOfMonth(c.now()))
	if err != nil {
		return 0, fmt.Errorf("count monthly usage: %w", err)
	}

	if used >= c.monthlyQuota {
		return used, fmt.Errorf("%w: %d/%d this month", domain.ErrMonthlyQuotaExceeded, used, c.monthlyQuota)
	}

	return used, nil
}

func startOfDay(t time.Time) time.Time {
	year, month, day := t.Local().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func startOfMonth(t time.Time) time.Time {
	year, month, _ := t.Local().Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}
