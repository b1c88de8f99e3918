package quota

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
	"github.com/kitbuilder587/osint-gateway/internal/repository"
)

func seedClient(t *testing.T, clients *repository.MockClientRepository, quota int, mutate func(*domain.ClientIdentity)) string {
	t.Helper()
	ctx := context.Background()

	client, err := clients.GetOrCreate(ctx, "tok-test", "127.0.0.1", "test", quota)
	if err != nil {
		t.Fatalf("GetOrCreate() error = %v", err)
	}
	if mutate != nil {
		mutate(client)
		if err := clients.Update(ctx, client); err != nil {
			t.Fatalf("Update() error = %v", err)
		}
	}
	return client.Token
}

func seedSuccesses(t *testing.T, logs *repository.MockSearchLogRepository, token string, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		err := logs.Insert(context.Background(), &domain.SearchLogEntry{
			ClientToken: token,
			Success:     true,
			StatusCode:  200,
		})
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
	}
}

func TestChecker_Check_UnderQuota(t *testing.T) {
	clients := repository.NewMockClientRepository()
	logs := repository.NewMockSearchLogRepository()
	token := seedClient(t, clients, 5, nil)
	seedSuccesses(t, logs, token, 4)

	checker := NewChecker(clients, logs, 0)

	decision, err := checker.Check(context.Background(), token)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed {
		t.Error("Check() allowed = false, want true with 4/5 used")
	}
	if decision.Used != 4 || decision.Limit != 5 {
		t.Errorf("Check() usage = %d/%d, want 4/5", decision.Used, decision.Limit)
	}
	if decision.Message != "4/5 searches used today" {
		t.Errorf("Check() message = %q", decision.Message)
	}
}

func TestChecker_Check_AtQuota(t *testing.T) {
	clients := repository.NewMockClientRepository()
	logs := repository.NewMockSearchLogRepository()
	token := seedClient(t, clients, 5, nil)
	seedSuccesses(t, logs, token, 5)

	checker := NewChecker(clients, logs, 0)

	decision, err := checker.Check(context.Background(), token)
	if !errors.Is(err, domain.ErrDailyQuotaExceeded) {
		t.Fatalf("Check() error = %v, want ErrDailyQuotaExceeded", err)
	}
	if decision.Allowed {
		t.Error("Check() allowed = true, want false at quota")
	}
	if decision.Message != "daily quota exceeded: 5/5 searches used today" {
		t.Errorf("Check() message = %q", decision.Message)
	}
}

func TestChecker_Check_FailuresDoNotCount(t *testing.T) {
	clients := repository.NewMockClientRepository()
	logs := repository.NewMockSearchLogRepository()
	token := seedClient(t, clients, 2, nil)
	seedSuccesses(t, logs, token, 1)

	// failed attempts must not consume the quota
	for i := 0; i < 10; i++ {
		logs.Insert(context.Background(), &domain.SearchLogEntry{
			ClientToken: token,
			Success:     false,
			StatusCode:  500,
		})
	}

	checker := NewChecker(clients, logs, 0)

	decision, err := checker.Check(context.Background(), token)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed || decision.Used != 1 {
		t.Errorf("Check() = %+v, want allowed with 1 used", decision)
	}
}

func TestChecker_Check_Unlimited(t *testing.T) {
	clients := repository.NewMockClientRepository()
	logs := repository.NewMockSearchLogRepository()
	token := seedClient(t, clients, 1, func(c *domain.ClientIdentity) {
		c.Unlimited = true
	})
	seedSuccesses(t, logs, token, 100)

	checker := NewChecker(clients, logs, 0)

	decision, err := checker.Check(context.Background(), token)
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if !decision.Allowed {
		t.Error("Check() allowed = false, want true for unlimited client")
	}
}

func TestChecker_Check_UnlimitedUntil(t *testing.T) {
	tests := []struct {
		name      string
		until     time.Duration
		wantAllow bool
	}{
		{"window in future", time.Hour, true},
		{"window expired", -time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients := repository.NewMockClientRepository()
			logs := repository.NewMockSearchLogRepository()
			until := time.Now().Add(tt.until)
			token := seedClient(t, clients, 1, func(c *domain.ClientIdentity) {
				c.UnlimitedUntil = &until
			})
			seedSuccesses(t, logs, token, 1)

			checker := NewChecker(clients, logs, 0)

			decision, err := checker.Check(context.Background(), token)
			if decision.Allowed != tt.wantAllow {
				t.Errorf("Check() allowed = %v, want %v (err %v)", decision.Allowed, tt.wantAllow, err)
			}
		})
	}
}

func TestChecker_Check_UnknownClient(t *testing.T) {
	checker := NewChecker(repository.NewMockClientRepository(), repository.NewMockSearchLogRepository(), 0)

	decision, err := checker.Check(context.Background(), "no-such-token")
	if !errors.Is(err, domain.ErrClientNotFound) {
		t.Fatalf("Check() error = %v, want ErrClientNotFound", err)
	}
	if decision.Allowed {
		t.Error("Check() allowed = true, want false for unknown client")
	}
	if decision.Message != "unknown client identity" {
		t.Errorf("Check() message = %q", decision.Message)
	}
}

func TestChecker_Check_InactiveClient(t *testing.T) {
	clients := repository.NewMockClientRepository()
	logs := repository.NewMockSearchLogRepository()
	token := seedClient(t, clients, 5, func(c *domain.ClientIdentity) {
		c.Active = false
	})

	checker := NewChecker(clients, logs, 0)

	_, err := checker.Check(context.Background(), token)
	if !errors.Is(err, domain.ErrClientInactive) {
		t.Errorf("Check() error = %v, want ErrClientInactive", err)
	}
}

func TestChecker_CheckMonthly(t *testing.T) {
	clients := repository.NewMockClientRepository()
	logs := repository.NewMockSearchLogRepository()
	token := seedClient(t, clients, 100, nil)
	seedSuccesses(t, logs, token, 3)

	t.Run("under ceiling", func(t *testing.T) {
		checker := NewChecker(clients, logs, 5)
		used, err := checker.CheckMonthly(context.Background())
		if err != nil {
			t.Fatalf("CheckMonthly() error = %v", err)
		}
		if used != 3 {
			t.Errorf("CheckMonthly() used = %d, want 3", used)
		}
	})

	t.Run("at ceiling", func(t *testing.T) {
		checker := NewChecker(clients, logs, 3)
		_, err := checker.CheckMonthly(context.Background())
		if !errors.Is(err, domain.ErrMonthlyQuotaExceeded) {
			t.Errorf("CheckMonthly() error = %v, want ErrMonthlyQuotaExceeded", err)
		}
	})

	t.Run("disabled ceiling", func(t *testing.T) {
		checker := NewChecker(clients, logs, 0)
		if _, err := checker.CheckMonthly(context.Background()); err != nil {
			t.Errorf("CheckMonthly() error = %v, want nil when disabled", err)
		}
	})
}
