package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-gateway/internal/config"
	"github.com/kitbuilder587/osint-gateway/internal/domain"
	"github.com/kitbuilder587/osint-gateway/internal/identity"
	"github.com/kitbuilder587/osint-gateway/internal/quota"
	"github.com/kitbuilder587/osint-gateway/internal/repository"
	"github.com/kitbuilder587/osint-gateway/internal/search"
	"github.com/kitbuilder587/osint-gateway/internal/search/mock"
	"github.com/kitbuilder587/osint-gateway/internal/service"
	"github.com/kitbuilder587/osint-gateway/internal/targeting"
)

type stubPinger struct {
	err error
}

func (p *stubPinger) Ping(ctx context.Context) error { return p.err }

type fixture struct {
	router   *gin.Engine
	clients  *repository.MockClientRepository
	logs     *repository.MockSearchLogRepository
	upstream *mock.Client
	pinger   *stubPinger
	cfg      *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Addr: ":0"},
		SerpAPI: config.SerpAPIConfig{
			APIKey:      "test-key",
			ResultCount: 10,
		},
		Quota: config.QuotaConfig{DefaultDaily: 25},
		Admin: config.AdminConfig{
			Password:      "hunter2",
			SessionSecret: "session-secret",
			SessionTTL:    time.Hour,
		},
		Log: config.LogConfig{Level: "error"},
	}

	logger := zap.NewNop()
	clients := repository.NewMockClientRepository()
	logs := repository.NewMockSearchLogRepository()
	upstream := mock.New()
	upstream.Document = search.Document{
		"organic_results": []any{
			map[string]any{"position": float64(1), "title": "result", "link": "https://example.com"},
		},
	}
	pinger := &stubPinger{}
	engine := targeting.NewEngine()

	router := NewRouter(Deps{
		Config:   cfg,
		Logger:   logger,
		Resolver: identity.NewResolver(clients, cfg.Quota.DefaultDaily, logger),
		Search: service.NewSearchService(service.SearchDeps{
			Logs:      logs,
			Upstream:  upstream,
			Targeting: engine,
			Quota:     quota.NewChecker(clients, logs, cfg.SerpAPI.MonthlyQuota),
			Logger:    logger,
			Config:    service.SearchConfig{ResultCount: cfg.SerpAPI.ResultCount},
		}),
		History:   service.NewHistoryService(logs),
		Stats:     service.NewStatsService(logs),
		Targeting: engine,
		Clients:   clients,
		DB:        pinger,
	})

	return &fixture{
		router:   router,
		clients:  clients,
		logs:     logs,
		upstream: upstream,
		pinger:   pinger,
		cfg:      cfg,
	}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v (body: %s)", err, rec.Body.String())
	}
	return body
}

func TestSearchEndpoint_Success(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"query": "John Smith", "searchType": "criminal"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := f.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	organic, ok := body["organic_results"].([]any)
	if !ok || len(organic) != 1 {
		t.Errorf("organic_results = %v", body["organic_results"])
	}

	var minted bool
	for _, c := range rec.Result().Cookies() {
		if c.Name == clientTokenCookie && c.Value != "" {
			minted = true
		}
	}
	if !minted {
		t.Error("first request should set a client_token cookie")
	}

	upReq, ok := f.upstream.LastRequest()
	if !ok {
		t.Fatal("upstream never called")
	}
	want := `"John Smith" (arrest OR criminal OR conviction OR mugshot OR court)`
	if upReq.Query != want {
		t.Errorf("upstream query = %q, want %q", upReq.Query, want)
	}
}

func TestSearchEndpoint_HeaderToken(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/search",
		strings.NewReader(`{"query": "test"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(clientTokenHeader, "existing-token")

	rec := f.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	for _, c := range rec.Result().Cookies() {
		if c.Name == clientTokenCookie {
			t.Error("known token must not mint a new cookie")
		}
	}

	if _, err := f.clients.GetByToken(context.Background(), "existing-token"); err != nil {
		t.Errorf("client row missing for header token: %v", err)
	}
}

func TestSearchEndpoint_FormPayload(t *testing.T) {
	f := newFixture(t)

	form := url.Values{"query": {"Jane Doe"}, "country": {"ca"}, "state": {"Ontario"}}
	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := f.do(req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	upReq, _ := f.upstream.LastRequest()
	if upReq.Country != "ca" {
		t.Errorf("country = %q, want ca", upReq.Country)
	}
	if !strings.HasSuffix(upReq.Query, " Ontario") {
		t.Errorf("query = %q, want locality appended", upReq.Query)
	}
}

func TestSearchEndpoint_EmptyQuery(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query": ""}`))
	req.Header.Set("Content-Type", "application/json")

	rec := f.do(req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	body := decodeJSON(t, rec)
	if body["error"] == "" {
		t.Error("error message missing")
	}

	count, _ := f.logs.Count(context.Background())
	if count != 1 {
		t.Errorf("log rows = %d, validation failure must still be logged", count)
	}
}

func TestSearchEndpoint_QuotaExceeded(t *testing.T) {
	f := newFixture(t)

	client, _ := f.clients.GetOrCreate(context.Background(), "tok-1", "ip", "ua", 1)
	f.logs.Insert(context.Background(), &domain.SearchLogEntry{
		ClientToken: client.Token,
		Success:     true,
	})

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query": "blocked"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(clientTokenHeader, "tok-1")

	rec := f.do(req)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429 (body: %s)", rec.Code, rec.Body.String())
	}

	body := decodeJSON(t, rec)
	msg, _ := body["error"].(string)
	if !strings.Contains(msg, "1/1") {
		t.Errorf("error = %q, want usage ratio", msg)
	}
}

func TestSearchEndpoint_UpstreamTimeout(t *testing.T) {
	f := newFixture(t)
	f.upstream.Err = search.ErrTimeout

	req := httptest.NewRequest(http.MethodPost, "/search", strings.NewReader(`{"query": "slow"}`))
	req.Header.Set("Content-Type", "application/json")

	rec := f.do(req)
	if rec.Code != http.StatusGatewayTimeout {
		t.Errorf("status = %d, want 504", rec.Code)
	}
}

func TestHistoryEndpoint(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 3; i++ {
		f.logs.Insert(context.Background(), &domain.SearchLogEntry{
			ClientToken: "tok-1",
			Query:       "q",
			Success:     true,
			StatusCode:  200,
		})
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/search-history?page=1&per_page=2", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeJSON(t, rec)
	searches, ok := body["searches"].([]any)
	if !ok || len(searches) != 2 {
		t.Errorf("searches = %v, want 2 entries", body["searches"])
	}
	if body["total"] != float64(3) {
		t.Errorf("total = %v, want 3", body["total"])
	}
	if body["total_pages"] != float64(2) {
		t.Errorf("total_pages = %v, want 2", body["total_pages"])
	}
}

func TestStatsEndpoint(t *testing.T) {
	f := newFixture(t)

	f.logs.Insert(context.Background(), &domain.SearchLogEntry{
		ClientToken: "tok-1",
		Query:       "jane doe",
		Country:     "us",
		Success:     true,
	})

	rec := f.do(httptest.NewRequest(http.MethodGet, "/search-stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeJSON(t, rec)
	for _, key := range []string{
		"total_searches", "success_searches", "today_searches",
		"distinct_clients", "top_queries", "top_countries",
		"daily_series", "clients_today",
	} {
		if _, ok := body[key]; !ok {
			t.Errorf("stats response missing %q", key)
		}
	}
}

func TestSearchTypesEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/search-types", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeJSON(t, rec)
	types, ok := body["search_types"].([]any)
	if !ok || len(types) == 0 {
		t.Fatalf("search_types = %v", body["search_types"])
	}

	found := false
	for _, v := range types {
		if v == "criminal" {
			found = true
		}
	}
	if !found {
		t.Errorf("search_types = %v, want criminal present", types)
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	body := decodeJSON(t, rec)
	if body["status"] != "ok" || body["database"] != true || body["serpapi_configured"] != true {
		t.Errorf("health = %v", body)
	}
}

func TestHealthEndpoint_DatabaseDown(t *testing.T) {
	f := newFixture(t)
	f.pinger.err = errors.New("connection refused")

	rec := f.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}

	body := decodeJSON(t, rec)
	if body["status"] != "degraded" || body["database"] != false {
		t.Errorf("health = %v", body)
	}
}
