package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-gateway/internal/domain"
	"github.com/kitbuilder587/osint-gateway/internal/service"
)

const (
	clientTokenCookie = "client_token"
	clientTokenHeader = "X-Client-Token"

	// client identity cookies outlive any single session
	clientCookieMaxAge = 365 * 24 * 60 * 60
)

type searchPayload struct {
	Query      string `json:"query" form:"query"`
	Country    string `json:"country" form:"country"`
	State      string `json:"state" form:"state"`
	SearchType string `json:"searchType" form:"searchType"`
}

func (h *handler) handleSearch(c *gin.Context) {
	var payload searchPayload
	// a malformed body degrades to an empty query, which the pipeline
	// rejects and logs like any other validation failure
	if err := c.ShouldBind(&payload); err != nil {
		h.logger.Warn("unparseable search payload", zap.Error(err))
	}

	token := clientToken(c)
	client, minted, err := h.resolver.Resolve(c.Request.Context(), token, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve client identity"})
		return
	}
	if minted {
		c.SetCookie(clientTokenCookie, client.Token, clientCookieMaxAge, "/", "", false, true)
	}

	result, err := h.search.Process(c.Request.Context(), &service.SearchRequest{
		Client:    client,
		IP:        c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Query: domain.SearchQuery{
			Query:      payload.Query,
			Country:    payload.Country,
			Locality:   payload.State,
			SearchType: payload.SearchType,
		},
	})
	if err != nil {
		c.JSON(service.StatusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func clientToken(c *gin.Context) string {
	if token, err := c.Cookie(clientTokenCookie); err == nil && token != "" {
		return token
	}
	return c.GetHeader(clientTokenHeader)
}

type searchLogJSON struct {
	ID            int64  `json:"id"`
	ClientToken   string `json:"client_token"`
	IP            string `json:"ip"`
	UserAgent     string `json:"user_agent"`
	Query         string `json:"query"`
	TargetedQuery string `json:"targeted_query"`
	SearchType    string `json:"search_type"`
	Locality      string `json:"locality"`
	Country       string `json:"country"`
	ResultCount   int    `json:"result_count"`
	Success       bool   `json:"success"`
	ErrorMessage  string `json:"error_message,omitempty"`
	StatusCode    int    `json:"status_code"`
	CreatedAt     string `json:"created_at"`
}

func toSearchLogJSON(e domain.SearchLogEntry) searchLogJSON {
	return searchLogJSON{
		ID:            e.ID,
		ClientToken:   e.ClientToken,
		IP:            e.IP,
		UserAgent:     e.UserAgent,
		Query:         e.Query,
		TargetedQuery: e.TargetedQuery,
		SearchType:    e.SearchType,
		Locality:      e.Locality,
		Country:       e.Country,
		ResultCount:   e.ResultCount,
		Success:       e.Success,
		ErrorMessage:  e.ErrorMessage,
		StatusCode:    e.StatusCode,
		CreatedAt:     e.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *handler) handleHistory(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	perPage, _ := strconv.Atoi(c.Query("per_page"))

	result, err := h.history.List(c.Request.Context(), page, perPage)
	if err != nil {
		h.logger.Error("failed to list search history", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load search history"})
		return
	}

	entries := make([]searchLogJSON, len(result.Entries))
	for i, e := range result.Entries {
		entries[i] = toSearchLogJSON(e)
	}

	totalPages := result.Total / int64(result.PerPage)
	if result.Total%int64(result.PerPage) != 0 {
		totalPages++
	}

	c.JSON(http.StatusOK, gin.H{
		"searches":    entries,
		"page":        result.Page,
		"per_page":    result.PerPage,
		"total":       result.Total,
		"total_pages": totalPages,
	})
}

func (h *handler) handleStats(c *gin.Context) {
	stats, err := h.stats.Usage(c.Request.Context())
	if err != nil {
		h.logger.Error("failed to build usage stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load usage stats"})
		return
	}

	c.JSON(http.StatusOK, statsJSON(stats))
}

func statsJSON(stats *domain.UsageStats) gin.H {
	topQueries := make([]gin.H, len(stats.TopQueries))
	for i, q := range stats.TopQueries {
		topQueries[i] = gin.H{"query": q.Query, "count": q.Count}
	}
	topCountries := make([]gin.H, len(stats.TopCountries))
	for i, cc := range stats.TopCountries {
		topCountries[i] = gin.H{"country": cc.Country, "count": cc.Count}
	}
	daily := make([]gin.H, len(stats.DailySeries))
	for i, d := range stats.DailySeries {
		daily[i] = gin.H{"day": d.Day.Format("2006-01-02"), "count": d.Count}
	}
	clients := make([]gin.H, len(stats.ClientsToday))
	for i, cu := range stats.ClientsToday {
		clients[i] = gin.H{"token": cu.Token, "used": cu.Used}
	}

	return gin.H{
		"total_searches":   stats.TotalSearches,
		"success_searches": stats.SuccessSearches,
		"today_searches":   stats.TodaySearches,
		"distinct_clients": stats.DistinctClients,
		"top_queries":      topQueries,
		"top_countries":    topCountries,
		"daily_series":     daily,
		"clients_today":    clients,
	}
}

func (h *handler) handleSearchTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"search_types": h.targeting.KnownTypes()})
}

func (h *handler) handleHealth(c *gin.Context) {
	dbOK := true
	if err := h.db.Ping(c.Request.Context()); err != nil {
		h.logger.Error("health check database ping failed", zap.Error(err))
		dbOK = false
	}

	status := http.StatusOK
	state := "ok"
	if !dbOK {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	c.JSON(status, gin.H{
		"status":             state,
		"database":           dbOK,
		"serpapi_configured": h.cfg.SerpAPI.APIKey != "",
	})
}
