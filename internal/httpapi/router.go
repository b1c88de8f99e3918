package httpapi

import (
	"context"
	"html/template"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/kitbuilder587/osint-gateway/internal/config"
	"github.com/kitbuilder587/osint-gateway/internal/identity"
	"github.com/kitbuilder587/osint-gateway/internal/metrics"
	"github.com/kitbuilder587/osint-gateway/internal/repository"
	"github.com/kitbuilder587/osint-gateway/internal/service"
	"github.com/kitbuilder587/osint-gateway/internal/targeting"
)

// Pinger reports storage liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps bundles everything the HTTP surface needs.
type Deps struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *metrics.Metrics
	Resolver  *identity.Resolver
	Search    service.SearchService
	History   service.HistoryService
	Stats     service.StatsService
	Targeting *targeting.Engine
	Clients   repository.ClientRepository
	DB        Pinger
}

type handler struct {
	cfg       *config.Config
	logger    *zap.Logger
	resolver  *identity.Resolver
	search    service.SearchService
	history   service.HistoryService
	stats     service.StatsService
	targeting *targeting.Engine
	clients   repository.ClientRepository
	db        Pinger
	sessions  *sessionManager
}

// NewRouter builds the gin engine with logging, recovery, CORS and
// metrics middleware, and registers every route.
func NewRouter(deps Deps) *gin.Engine {
	if deps.Config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	h := &handler{
		cfg:       deps.Config,
		logger:    deps.Logger,
		resolver:  deps.Resolver,
		search:    deps.Search,
		history:   deps.History,
		stats:     deps.Stats,
		targeting: deps.Targeting,
		clients:   deps.Clients,
		db:        deps.DB,
		sessions: newSessionManager(
			deps.Config.Admin.SessionSecret,
			deps.Config.Admin.SessionTTL,
		),
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(deps.Logger))
	if deps.Metrics != nil {
		engine.Use(metricsMiddleware(deps.Metrics))
	}
	engine.Use(cors.New(corsConfig(deps.Config.Server.CORSOrigins)))

	engine.SetHTMLTemplate(template.Must(template.ParseFS(templateFS, "templates/*.html")))

	engine.POST("/search", h.handleSearch)
	engine.GET("/search-history", h.handleHistory)
	engine.GET("/search-stats", h.handleStats)
	engine.GET("/search-types", h.handleSearchTypes)
	engine.GET("/health", h.handleHealth)
	engine.GET("/metrics", gin.WrapH(metrics.Handler()))

	admin := engine.Group("/admin")
	admin.GET("/login", h.handleAdminLoginPage)
	admin.POST("/login", h.handleAdminLogin)
	admin.POST("/logout", h.handleAdminLogout)

	secured := admin.Group("")
	secured.Use(h.adminAuth())
	secured.GET("", h.handleAdminDashboard)
	secured.POST("/clients/:token", h.handleAdminClientUpdate)

	return engine
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "X-Client-Token"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		// credentialed requests cannot use the wildcard, so echo back
		// the caller's origin instead
		cfg.AllowOriginFunc = func(origin string) bool { return true }
		return cfg
	}

	cfg.AllowOrigins = origins
	return cfg
}
