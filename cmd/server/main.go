package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/osint-gateway/internal/config"
	"github.com/kitbuilder587/osint-gateway/internal/httpapi"
	"github.com/kitbuilder587/osint-gateway/internal/identity"
	"github.com/kitbuilder587/osint-gateway/internal/metrics"
	"github.com/kitbuilder587/osint-gateway/internal/quota"
	"github.com/kitbuilder587/osint-gateway/internal/repository/postgres"
	"github.com/kitbuilder587/osint-gateway/internal/search/serpapi"
	"github.com/kitbuilder587/osint-gateway/internal/service"
	"github.com/kitbuilder587/osint-gateway/internal/targeting"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// .env is optional, real deployments use the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("failed to load config", zap.Error(err))
	}

	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		zap.NewExample().Fatal("failed to build logger", zap.Error(err))
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server exited with error", zap.Error(err))
	}
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.Migrate(ctx); err != nil {
		return err
	}
	logger.Info("database ready")

	clients := postgres.NewClientRepo(db)
	logs := postgres.NewSearchLogRepo(db)

	m := metrics.New()
	engine := targeting.NewEngine()
	resolver := identity.NewResolver(clients, cfg.Quota.DefaultDaily, logger)
	checker := quota.NewChecker(clients, logs, cfg.SerpAPI.MonthlyQuota)
	burst := quota.NewBurstLimiter(cfg.Quota.BurstPerMinute)

	upstream := serpapi.New(serpapi.Config{
		APIKey:  cfg.SerpAPI.APIKey,
		BaseURL: cfg.SerpAPI.BaseURL,
		Engine:  cfg.SerpAPI.Engine,
		Timeout: cfg.SerpAPI.Timeout,
	}, logger)

	searchSvc := service.NewSearchService(service.SearchDeps{
		Logs:      logs,
		Upstream:  upstream,
		Targeting: engine,
		Quota:     checker,
		Burst:     burst,
		Logger:    logger,
		Metrics:   m,
		Config:    service.SearchConfig{ResultCount: cfg.SerpAPI.ResultCount},
	})

	router := httpapi.NewRouter(httpapi.Deps{
		Config:    cfg,
		Logger:    logger,
		Metrics:   m,
		Resolver:  resolver,
		Search:    searchSvc,
		History:   service.NewHistoryService(logs),
		Stats:     service.NewStatsService(logs),
		Targeting: engine,
		Clients:   clients,
		DB:        db,
	})

	server := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", zap.String("addr", cfg.Server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("server stopped")
	return nil
}
