package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"satire-news/internal/cache"
	"satire-news/internal/config"
	"satire-news/internal/infra/enricher"
	"satire-news/internal/infra/newsapi"
	"satire-news/internal/infra/rssfeed"
	"satire-news/internal/observability/logging"
	"satire-news/internal/observability/tracing"
	"satire-news/internal/resilience/circuitbreaker"
	"satire-news/internal/source"
	artUC "satire-news/internal/usecase/article"
	"satire-news/internal/usecase/enrich"

	hhttp "satire-news/internal/handler/http"
	harticle "satire-news/internal/handler/http/article"
	"satire-news/internal/handler/http/requestid"
	hsrc "satire-news/internal/handler/http/source"
)

func main() {
	logger := logging.NewLogger()
	slog.SetDefault(logger)

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// One breaker registry for every external dependency, so per-key
	// state is observable through the health endpoint.
	breakers := circuitbreaker.NewRegistry(circuitbreaker.DefaultConfig(""))

	registry := setupSources(logger, cfg, breakers)

	e := createEnricher(logger, cfg, breakers)
	queue := enrich.NewQueue(e)
	coordinator := enrich.NewCoordinator(queue, cfg.Enrichment.ResultCapacity)

	articleCache := cache.New(cfg.Cache.TTL)
	articleSvc := artUC.NewService(articleCache, registry, coordinator)

	handler := setupRoutes(logger, cfg, articleSvc, registry, coordinator, breakers)

	runServer(logger, cfg, handler, registry, queue, coordinator)
}

// setupSources registers the configured news sources. NewsAPI is always
// registered; RSS feeds are added when a feeds file is configured.
func setupSources(logger *slog.Logger, cfg *config.AppConfig, breakers *circuitbreaker.Registry) *source.Registry {
	registry := source.NewRegistry()

	newsAPICfg, err := newsapi.LoadConfig()
	if err != nil {
		logger.Error("failed to load NewsAPI configuration", slog.Any("error", err))
		os.Exit(1)
	}
	newsAPISrc, err := newsapi.New(newsAPICfg, breakers)
	if err != nil {
		logger.Error("failed to create NewsAPI source", slog.Any("error", err))
		os.Exit(1)
	}
	registry.Register(newsAPISrc)
	logger.Info("registered news source", slog.String("source_id", newsAPISrc.ID()))

	if cfg.Sources.FeedsPath != "" {
		feeds, err := config.LoadFeeds(cfg.Sources.FeedsPath)
		if err != nil {
			logger.Error("failed to load RSS feeds configuration",
				slog.String("path", cfg.Sources.FeedsPath),
				slog.Any("error", err))
			os.Exit(1)
		}
		rssSrc, err := rssfeed.New(rssfeed.Config{Feeds: feeds, Timeout: 10 * time.Second}, breakers)
		if err != nil {
			logger.Error("failed to create RSS source", slog.Any("error", err))
			os.Exit(1)
		}
		registry.Register(rssSrc)
		logger.Info("registered news source",
			slog.String("source_id", rssSrc.ID()),
			slog.Int("feeds", len(feeds)))
	}

	return registry
}

// createEnricher creates the enricher selected by ENRICHER_TYPE.
func createEnricher(logger *slog.Logger, cfg *config.AppConfig, breakers *circuitbreaker.Registry) enricher.Enricher {
	switch cfg.Enrichment.Type {
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			logger.Error("OPENAI_API_KEY is required when ENRICHER_TYPE=openai")
			os.Exit(1)
		}
		enricherCfg, err := enricher.LoadOpenAIConfig()
		if err != nil {
			logger.Error("failed to load OpenAI configuration", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("using OpenAI for satirical enrichment",
			slog.String("model", enricherCfg.Model))
		return enricher.NewOpenAI(apiKey, enricherCfg, breakers)
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			logger.Error("ANTHROPIC_API_KEY is required when ENRICHER_TYPE=claude")
			os.Exit(1)
		}
		enricherCfg, err := enricher.LoadClaudeConfig()
		if err != nil {
			logger.Error("failed to load Claude configuration", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("using Claude for satirical enrichment",
			slog.String("model", enricherCfg.Model))
		return enricher.NewClaude(apiKey, enricherCfg, breakers)
	case "noop":
		logger.Warn("using no-op enricher, articles pass through unmodified")
		return enricher.NewNoOp()
	default:
		// config.Load validates the type, this is unreachable.
		logger.Error("invalid enricher type", slog.String("type", cfg.Enrichment.Type))
		os.Exit(1)
		return nil
	}
}

// setupRoutes registers all HTTP routes and wraps them in the middleware
// chain.
func setupRoutes(
	logger *slog.Logger,
	cfg *config.AppConfig,
	articleSvc *artUC.Service,
	registry *source.Registry,
	coordinator *enrich.Coordinator,
	breakers *circuitbreaker.Registry,
) http.Handler {
	mux := http.NewServeMux()

	harticle.Register(mux, articleSvc, logger)
	hsrc.Register(mux, registry)

	mux.Handle("GET    /categories", hhttp.CategoriesHandler{})
	mux.Handle("GET    /enrichment/status", hhttp.EnrichmentStatusHandler{Coordinator: coordinator})

	mux.Handle("GET    /health", &hhttp.HealthHandler{
		Sources:     registry,
		Coordinator: coordinator,
		Breakers:    breakers,
		Version:     cfg.Server.Version,
	})
	mux.Handle("GET    /ready", &hhttp.ReadyHandler{Sources: registry})
	mux.Handle("GET    /live", &hhttp.LiveHandler{})
	mux.Handle("GET    /metrics", hhttp.MetricsHandler())

	// Outermost first. Logging sits inside tracing so access logs carry
	// the trace ID.
	return hhttp.Chain(mux,
		requestid.Middleware,
		hhttp.Recover(logger),
		tracing.Middleware,
		hhttp.Logging(logger),
		hhttp.MetricsMiddleware,
	)
}

// runServer starts the enrichment pipeline, the health refresh scheduler
// and the HTTP server, then blocks until shutdown.
func runServer(
	logger *slog.Logger,
	cfg *config.AppConfig,
	handler http.Handler,
	registry *source.Registry,
	queue *enrich.Queue,
	coordinator *enrich.Coordinator,
) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	queue.Start(ctx)
	coordinator.Start(ctx)
	logger.Info("enrichment pipeline started")

	// Probe source health once at startup so the first requests see
	// accurate availability, then keep it fresh on a schedule.
	registry.RefreshHealth(ctx)

	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Sources.HealthRefreshSchedule, func() {
		registry.RefreshHealth(ctx)
	}); err != nil {
		logger.Error("failed to schedule source health refresh",
			slog.String("schedule", cfg.Sources.HealthRefreshSchedule),
			slog.Any("error", err))
		os.Exit(1)
	}
	scheduler.Start()
	logger.Info("source health refresh scheduled",
		slog.String("schedule", cfg.Sources.HealthRefreshSchedule))

	addr := ":" + strconv.Itoa(cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		logger.Info("server starting",
			slog.String("addr", addr),
			slog.String("version", cfg.Server.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server...")

	cronCtx := scheduler.Stop()
	<-cronCtx.Done()

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", slog.Any("error", err))
	}
	logger.Info("server stopped")
}
