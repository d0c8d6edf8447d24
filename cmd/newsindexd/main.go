package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tidewater-news/newsdex/internal/analytics"
	"github.com/tidewater-news/newsdex/internal/api"
	"github.com/tidewater-news/newsdex/internal/apikeys"
	"github.com/tidewater-news/newsdex/internal/audit"
	"github.com/tidewater-news/newsdex/internal/cache"
	"github.com/tidewater-news/newsdex/internal/ingest"
	"github.com/tidewater-news/newsdex/internal/newsindex"
	"github.com/tidewater-news/newsdex/internal/ratelimit"
	"github.com/tidewater-news/newsdex/pkg/config"
	"github.com/tidewater-news/newsdex/pkg/health"
	"github.com/tidewater-news/newsdex/pkg/kafka"
	"github.com/tidewater-news/newsdex/pkg/logger"
	pkgmetrics "github.com/tidewater-news/newsdex/pkg/metrics"
	pkgmw "github.com/tidewater-news/newsdex/pkg/middleware"
	"github.com/tidewater-news/newsdex/pkg/postgres"
	pkgredis "github.com/tidewater-news/newsdex/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting newsdex", "port", cfg.Server.Port, "num_buckets", cfg.Index.NumBuckets)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	idx := newsindex.NewSafe(cfg.Index.NumBuckets)
	if cfg.Index.StopWordsPath != "" {
		if err := loadStopWords(idx, cfg.Index.StopWordsPath); err != nil {
			slog.Warn("failed to load stop words, continuing with any loaded before the failure", "path", cfg.Index.StopWordsPath, "error", err)
		} else {
			slog.Info("stop words loaded", "path", cfg.Index.StopWordsPath)
		}
	}

	m := pkgmetrics.New()

	var db *postgres.Client
	db, err = postgres.New(cfg.Postgres)
	if err != nil {
		slog.Warn("postgres unavailable, audit trail and api keys disabled", "error", err)
	} else {
		defer db.Close()
	}

	var redisClient *pkgredis.Client
	var queryCache *cache.QueryCache
	redisClient, err = pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query cache disabled", "error", err)
	} else {
		defer redisClient.Close()
		if cfg.Cache.Enabled {
			queryCache = cache.New(redisClient, cfg.Cache)
			queryCache.StartPeriodicInvalidation(ctx, cfg.Cache.InvalidateEvery)
			slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Cache.TTL)
		}
	}

	var auditSink *audit.Sink
	var batchPublisher *audit.BatchPublisher
	if db != nil {
		auditProducer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.AuditEvents)
		batchPublisher = audit.NewBatchPublisher(auditProducer, 100, 5*time.Second)
		batchPublisher.Start(ctx)
		auditSink = audit.New(db, batchPublisher)
		slog.Info("audit sink enabled", "topic", cfg.Kafka.Topics.AuditEvents)
	}

	var aggregator *analytics.Aggregator
	var analyticsHandler *analytics.Handler
	if db != nil {
		analyticsConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.AuditEvents, nil)
		aggregator = analytics.NewAggregator(analyticsConsumer)
		analyticsConsumer = kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.AuditEvents, analytics.HandleEvent(aggregator))
		aggregator = analytics.NewAggregator(analyticsConsumer)
		go func() {
			if err := aggregator.Start(ctx); err != nil {
				slog.Error("analytics aggregator error", "error", err)
			}
		}()
		analyticsHandler = analytics.NewHandler(aggregator)
		analyticsStore := analytics.NewStore(db)
		analyticsStore.StartPeriodicSave(ctx, aggregator, time.Minute)
		slog.Info("analytics aggregator started", "topic", cfg.Kafka.Topics.AuditEvents)
	}

	ingestConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.ArticleIngest,
		ingest.HandleMessage(idx, auditSink, queryCache, m))
	consumer := ingest.New(ingestConsumer)
	go func() {
		if err := consumer.Start(ctx); err != nil {
			slog.Error("ingest consumer error", "error", err)
		}
	}()
	slog.Info("ingest consumer started", "topic", cfg.Kafka.Topics.ArticleIngest)

	var keyValidator *apikeys.Validator
	if db != nil {
		keyValidator = apikeys.NewValidator(db)
	}
	limiter := ratelimit.New(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, cfg.RateLimit.CleanupInterval)

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		return health.ComponentHealth{Status: health.StatusUp, Message: fmt.Sprintf("%d articles", idx.ArticleCount())}
	})
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if db == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := db.DB.PingContext(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := api.NewHandler(idx, queryCache, auditSink, m)
	timeout := pkgmw.Timeout(cfg.Server.WriteTimeout)
	chain := api.New(h, analyticsHandler, checker, keyValidator, limiter, m, timeout)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	var stopMetricsServer func(context.Context) error
	if cfg.Metrics.Enabled {
		stopMetricsServer = pkgmetrics.StartServer(cfg.Metrics.Port)
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
		if stopMetricsServer != nil {
			if err := stopMetricsServer(shutdownCtx); err != nil {
				slog.Error("metrics server shutdown error", "error", err)
			}
		}
		if batchPublisher != nil {
			batchPublisher.Close()
		}
	}()

	slog.Info("newsdex listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("newsdex stopped")
}

func loadStopWords(idx *newsindex.Safe, path string) error {
	iter, err := newsindex.OpenStopWordFile(path)
	if err != nil {
		return err
	}
	defer iter.Close()
	return idx.LoadStopWords(iter)
}
