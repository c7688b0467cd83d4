package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/dinemite/internal/config"
	"github.com/kailas-cloud/dinemite/internal/db"
	"github.com/kailas-cloud/dinemite/internal/db/memory"
	dbValkey "github.com/kailas-cloud/dinemite/internal/db/valkey"
	"github.com/kailas-cloud/dinemite/internal/domain"
	logpkg "github.com/kailas-cloud/dinemite/internal/logger"
	"github.com/kailas-cloud/dinemite/internal/metrics"
	"github.com/kailas-cloud/dinemite/internal/repository/embcache"
	"github.com/kailas-cloud/dinemite/internal/seed"
	chiTransport "github.com/kailas-cloud/dinemite/internal/transport/chi"
	"github.com/kailas-cloud/dinemite/internal/transport/gemini"
	openaiEmb "github.com/kailas-cloud/dinemite/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/dinemite/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/dinemite/internal/usecase/health"
	"github.com/kailas-cloud/dinemite/internal/usecase/indexing"
	recommenduc "github.com/kailas-cloud/dinemite/internal/usecase/recommend"
	"github.com/kailas-cloud/dinemite/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dinemite API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("embedding_provider", cfg.Embedding.Provider),
		zap.Bool("cache_enabled", cfg.Cache.Enabled()),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterIndexMetrics()
	metrics.RegisterHTTPMetrics()

	catalog, err := seed.Load(cfg.Data.RestaurantsPath)
	if err != nil {
		logger.Fatal("Failed to load restaurants", zap.Error(err))
	}
	logger.Info("Restaurants loaded",
		zap.Int("count", catalog.Len()),
		zap.String("path", cfg.Data.RestaurantsPath),
	)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// Optional Valkey cache for remote vectors
	var cache db.Store
	if cfg.Cache.Enabled() {
		readiness := time.Duration(cfg.Cache.ReadinessTimeout) * time.Second
		cache, err = dbValkey.NewStore(dbValkey.Config{
			Addrs:       cfg.Cache.Addrs,
			Password:    cfg.Cache.Password,
			DB:          cfg.Cache.DB,
			DialTimeout: readiness,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cache.Close()

		if err := cache.WaitForReady(ctx, readiness); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}
		logger.Info("Connected to cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	// The embedding proxy always talks to Gemini directly.
	geminiKey := ""
	if cfg.Embedding.Provider == config.ProviderGemini {
		geminiKey = cfg.Embedding.APIKey
	}
	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:  geminiKey,
		BaseURL: cfg.Embedding.BaseURL,
		Model:   cfg.Embedding.Model,
		Timeout: time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	primary, breaker := buildPrimaryEmbedder(cfg, geminiClient, cache, logger)
	fallback := embeddinguc.NewFallbackEmbedder(cfg.Embedding.FallbackDimensions)
	embedder := embeddinguc.NewResilientEmbedder(primary, fallback, logger)

	// Collection, indexer and query pipeline
	coll := memory.NewCollection(cfg.Index.Collection)
	indexer := indexing.NewIndexer(indexing.NewBuilder(embedder), coll, cfg.Index.BuildConcurrency, logger)
	recommendSvc := recommenduc.New(coll, embedder, catalog, indexer).
		WithTopK(cfg.Index.DefaultTopK, cfg.Index.MaxTopK)

	// Pass nil interfaces (not typed nil pointers) for absent components.
	var embeddingChecker healthuc.EmbeddingChecker
	if breaker != nil {
		embeddingChecker = breaker
	}
	var cachePinger healthuc.CachePinger
	if cache != nil {
		cachePinger = cache
	}
	healthSvc := healthuc.New(indexer, embeddingChecker, cachePinger)

	// Initial index build runs in the background; queries get 503 until it is ready.
	go func() {
		if _, err := indexer.Reindex(ctx, catalog.All()); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Initial index build failed", zap.Error(err))
			}
		}
	}()

	server := chiTransport.NewServer(recommendSvc, indexer, catalog, geminiClient, healthSvc, logger)
	handler := chiTransport.NewRouter(server, chiTransport.RouterOptions{
		APIKeys:           cfg.Auth.APIKeys,
		AllowedOrigins:    cfg.CORS.AllowedOrigins,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
	}, logger)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildPrimaryEmbedder assembles the remote decorator chain:
// provider -> cached -> breaker -> instrumented.
// It returns nil when no remote provider is usable; the resilient embedder
// then serves fallback vectors.
func buildPrimaryEmbedder(
	cfg config.Config,
	geminiClient *gemini.Client,
	cache db.Store,
	logger *zap.Logger,
) (domain.Embedder, *embeddinguc.BreakerEmbedder) {
	var (
		base  domain.Embedder
		model string
	)
	switch cfg.Embedding.Provider {
	case config.ProviderGemini:
		if !geminiClient.Configured() {
			logger.Warn("Gemini API key is not configured, using fallback vectors")
			return nil, nil
		}
		base, model = geminiClient, geminiClient.Model()
	case config.ProviderOpenAI:
		oa, err := openaiEmb.NewEmbedder(openaiEmb.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.BaseURL,
			Model:   cfg.Embedding.Model,
			Timeout: time.Duration(cfg.Embedding.TimeoutSec) * time.Second,
		}, logger)
		if err != nil {
			logger.Warn("OpenAI embedder unavailable, using fallback vectors", zap.Error(err))
			return nil, nil
		}
		base, model = oa, oa.Model()
	default:
		logger.Info("Remote embedding disabled, using fallback vectors")
		return nil, nil
	}

	embedder := base
	if cache != nil {
		ttl := time.Duration(cfg.Cache.TTLSec) * time.Second
		embedder = embcache.New(base, cache, model, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	breaker := embeddinguc.NewBreakerEmbedder(embedder, cfg.Embedding.Provider, embeddinguc.BreakerSettings{
		MaxFailures:      cfg.Embedding.Breaker.MaxFailures,
		OpenTimeout:      time.Duration(cfg.Embedding.Breaker.OpenTimeoutSec) * time.Second,
		HalfOpenRequests: cfg.Embedding.Breaker.HalfOpenRequests,
	}, logger)

	instrumented := embeddinguc.NewInstrumentedEmbedder(breaker, cfg.Embedding.Provider, model, logger)

	logger.Info("Remote embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", model),
		zap.Bool("cached", cache != nil),
	)
	return instrumented, breaker
}
