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

	"github.com/pricewise/pricesearch/internal/config"
	dbRedis "github.com/pricewise/pricesearch/internal/db/redis"
	"github.com/pricewise/pricesearch/internal/engine"
	logpkg "github.com/pricewise/pricesearch/internal/logger"
	"github.com/pricewise/pricesearch/internal/metrics"
	catalogrepo "github.com/pricewise/pricesearch/internal/repository/catalog"
	"github.com/pricewise/pricesearch/internal/repository/searchcache"
	chiTransport "github.com/pricewise/pricesearch/internal/transport/chi"
	healthuc "github.com/pricewise/pricesearch/internal/usecase/health"
	searchuc "github.com/pricewise/pricesearch/internal/usecase/search"
	"github.com/pricewise/pricesearch/internal/version"
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

	logger.Info("Starting pricesearch API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Strings("categories", cfg.Catalog.Categories),
	)

	// Redis and Valkey share the rueidis store; the driver only shows up in logs.
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	catalogs := catalogrepo.New(store, catalogrepo.Config{
		KeyPrefix:  cfg.Storage.KeyPrefix,
		Categories: cfg.Catalog.Categories,
		Refresh:    time.Duration(cfg.Catalog.RefreshSec) * time.Second,
	}, catalogrepo.Metrics{
		Loads:  metrics.CatalogLoadsTotal,
		Issues: metrics.CatalogIssuesTotal,
	}, logger)

	if cfg.WarmOnStart() {
		warmCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second)
		if err := catalogs.Warm(warmCtx); err != nil {
			// Requests retry the load; a cold start is not fatal.
			logger.Warn("Catalog warm-up failed", zap.Error(err))
		}
		cancel()
	}

	// Pass nil interface (not typed nil pointer!) when the cache is disabled.
	var cache searchuc.ResultCache
	if cfg.CacheEnabled() {
		cache = searchcache.New(store, cfg.Storage.KeyPrefix,
			time.Duration(cfg.Search.CacheTTLSec)*time.Second, metrics.SearchCacheTotal, logger)
	}

	searchSvc := searchuc.New(catalogs, engine.New(nil), cache, searchuc.Config{
		DefaultCategory: cfg.Catalog.DefaultCategory,
		MaxQueryLength:  cfg.QueryLimit(),
		BrandThreshold:  cfg.Search.BrandThreshold,
		ModelThreshold:  cfg.Search.ModelThreshold,
	})
	healthSvc := healthuc.New(store, catalogs, cfg.Catalog.DefaultCategory)

	server := chiTransport.NewServer(searchSvc, healthSvc, catalogs, logger).
		WithMaxBodyBytes(int64(cfg.HTTP.MaxBodyBytes))
	handler := chiTransport.NewRouter(server, cfg.Auth.APIKeys, logger)

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}
