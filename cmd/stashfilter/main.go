package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/stashapp/stash-sub011/internal/catalog"
	"github.com/stashapp/stash-sub011/internal/config"
	"github.com/stashapp/stash-sub011/internal/db"
	dbRedis "github.com/stashapp/stash-sub011/internal/db/redis"
	"github.com/stashapp/stash-sub011/internal/domain"
	logpkg "github.com/stashapp/stash-sub011/internal/logger"
	"github.com/stashapp/stash-sub011/internal/metrics"
	"github.com/stashapp/stash-sub011/internal/repository/facetcache"
	"github.com/stashapp/stash-sub011/internal/transport/backend"
	chiTransport "github.com/stashapp/stash-sub011/internal/transport/chi"
	candidatesuc "github.com/stashapp/stash-sub011/internal/usecase/candidates"
	filteruc "github.com/stashapp/stash-sub011/internal/usecase/filter"
	healthuc "github.com/stashapp/stash-sub011/internal/usecase/health"
	"github.com/stashapp/stash-sub011/internal/version"
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

	logger.Info("Starting stashfilter API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("db_driver", cfg.Database.Driver),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("backend", cfg.Backend.BaseURL),
	)

	// Register facet metrics explicitly (no init())
	metrics.RegisterFacetMetrics(prometheus.DefaultRegisterer)

	client, err := backend.NewClient(&backend.Config{
		BaseURL:      cfg.Backend.BaseURL,
		Token:        cfg.Backend.Token,
		Timeout:      cfg.Backend.Timeout(),
		RetryMax:     cfg.Backend.RetryMax,
		RetryWaitMin: time.Duration(cfg.Backend.RetryWaitMinMs) * time.Millisecond,
		RetryWaitMax: time.Duration(cfg.Backend.RetryWaitMaxMs) * time.Millisecond,
		Logger:       logger,
	})
	if err != nil {
		logger.Fatal("Failed to create backend client", zap.Error(err))
	}

	// Facet cache store. Redis and Valkey speak the same protocol.
	var store db.Store
	if cfg.Database.Enabled() {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
			DB:       cfg.Database.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer s.Close()

		ctx := context.Background()
		if err := s.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")
		store = s
	}

	// Faceter chain: backend -> cache (when a store and a TTL are configured)
	var faceter domain.Faceter = client
	var cache *facetcache.CachedFaceter
	if store != nil && cfg.Facets.CacheTTL() > 0 {
		cache = facetcache.New(client, store, cfg.Facets.CacheTTL(), metrics.FacetCacheTotal, logger)
		faceter = cache
		logger.Info("Facet cache enabled", zap.Duration("ttl", cfg.Facets.CacheTTL()))
	}

	filterSvc := filteruc.New(catalog.Default(), nil, logger)
	resolver := candidatesuc.NewResolver(client, faceter, cfg.Facets.Limit, logger)

	// Pass nil interface (not typed nil pointer!) when the store is disabled.
	var pinger healthuc.DBPinger
	if store != nil {
		pinger = store
	}
	healthSvc := healthuc.New(pinger, client)

	server := chiTransport.NewServer(filterSvc, resolver, healthSvc, logger)
	if cache != nil {
		server.WithCachePurger(cache)
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.Handler(server, chiTransport.ChiServerOptions{
		BaseRouter: r,
		ErrorHandlerFunc: func(w http.ResponseWriter, _ *http.Request, err error) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
				Code:    chiTransport.CodeBadRequest,
				Message: "invalid request: " + err.Error(),
			})
		},
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
				zap.String("degraded", ww.Header().Get("X-Degraded")),
			)
		})
	}
}
