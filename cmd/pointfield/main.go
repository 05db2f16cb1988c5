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
	"go.uber.org/zap"

	"github.com/kailas-cloud/pointfield/internal/config"
	"github.com/kailas-cloud/pointfield/internal/db/memory"
	dbRedis "github.com/kailas-cloud/pointfield/internal/db/redis"
	logpkg "github.com/kailas-cloud/pointfield/internal/logger"
	"github.com/kailas-cloud/pointfield/internal/metrics"
	chiTransport "github.com/kailas-cloud/pointfield/internal/transport/chi"
	documentuc "github.com/kailas-cloud/pointfield/internal/usecase/document"
	healthuc "github.com/kailas-cloud/pointfield/internal/usecase/health"
	"github.com/kailas-cloud/pointfield/internal/usecase/numfield"
	searchuc "github.com/kailas-cloud/pointfield/internal/usecase/search"
	"github.com/kailas-cloud/pointfield/internal/version"
)

func main() {
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

	logger.Info("Starting pointfield API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend", cfg.Backend.Driver),
		zap.String("schema", cfg.Schema.Name),
	)

	sc, err := cfg.Schema.Build()
	if err != nil {
		logger.Fatal("Invalid schema", zap.Error(err))
	}
	for _, f := range sc.Fields() {
		logger.Debug("Field configured", zap.Stringer("field", f))
	}

	// Register field metrics explicitly (no init())
	metrics.RegisterFieldMetrics()

	// The in-process index always answers queries; it is the ordinal authority.
	index := memory.New()
	fields := numfield.New(nil, index.Points(), index.Columns(),
		numfield.WithObserver(numfield.LogObserver(logger)))

	writers := []documentuc.Writer{index}
	var (
		stored documentuc.StoredReader = index
		remote searchuc.RemoteExecutor
		health healthuc.Pinger
	)

	if cfg.Backend.Driver == config.DriverRedis {
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Backend.Addrs,
			Username: cfg.Backend.Username,
			Password: cfg.Backend.Password,
			DB:       cfg.Backend.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create redis store", zap.Error(err))
		}
		defer store.Close()

		ctx := context.Background()
		if err := store.WaitForReady(ctx, time.Duration(cfg.Backend.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Redis not ready", zap.Error(err))
		}
		logger.Info("Connected to redis", zap.Strings("addrs", cfg.Backend.Addrs))

		docs := dbRedis.NewDocuments(store, sc, cfg.Backend.IndexName, cfg.Backend.KeyPrefix)
		if err := docs.EnsureIndex(ctx); err != nil {
			logger.Fatal("Failed to create search index", zap.Error(err))
		}
		logger.Info("Search index ready", zap.String("index", cfg.Backend.IndexName))

		writers = append(writers, docs)
		stored, remote, health = docs, docs, docs
	}

	docSvc := documentuc.New(sc, fields, stored, logger, writers...)
	searchSvc := searchuc.New(sc, fields, searchuc.NewRouter(index, remote), index, logger).
		WithLimits(cfg.Search.DefaultLimit, cfg.Search.MaxLimit)
	healthSvc := healthuc.New(index, health)

	server := chiTransport.NewServer(sc, docSvc, searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.RegisterRoutes(r)

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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)
			ctx, event := logpkg.ContextWithEvent(ctx)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line
			fields := append([]zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.Int("response_bytes", ww.BytesWritten()),
			}, event.Fields()...)
			reqLogger.Info("http_request", fields...)
		})
	}
}
