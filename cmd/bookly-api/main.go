package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	_ "github.com/noah-isme/bookly-api/api/swagger"
	"github.com/noah-isme/bookly-api/internal/auth"
	"github.com/noah-isme/bookly-api/internal/handler"
	"github.com/noah-isme/bookly-api/internal/repository"
	"github.com/noah-isme/bookly-api/internal/server"
	"github.com/noah-isme/bookly-api/internal/service"
	"github.com/noah-isme/bookly-api/pkg/cache"
	"github.com/noah-isme/bookly-api/pkg/config"
	"github.com/noah-isme/bookly-api/pkg/database"
	"github.com/noah-isme/bookly-api/pkg/logger"
	"github.com/noah-isme/bookly-api/pkg/tracing"
)

// @title Bookly API
// @version 1.0.0
// @description Book catalogue with reviews and tags
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing)
	if err != nil {
		logr.Fatal("tracing init failed", zap.Error(err))
	}

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("database connection failed", zap.Error(err))
	}
	defer db.Close()

	rdb, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("redis connection failed", zap.Error(err))
	}
	defer rdb.Close()

	metrics := service.NewMetricsService()
	validate := validator.New()

	hasher := auth.NewHashPool(auth.HashPoolConfig{
		Workers:    cfg.Hashing.Workers,
		BufferSize: cfg.Hashing.BufferSize,
		Cost:       cfg.Hashing.Cost,
		Logger:     logr,
	})
	// Runs until after srv.Shutdown so in-flight signups and logins finish.
	hasher.Start(context.Background())
	defer hasher.Stop()

	tokens := auth.NewTokenManager(cfg.JWT.Secret, time.Now)
	revocations := auth.NewRevocationRegistry(rdb, time.Now)

	userRepo := repository.NewUserRepository(db)
	bookRepo := repository.NewBookRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	tagRepo := repository.NewTagRepository(db)
	cacheRepo := repository.NewCacheRepository(rdb, logr)

	gate := auth.NewGate(tokens, revocations, userRepo, metrics, logr)

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TagsTTL, logr, cfg.Cache.Enabled)
	authSvc := service.NewAuthService(userRepo, hasher, tokens, revocations, metrics, validate, logr, service.AuthConfig{
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
	})
	userSvc := service.NewUserService(userRepo, validate, logr)
	bookSvc := service.NewBookService(bookRepo, validate, logr)
	reviewSvc := service.NewReviewService(reviewRepo, bookRepo, validate, logr)
	tagSvc := service.NewTagService(tagRepo, bookSvc, cacheSvc, cfg.Cache.TagsTTL, validate, logr)

	router := server.NewRouter(server.Options{
		Config:  cfg,
		Logger:  logr,
		Gate:    gate,
		Metrics: metrics,
		Handlers: server.Handlers{
			Auth:    handler.NewAuthHandler(authSvc),
			Users:   handler.NewUserHandler(userSvc),
			Books:   handler.NewBookHandler(bookSvc),
			Reviews: handler.NewReviewHandler(reviewSvc),
			Tags:    handler.NewTagHandler(tagSvc),
			Metrics: handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
				"postgres": db.PingContext,
				"redis":    func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
			}),
		},
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	logr.Info("server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logr.Warn("tracer shutdown failed", zap.Error(err))
	}
	logr.Info("shutdown complete")
}
