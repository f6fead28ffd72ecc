package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcAdapter "github.com/CkBu3u/DiplomFinal/internal/adapter/grpc"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/handler"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/middleware"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/http/router"
	natsAdapter "github.com/CkBu3u/DiplomFinal/internal/adapter/messaging/nats"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/repository/cache"
	mongoRepo "github.com/CkBu3u/DiplomFinal/internal/adapter/repository/mongodb"
	"github.com/CkBu3u/DiplomFinal/internal/adapter/storage/s3"
	"github.com/CkBu3u/DiplomFinal/internal/config"
	"github.com/CkBu3u/DiplomFinal/internal/listing/domain"
	"github.com/CkBu3u/DiplomFinal/internal/listing/favorite"
	"github.com/CkBu3u/DiplomFinal/internal/listing/normalizer"
	"github.com/CkBu3u/DiplomFinal/internal/listing/usecase"
	"github.com/CkBu3u/DiplomFinal/internal/mailer"
	"github.com/CkBu3u/DiplomFinal/internal/platform/logger"
	"github.com/CkBu3u/DiplomFinal/internal/platform/metrics"
	"github.com/CkBu3u/DiplomFinal/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health/grpc_health_v1"
)

const serviceName = "autohub-listing"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Logger
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	// 2. Configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.JWT.Secret == "" {
		appLogger.Fatal("JWT secret is not configured (AUTOHUB_JWT_SECRET)")
	}
	appLogger.Info("Configuration loaded",
		zap.String("http_port", cfg.HTTP.Port),
		zap.String("grpc_port", cfg.GRPC.Port),
		zap.String("mongo_database", cfg.Mongo.Database),
		zap.String("redis_address", cfg.Redis.Address),
		zap.String("metrics_port", cfg.Metrics.Port),
	)

	// 3. Tracer
	tp, err := tracer.InitTracer(context.Background(), cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint)
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()
	appLogger.Info("Tracer initialized", zap.Bool("exporting", cfg.Tracing.OTLPEndpoint != ""))

	// 4. MongoDB
	mongoClient, err := mongoRepo.NewMongoDBConnection(&cfg.Mongo)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	db := mongoClient.Database(cfg.Mongo.Database)
	indexCtx, indexCancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := mongoRepo.EnsureIndexes(indexCtx, db); err != nil {
		appLogger.Warn("Failed to ensure MongoDB indexes", zap.Error(err))
	}
	indexCancel()
	appLogger.Info("Connected to MongoDB")

	// 5. Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			appLogger.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	cacheRepo := cache.NewRedisCacheRepository(redisClient, appLogger)
	sessions := cache.NewSessionStore(redisClient, cfg.JWT.SessionTTL, appLogger)

	// 6. NATS, optional
	var publisher domain.EventPublisher
	if cfg.NATS.URL != "" {
		natsPublisher, err := natsAdapter.NewNATSPublisher(&cfg.NATS, appLogger)
		if err != nil {
			appLogger.Warn("NATS unavailable, domain events disabled", zap.Error(err))
		} else {
			defer natsPublisher.Close()
			publisher = natsPublisher
		}
	}

	// 7. MinIO, optional
	var storage domain.Storage
	if cfg.MinIO.Endpoint != "" {
		s3Storage, err := s3.NewS3Storage(context.Background(), &cfg.MinIO, appLogger)
		if err != nil {
			appLogger.Warn("MinIO unavailable, image uploads disabled", zap.Error(err))
		} else {
			storage = s3Storage
		}
	}

	// 8. Mailer
	var mail mailer.Mailer = mailer.NopMailer{}
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTPMailer(&cfg.SMTP)
	} else {
		appLogger.Info("SMTP host not set, review emails disabled")
	}

	// 9. Metrics
	metricsManager := metrics.NewMetricsManager(cfg.Metrics.Namespace)

	// 10. Repositories and usecases
	listingRepo := mongoRepo.NewListingRepository(db, appLogger)
	catalogRepo := mongoRepo.NewCatalogRepository(db)
	favoriteRepo := mongoRepo.NewFavoriteRepository(db, appLogger)
	reviewRepo := mongoRepo.NewReviewRepository(db)
	userRepo := mongoRepo.NewUserRepository(db, appLogger)
	messageRepo := mongoRepo.NewMessageRepository(db)

	norm := normalizer.New(cfg.Listing.PlaceholderImage)
	reconciler := favorite.NewReconciler(favoriteRepo, sessions, favorite.NewClassifier(cfg.Favorites.AuthErrorPatterns), appLogger)

	searchUC := usecase.NewSearchUsecase(listingRepo, catalogRepo, cacheRepo, norm, reconciler, metricsManager, appLogger, usecase.SearchOptions{
		DefaultPageSize: cfg.Listing.DefaultPageSize,
		FeedSize:        cfg.Listing.FeedSize,
		FeedCacheTTL:    cfg.Listing.FeedCacheTTL,
	})
	listingUC := usecase.NewListingUsecase(listingRepo, norm, reconciler, cacheRepo, publisher, metricsManager, appLogger, cfg.Listing.FeedSize)
	photoUC := usecase.NewPhotoUsecase(storage, listingRepo, cacheRepo, publisher, metricsManager, appLogger, cfg.Listing.FeedSize)
	favoriteUC := usecase.NewFavoriteUsecase(favoriteRepo, listingRepo, reconciler, norm, publisher, metricsManager, appLogger)
	reviewUC := usecase.NewReviewUsecase(reviewRepo, listingRepo, userRepo, mail, publisher, metricsManager, appLogger)
	catalogUC := usecase.NewCatalogUsecase(catalogRepo)
	messageUC := usecase.NewMessageUsecase(messageRepo, listingRepo, userRepo, publisher, metricsManager, appLogger)

	// 11. HTTP server
	auth := middleware.NewAuthenticator(cfg.JWT.Secret, sessions, appLogger)
	mux := router.New(router.Handlers{
		Listings:  handler.NewListingHandler(searchUC, listingUC, photoUC, cfg.HTTP.MaxUploadBytes, appLogger),
		Favorites: handler.NewFavoriteHandler(favoriteUC, appLogger),
		Reviews:   handler.NewReviewHandler(reviewUC, appLogger),
		Catalog:   handler.NewCatalogHandler(catalogUC, appLogger),
		Messages:  handler.NewMessageHandler(messageUC, appLogger),
	}, auth, appLogger, metricsManager, router.Options{
		ServiceName: cfg.Tracing.ServiceName,
		StaticDir:   cfg.HTTP.StaticDir,
	})
	httpSrv := &http.Server{
		Addr:         ":" + cfg.HTTP.Port,
		Handler:      mux,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("addr", httpSrv.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 12. gRPC ops server
	lis, err := net.Listen("tcp", ":"+cfg.GRPC.Port)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPC.Port), zap.Error(err))
	}
	grpcSrv, healthServer := grpcAdapter.NewGRPCServer(appLogger)
	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_SERVING)
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.GRPC.Port))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Fatal("gRPC server Serve error", zap.Error(err))
		}
	}()

	// 13. Metrics server
	metricsSrv := metrics.NewMetricsServer(cfg.Metrics.Port, metricsManager.Registry)
	go func() {
		if err := metrics.StartMetricsServer(metricsSrv, appLogger); err != nil {
			appLogger.Error("Prometheus metrics server failed", zap.Error(err))
		}
	}()

	// 14. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	healthServer.SetServingStatus(serviceName, grpc_health_v1.HealthCheckResponse_NOT_SERVING)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			appLogger.Error("Metrics server shutdown failed", zap.Error(err))
		}
	}
	grpcSrv.GracefulStop()
	appLogger.Info("Application stopped")
}
