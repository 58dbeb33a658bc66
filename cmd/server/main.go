package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agile-learning-aid/quiz-analytics-service/internal/cache"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/config"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/events"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/handlers"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/repositories/postgres"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/services"
	"github.com/agile-learning-aid/quiz-analytics-service/internal/utils"
	"github.com/agile-learning-aid/quiz-analytics-service/pkg"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		os.Exit(1)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}
	slogger := utils.ToSlogLogger(logger)

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepository(db)

	// Redis is optional; without it report reads go straight to Postgres.
	var cacheService cache.CacheService
	if cfg.RedisURL != "" {
		redisClient, err := pkg.NewRedisClient(cfg)
		if err != nil {
			logger.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
	} else {
		logger.Warn("Redis not configured, report cache disabled")
	}

	// Kafka is optional; without it lifecycle events are dropped.
	var publisher events.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
			KafkaBrokers: cfg.KafkaBrokers,
			TopicName:    cfg.KafkaTopic,
			Logger:       slogger,
		})
		if err != nil {
			logger.Error("Failed to create Kafka publisher", "error", err)
			os.Exit(1)
		}
		publisher = kafkaPublisher
	} else {
		logger.Warn("Kafka not configured, analytics events will not be published")
		publisher = events.NewNoopPublisher()
	}
	defer publisher.Close()

	validator := utils.NewValidator()

	reportService := services.NewReportService(repo, slogger, cacheService, publisher)
	dispatcher := services.NewRecomputeDispatcher(reportService, slogger)
	dispatcher.Start()
	defer dispatcher.Stop()

	gradingService := services.NewGradingService(repo, slogger, validator, publisher, dispatcher)
	catalogService := services.NewCatalogService(repo, slogger, validator)
	analyticsService := services.NewQuizAnalyticsService(repo, slogger)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlerManager := handlers.NewHandlerManager(
		gradingService,
		reportService,
		catalogService,
		analyticsService,
		validator,
		logger,
	)
	handlerManager.SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Starting quiz analytics service", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Graceful shutdown failed", "error", err)
	}
}
