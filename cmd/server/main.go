package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-co-op/gocron"
	"github.com/quizforge/quiz-service/internal/cache"
	"github.com/quizforge/quiz-service/internal/config"
	"github.com/quizforge/quiz-service/internal/events"
	"github.com/quizforge/quiz-service/internal/genai"
	"github.com/quizforge/quiz-service/internal/handlers"
	"github.com/quizforge/quiz-service/internal/repositories/postgres"
	"github.com/quizforge/quiz-service/internal/services"
	"github.com/quizforge/quiz-service/internal/session"
	"github.com/quizforge/quiz-service/internal/utils"
	"github.com/quizforge/quiz-service/internal/validator"
	"github.com/quizforge/quiz-service/pkg"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	var logger utils.Logger
	if cfg.Environment == "production" {
		logger = utils.NewDefaultLogger()
	} else {
		logger = utils.NewDevelopmentLogger()
	}

	db, err := pkg.InitDatabase(cfg)
	if err != nil {
		logger.Error("database init failed", "error", err)
		os.Exit(1)
	}
	if err := postgres.AutoMigrate(db); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}
	repo := postgres.NewRepository(db)
	defer repo.Close()

	// The session store and cache share the Redis client; without Redis
	// the service falls back to in-process equivalents.
	var (
		cacheService cache.CacheService = cache.NoopCache{}
		sessionStore session.Store
		scheduler    *gocron.Scheduler
	)
	if redisClient, err := pkg.NewRedisClient(cfg); err != nil {
		logger.Warn("redis unavailable, using in-memory session store", "error", err)
		memoryStore := session.NewMemoryStore(cfg.SessionTTL)
		sessionStore = memoryStore

		scheduler = gocron.NewScheduler(time.UTC)
		scheduler.Every(cfg.SessionSweepInterval).Do(func() {
			if removed := memoryStore.Sweep(); removed > 0 {
				logger.Info("swept expired quiz sessions", "removed", removed)
			}
		})
		scheduler.StartAsync()
		defer scheduler.Stop()
	} else {
		defer redisClient.Close()
		cacheService = cache.NewRedisCache(redisClient, logger)
		sessionStore = session.NewRedisStore(redisClient, cfg.SessionTTL)
	}

	var publisher events.EventPublisher
	kafkaPublisher, err := events.NewKafkaEventPublisher(events.PublisherConfig{
		KafkaBrokers: cfg.KafkaBrokers,
		TopicName:    cfg.EventsTopic,
		Logger:       utils.ToSlogLogger(logger),
	})
	if err != nil {
		logger.Warn("kafka unavailable, events will not be published", "error", err)
	} else {
		publisher = kafkaPublisher
		defer kafkaPublisher.Close()
	}

	var genaiClient genai.Client
	if cfg.GenAIAPIKey != "" {
		genaiClient = genai.NewChatClient(cfg.GenAIAPIKey, cfg.GenAIAPIURL)
	}

	serviceManager := services.NewManager(services.ManagerDeps{
		Repo:      repo,
		Store:     sessionStore,
		Cache:     cacheService,
		Publisher: publisher,
		GenAI:     genaiClient,
		Validator: validator.New(),
		Logger:    logger,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.LoggerMiddleware(logger))

	handlers.NewHandlerManager(serviceManager, logger).SetupRoutes(router)

	server := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("quiz service listening", "port", cfg.Port, "environment", cfg.Environment)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}
