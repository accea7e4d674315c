package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inboxiq/internal/api"
	"inboxiq/internal/calendar"
	"inboxiq/internal/config"
	"inboxiq/internal/fingerprint"
	"inboxiq/internal/intelligence"
	"inboxiq/internal/priority"
	"inboxiq/internal/repository"
	"inboxiq/internal/service"
	"inboxiq/pkg/circuitbreaker"
	"inboxiq/pkg/db"
	"inboxiq/pkg/logger"
	"inboxiq/pkg/mq"
	"inboxiq/pkg/redis"
	"inboxiq/pkg/util"
)

func main() {
	cfg := config.Load()
	logger := logger.NewLogger()
	defer logger.Sync()

	logger.Info("Starting API service...")

	// Redis
	rdb := redis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Duration(cfg.Intelligence.InFlightTTLSeconds)*time.Second, logger)
	gate := util.NewCooldownGate(rdb, time.Duration(cfg.Intelligence.SyncCooldownSeconds)*time.Second)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := repository.EnsureSchema(context.Background(), dbConn); err != nil {
		logger.Fatal("Schema setup failed", zap.Error(err))
	}

	// MQ publisher for manual sync fan-out
	publisher, err := mq.NewPublisher(cfg.MQ.URL)
	if err != nil {
		logger.Fatal("MQ publisher init failed", zap.Error(err))
	}
	defer publisher.Close()

	// repositories
	emailRepo := repository.NewEmailRepository(dbConn, logger)
	insightRepo := repository.NewInsightRepository(dbConn, logger)
	categoryRepo := repository.NewCategoryRepository(dbConn, logger)
	followUpRepo := repository.NewFollowUpRepository(dbConn, logger)
	draftRepo := repository.NewDraftRepository(dbConn, logger)
	prefRepo := repository.NewPreferenceRepository(dbConn, logger)
	syncStateRepo := repository.NewSyncStateRepository(dbConn, logger)
	store := repository.NewStore(dbConn, insightRepo, categoryRepo, followUpRepo, logger)

	// intelligence stack
	fp := fingerprint.NewFingerprinter()
	providerTimeout := time.Duration(cfg.Provider.TimeoutSeconds) * time.Second
	llm := intelligence.NewLLMClient(
		cfg.Provider.BaseURL,
		providerTimeout,
		circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger,
	)
	heuristic := intelligence.NewHeuristicProvider(fp)
	scorer := priority.NewScorer(cfg.Intelligence.BlendMargin)

	generator := intelligence.NewGenerator(
		llm, heuristic, scorer, fp, insightRepo, deduper,
		intelligence.GeneratorConfig{ProviderTimeout: providerTimeout},
		logger,
	)
	scheduler := intelligence.NewScheduler(intelligence.SchedulerConfig{
		DefaultDueDays:    cfg.Intelligence.DefaultDueDays,
		PriorityDueDays:   cfg.Intelligence.PriorityDueDays,
		PriorityThreshold: cfg.Intelligence.PriorityThreshold,
		UrgentDueWindow:   time.Duration(cfg.Intelligence.UrgentDueHours) * time.Hour,
	})
	composer := intelligence.NewComposer(
		llm, heuristic,
		intelligence.GeneratorConfig{ProviderTimeout: providerTimeout},
		logger,
	)

	// services
	pipeline := service.NewPipeline(
		emailRepo, generator, intelligence.NewCategorizer(), scheduler,
		store, syncStateRepo, cfg.Intelligence.MaxConcurrent, logger,
	)
	draftService := service.NewDraftService(emailRepo, pipeline, draftRepo, prefRepo, composer, logger)
	followUpService := service.NewFollowUpService(followUpRepo, logger)
	syncTrigger := service.NewSyncTrigger(gate, publisher, logger)

	calClient := calendar.NewClient(
		cfg.Calendar.BaseURL,
		time.Duration(cfg.Calendar.TimeoutSeconds)*time.Second,
		circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger,
	)
	coordinator := calendar.NewCoordinator(calClient, followUpRepo, logger)

	// HTTP surface
	router := api.NewRouter(
		api.NewInsightHandler(insightRepo, categoryRepo, pipeline, logger),
		api.NewDraftHandler(draftService, logger),
		api.NewFollowUpHandler(followUpService, coordinator, logger),
		api.NewSyncHandler(syncTrigger, logger),
		dbConn,
	)

	logger.Info("API listening", zap.String("port", cfg.Server.Port))
	if err := router.Run(cfg.Server.Port); err != nil {
		logger.Fatal("HTTP server crashed", zap.Error(err))
	}
}
