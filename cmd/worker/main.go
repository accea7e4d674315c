package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"inboxiq/internal/config"
	"inboxiq/internal/fingerprint"
	"inboxiq/internal/intelligence"
	"inboxiq/internal/mqhandler"
	"inboxiq/internal/priority"
	"inboxiq/internal/repository"
	"inboxiq/internal/service"
	"inboxiq/pkg/circuitbreaker"
	"inboxiq/pkg/db"
	"inboxiq/pkg/logger"
	"inboxiq/pkg/mq"
	"inboxiq/pkg/redis"
	"inboxiq/pkg/util"

	mqcontracts "inboxiq/contracts/mq"
)

func main() {
	cfg := config.Load()
	logger := logger.NewLogger()
	defer logger.Sync()

	logger.Info("Starting intelligence worker...")

	// Redis
	rdb := redis.NewRedisClient(cfg.Redis)
	defer rdb.Close()

	deduper := util.NewDeduper(rdb, time.Duration(cfg.Intelligence.InFlightTTLSeconds)*time.Second, logger)
	retryCounter := util.NewRetryCounter(rdb, time.Hour)

	// DB
	dbConn, err := db.NewConnection(cfg.DB, logger)
	if err != nil {
		logger.Fatal("DB connection failed", zap.Error(err))
	}
	defer dbConn.Close()

	if err := repository.EnsureSchema(context.Background(), dbConn); err != nil {
		logger.Fatal("Schema setup failed", zap.Error(err))
	}
	logger.Info("DB ready")

	// repositories
	emailRepo := repository.NewEmailRepository(dbConn, logger)
	insightRepo := repository.NewInsightRepository(dbConn, logger)
	categoryRepo := repository.NewCategoryRepository(dbConn, logger)
	followUpRepo := repository.NewFollowUpRepository(dbConn, logger)
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

	pipeline := service.NewPipeline(
		emailRepo, generator, intelligence.NewCategorizer(), scheduler,
		store, syncStateRepo, cfg.Intelligence.MaxConcurrent, logger,
	)

	// handlers
	syncedHandler := mqhandler.NewEmailSyncedHandler(pipeline, retryCounter, logger)
	requestedHandler := mqhandler.NewSyncRequestedHandler(pipeline, logger)

	// -------------------------
	// Email Synced Consumer
	// -------------------------
	logger.Info("Init consumer: email.synced.q")
	consumerSynced, err := mq.NewConsumer(
		cfg.MQ.URL,
		"email.synced.q",
		mqcontracts.RoutingKeyEmailSynced,
		cfg.Intelligence.MaxConcurrent,
		logger,
	)
	if err != nil {
		logger.Fatal("Synced consumer init failed", zap.Error(err))
	}
	consumerSynced.SetHandler(syncedHandler.Handle)
	go func() {
		if err := consumerSynced.StartConsuming(); err != nil {
			logger.Fatal("Synced consumer crashed", zap.Error(err))
		}
	}()
	defer consumerSynced.Close()

	// -------------------------
	// Sync Requested Consumer
	// -------------------------
	logger.Info("Init consumer: email.sync.requested.q")
	consumerRequested, err := mq.NewConsumer(
		cfg.MQ.URL,
		"email.sync.requested.q",
		mqcontracts.RoutingKeySyncRequested,
		1,
		logger,
	)
	if err != nil {
		logger.Fatal("Requested consumer init failed", zap.Error(err))
	}
	consumerRequested.SetHandler(requestedHandler.Handle)
	go func() {
		if err := consumerRequested.StartConsuming(); err != nil {
			logger.Fatal("Requested consumer crashed", zap.Error(err))
		}
	}()
	defer consumerRequested.Close()

	logger.Info("Worker running")
	select {}
}
