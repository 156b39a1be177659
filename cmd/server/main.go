// Package main is the entry point for the Bulwark risk-and-hedging engine.
// It aggregates portfolio option exposure, scores positions and trading
// behavior, and ranks hedge candidates by cost per unit of risk reduced.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/aristath/bulwark/internal/cache"
	"github.com/aristath/bulwark/internal/clients/fundview"
	"github.com/aristath/bulwark/internal/clients/ibgw"
	"github.com/aristath/bulwark/internal/config"
	"github.com/aristath/bulwark/internal/database"
	"github.com/aristath/bulwark/internal/domain"
	"github.com/aristath/bulwark/internal/modules/assessment"
	"github.com/aristath/bulwark/internal/modules/behavior"
	behaviorhandlers "github.com/aristath/bulwark/internal/modules/behavior/handlers"
	"github.com/aristath/bulwark/internal/modules/exposure"
	exposurehandlers "github.com/aristath/bulwark/internal/modules/exposure/handlers"
	"github.com/aristath/bulwark/internal/modules/hedging"
	hedginghandlers "github.com/aristath/bulwark/internal/modules/hedging/handlers"
	"github.com/aristath/bulwark/internal/modules/scoring"
	scoringhandlers "github.com/aristath/bulwark/internal/modules/scoring/handlers"
	"github.com/aristath/bulwark/internal/modules/technical"
	"github.com/aristath/bulwark/internal/reliability"
	"github.com/aristath/bulwark/internal/scheduler"
	"github.com/aristath/bulwark/internal/server"
	"github.com/aristath/bulwark/pkg/logger"
	"github.com/rs/zerolog"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})

	log.Info().Msg("Starting Bulwark")

	// Databases
	portfolioDB, err := database.New(database.Config{
		Path: filepath.Join(cfg.DataDir, "portfolio.db"),
		Name: "portfolio",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open portfolio database")
	}
	defer portfolioDB.Close()

	historyDB, err := database.New(database.Config{
		Path: filepath.Join(cfg.DataDir, "history.db"),
		Name: "history",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open history database")
	}
	defer historyDB.Close()

	for _, db := range []*database.DB{portfolioDB, historyDB} {
		if err := db.Migrate(); err != nil {
			log.Fatal().Err(err).Str("database", db.Name()).Msg("Failed to run migrations")
		}
	}

	// Clients
	broker := ibgw.NewClient(cfg.BrokerBaseURL, cfg.BrokerAPIKey, cfg.BrokerAPISecret, log)
	fundamentals := fundview.NewClient(cfg.FundamentalsBaseURL, log)

	// Engine services
	scoreCache := cache.NewMemory()
	technicalService := technical.NewService(technical.NewPriceRepository(historyDB.Conn(), log), log)

	scoringService := scoring.NewService(
		technicalService,
		fundamentals,
		scoring.NewScorer(),
		scoring.NewScoreRepository(portfolioDB.Conn(), log),
		scoreCache,
		time.Duration(cfg.ScoreCacheTTLSec)*time.Second,
		log,
	)
	assessmentService := assessment.NewService(scoringService, cfg.BatchConcurrency, log)

	behaviorService := behavior.NewService(
		broker,
		behavior.NewScorer(),
		behavior.NewMetricsRepository(portfolioDB.Conn(), log),
		cfg.BehaviorWindow,
		log,
	)

	aggregator := exposure.NewAggregator(cfg.ShortDTEDays, log)
	estimator := hedging.NewCostEstimator(cfg.Risk, cfg.Cost, cfg.ShortDTEDays, log)
	hedgingService := hedging.NewService(broker, aggregator, hedging.NewAdvisor(estimator, log), log)

	// HTTP server
	srv := server.New(server.Config{
		Log:         log,
		Cfg:         cfg,
		PortfolioDB: portfolioDB,
		HistoryDB:   historyDB,
		Broker:      broker,

		ScoringHandlers:  scoringhandlers.NewHandler(scoringService, assessmentService, cfg.DefaultAccount, log),
		BehaviorHandlers: behaviorhandlers.NewHandler(behaviorService, cfg.DefaultAccount, log),
		ExposureHandlers: exposurehandlers.NewHandler(hedgingService, cfg.DefaultAccount, log),
		HedgingHandlers:  hedginghandlers.NewHandler(hedgingService, cfg.DefaultAccount, log),
	})

	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Background jobs
	sched := scheduler.New(log)
	addJob(sched, "@hourly", scheduler.NewScoreRefreshJob(broker, scoringService, cfg.DefaultAccount, log), log)
	addJob(sched, "0 18 * * *", scheduler.NewBehaviorScanJob(behaviorService, cfg.DefaultAccount, log), log)

	if cfg.BackupEndpoint != "" {
		s3Client, err := reliability.NewS3Client(context.Background(), reliability.S3Config{
			Endpoint:  cfg.BackupEndpoint,
			Bucket:    cfg.BackupBucket,
			AccessKey: cfg.BackupAccessKey,
			SecretKey: cfg.BackupSecretKey,
		}, log)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize backup storage, backups disabled")
		} else {
			backupService := reliability.NewBackupService(
				[]*database.DB{portfolioDB, historyDB}, s3Client, cfg.DataDir, log)
			addJob(sched, "0 3 * * *", scheduler.NewBackupJob(backupService, cfg.BackupRetentionDays, log), log)
		}
	}

	sched.Start()

	// Quote stream keeps the cache warm for symbols the broker pushes
	streamCtx, stopStream := context.WithCancel(context.Background())
	if cfg.BrokerStreamURL != "" {
		stream := ibgw.NewQuoteStream(cfg.BrokerStreamURL, nil, func(q domain.Quote) {
			if err := scoreCache.Set("quote:"+q.Symbol, q, time.Minute); err != nil {
				log.Warn().Err(err).Str("symbol", q.Symbol).Msg("Failed to cache quote")
			}
		}, log)
		go stream.Run(streamCtx)
	}

	log.Info().Int("port", cfg.Port).Msg("Bulwark started")

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	stopStream()
	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Shutdown complete")
}

func addJob(sched *scheduler.Scheduler, schedule string, job scheduler.Job, log zerolog.Logger) {
	if err := sched.AddJob(schedule, job); err != nil {
		log.Fatal().Err(err).Str("job", job.Name()).Msg("Failed to register job")
	}
}
