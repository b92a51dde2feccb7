package main

// Worker-Prozess: arbeitet die Zimbra-Sync-Queue über asynq ab und plant den
// periodischen Drain.

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/neolist/neolist/internal/abstraction/cache"
	"github.com/neolist/neolist/internal/config"
	"github.com/neolist/neolist/internal/db"
	"github.com/neolist/neolist/internal/logger"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/neolist/neolist/internal/worker"
	worker_handler "github.com/neolist/neolist/internal/worker/handlers"
	"github.com/neolist/neolist/internal/zimbra"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.LoadConfig()
	if cfg == nil {
		log.Fatal().Msg("Konfiguration konnte nicht geladen werden")
	}
	logger.Setup(logger.Options{
		Level:      cfg.LOG.Level,
		File:       cfg.LOG.File,
		Production: cfg.APP.State == "production",
	})

	dbPool := db.ConnectPool(cfg.DATABASE.Postgres.DSN)
	if dbPool == nil {
		log.Fatal().Msg("Datenbank-Pool konnte nicht erstellt werden")
	}
	redisPool, err := db.RedisPool(cfg.DATABASE.Redis.Addr, cfg.DATABASE.Redis.Password, cfg.DATABASE.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis-Pool konnte nicht erstellt werden")
	}

	adapter, err := zimbra.NewAdapter(zimbra.Config{
		BaseURL:            cfg.ZIMBRA.BaseURL,
		PreauthKey:         cfg.ZIMBRA.PreauthKey,
		TasksFolder:        cfg.ZIMBRA.TasksFolder,
		Timeout:            cfg.ZIMBRA.Timeout,
		InsecureSkipVerify: cfg.ZIMBRA.InsecureSkipVerify,
		SessionTTL:         cfg.ZIMBRA.SessionTTL,
	}, cache.NewRedisCache(redisPool, "zimbra"))
	if err != nil {
		log.Fatal().Err(err).Msg("Zimbra-Adapter konnte nicht initialisiert werden")
	}
	syncSvc := zimbra_sync_case.NewZimbraSyncService(dbPool, adapter, zimbra_sync_case.Config{
		BatchSize:    cfg.SYNC.BatchSize,
		MaxAttempts:  cfg.SYNC.MaxAttempts,
		BaseBackoff:  cfg.SYNC.BaseBackoff,
		ClaimTimeout: cfg.SYNC.ClaimTimeout,
	})

	handler := worker_handler.NewWorkerHandler(syncSvc, cfg.SYNC.BatchSize)
	mux := asynq.NewServeMux()
	worker.RegisterWorkerHandlers(mux, handler)

	srv := worker.NewWorkerServer(redisPool, worker.ServerOptions{
		Concurrency:     cfg.SYNC.WorkerConcurrency,
		ShutdownTimeout: cfg.SYNC.ShutdownTimeout,
	})
	scheduler := worker.NewScheduler(redisPool)
	if err := worker.RegisterCronJobs(scheduler, cfg.SYNC.DrainCron); err != nil {
		log.Fatal().Err(err).Msg("Cron-Jobs konnten nicht registriert werden")
	}

	if err := srv.Start(mux); err != nil {
		log.Fatal().Err(err).Msg("Worker konnte nicht gestartet werden")
	}
	if err := scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("Scheduler konnte nicht gestartet werden")
	}
	log.Info().Msg("Worker läuft")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Shutdown-Signal empfangen")

	scheduler.Shutdown()
	srv.Shutdown()
	redisPool.Close()
	dbPool.Close()
	log.Info().Msg("Worker heruntergefahren")
}
