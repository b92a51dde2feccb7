package main

// Einstiegspunkt der NeoList-API: Konfiguration laden, Postgres und Redis
// verbinden, Migrationen ausführen, Services verdrahten und die Fiber-App
// mit Middleware und Routern starten.

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/neolist/neolist/internal/abstraction/cache"
	"github.com/neolist/neolist/internal/abstraction/session"
	"github.com/neolist/neolist/internal/config"
	"github.com/neolist/neolist/internal/db"
	"github.com/neolist/neolist/internal/i18n"
	"github.com/neolist/neolist/internal/logger"
	"github.com/neolist/neolist/internal/middleware"
	"github.com/neolist/neolist/internal/queue"
	"github.com/neolist/neolist/internal/routers"
	admin_case "github.com/neolist/neolist/internal/use-cases/admin-case"
	auth_case "github.com/neolist/neolist/internal/use-cases/auth-case"
	folder_case "github.com/neolist/neolist/internal/use-cases/folder-case"
	task_case "github.com/neolist/neolist/internal/use-cases/task-case"
	user_case "github.com/neolist/neolist/internal/use-cases/user-case"
	zimbra_sync_case "github.com/neolist/neolist/internal/use-cases/zimbra-sync-case"
	"github.com/neolist/neolist/internal/utils"
	"github.com/neolist/neolist/internal/zimbra"
	"github.com/rs/zerolog/log"
)

func main() {
	// 0. Konfiguration und Logger
	cfg := config.LoadConfig()
	if cfg == nil {
		log.Fatal().Msg("Konfiguration konnte nicht geladen werden")
	}
	logger.Setup(logger.Options{
		Level:      cfg.LOG.Level,
		File:       cfg.LOG.File,
		Production: cfg.APP.State == "production",
	})
	i18nSvc := i18n.NewInitI18nService()

	// 1. Postgres und Redis
	dbPool := db.ConnectPool(cfg.DATABASE.Postgres.DSN)
	if dbPool == nil {
		log.Fatal().Msg("Datenbank-Pool konnte nicht erstellt werden")
	}
	redisPool, err := db.RedisPool(cfg.DATABASE.Redis.Addr, cfg.DATABASE.Redis.Password, cfg.DATABASE.Redis.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("Redis-Pool konnte nicht erstellt werden")
	}

	if cfg.DATABASE.Postgres.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.Migrate(ctx, dbPool); err != nil {
			cancel()
			log.Fatal().Err(err).Msg("Migration fehlgeschlagen")
		}
		cancel()
	}

	// 2. Paseto, Sessions, Cache
	paseto, err := utils.NewPasetoMaker(cfg.APP_SECRET.Paseto.HexKey)
	if err != nil {
		log.Fatal().Err(err).Msg("Paseto-Maker konnte nicht initialisiert werden")
	}
	sessions := session.NewRedisStore(redisPool)
	appCache := cache.NewRedisCache(redisPool, "neolist")

	// 3. Zimbra-Adapter und Reconciler
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
	if adapter == nil {
		log.Warn().Msg("Zimbra nicht konfiguriert, Synchronisierung wird übersprungen")
	}
	syncSvc := zimbra_sync_case.NewZimbraSyncService(dbPool, adapter, zimbra_sync_case.Config{
		BatchSize:    cfg.SYNC.BatchSize,
		MaxAttempts:  cfg.SYNC.MaxAttempts,
		BaseBackoff:  cfg.SYNC.BaseBackoff,
		ClaimTimeout: cfg.SYNC.ClaimTimeout,
	})
	taskQueue := queue.NewTaskQueue(redisPool)

	limiterStorage, err := routers.NewLimiterStorage(cfg.DATABASE.Redis.Addr, cfg.DATABASE.Redis.Password, cfg.DATABASE.Redis.LimiterDB)
	if err != nil {
		log.Fatal().Err(err).Msg("Limiter-Speicher konnte nicht initialisiert werden")
	}

	// 4. Fiber-App mit ErrorHandler, RequestID-, Sprach- und Logger-Middleware
	app := fiber.New(fiber.Config{
		AppName:      cfg.APP.Name,
		ErrorHandler: middleware.ErrorHandlerMiddleware(i18nSvc),
		BodyLimit:    6 << 20,
	})
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.AcceptLanguageMiddleware())
	app.Use(middleware.LoggerMiddleware())

	// 5. Routen
	routers.SetupRoutes(app, routers.Deps{
		DB:             dbPool,
		Redis:          redisPool,
		I18n:           i18nSvc,
		Paseto:         paseto,
		Sessions:       sessions,
		Auth:           auth_case.NewAuthService(dbPool, sessions, paseto, cfg.APP_SECRET.Paseto.TokenTTL),
		User:           user_case.NewUserService(dbPool, appCache, sessions, syncSvc, taskQueue),
		Folder:         folder_case.NewFolderService(dbPool, syncSvc, taskQueue),
		Task:           task_case.NewTaskService(dbPool, syncSvc, taskQueue),
		Admin:          admin_case.NewAdminService(dbPool, syncSvc, taskQueue),
		LimiterStorage: limiterStorage,
	})

	// 6. HTTP-Server in einer Goroutine starten
	go func() {
		log.Info().Msgf("Starte %s auf Port %s", cfg.APP.Name, cfg.APP.Port)
		if err := app.Listen(fmt.Sprintf(":%s", cfg.APP.Port)); err != nil {
			log.Fatal().Err(err).Msg("Der Server konnte nicht gestartet werden")
		}
	}()

	// 7. Graceful Shutdown bei SIGINT/SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()
	log.Warn().Msg("Shutdown-Signal empfangen... Vorbereitung zum Herunterfahren.")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("Beim Herunterfahren ist ein Fehler aufgetreten")
	}
	if err := taskQueue.Close(); err != nil {
		log.Error().Err(err).Msg("Queue-Client konnte nicht geschlossen werden")
	}
	if err := limiterStorage.Close(); err != nil {
		log.Error().Err(err).Msg("Limiter-Speicher konnte nicht geschlossen werden")
	}
	redisPool.Close()
	dbPool.Close()
	log.Info().Msg("Server ordnungsgemäß heruntergefahren.")
}
