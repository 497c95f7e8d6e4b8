package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MichaelAmon/was-project/internal/config"
	"github.com/MichaelAmon/was-project/internal/engine"
	"github.com/MichaelAmon/was-project/internal/geofence"
	"github.com/MichaelAmon/was-project/internal/ledger"
	"github.com/MichaelAmon/was-project/internal/messaging/kafka"
	"github.com/MichaelAmon/was-project/internal/notify"
	"github.com/MichaelAmon/was-project/internal/pending"
	"github.com/MichaelAmon/was-project/internal/roster"
	"github.com/MichaelAmon/was-project/internal/shared/connection"
	"github.com/MichaelAmon/was-project/internal/webhook"
)

// BuildApp connects infrastructure and registers every route. Returns a stop
// func for background pieces owned by the app (pending sweeper).
func BuildApp(router *gin.Engine, cfg config.Config) (func(), error) {
	logger := zap.L()

	// 1. Infrastructure
	gormDB, err := connection.ConnectGORMWithRetry(
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode, 5,
	)
	if err != nil {
		return nil, err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, err
	}

	if err := gormDB.AutoMigrate(&roster.StaffMember{}, &ledger.AttendanceRecord{}); err != nil {
		return nil, err
	}

	redisClient, err := connection.ConnectRedisWithRetry(cfg.RedisAddr, 5)
	if err != nil {
		return nil, err
	}

	offices, err := config.LoadOffices(cfg.OfficesFile)
	if err != nil {
		return nil, err
	}
	logger.Info("offices loaded", zap.Int("count", len(offices)))

	// 2. Core wiring
	matcher := geofence.NewMatcher(offices)

	pendingStore := pending.NewStore(cfg.PendingRequestTTL)
	pendingStore.StartSweeper(cfg.PendingSweepInterval, logger)

	rosterRepo := roster.NewRepository(gormDB)
	rosterService := roster.NewService(rosterRepo, redisClient, logger)

	outboxRepo := kafka.NewOutboxRepository(sqlDB)
	ledgerRepo := ledger.NewRepository(gormDB)
	ledgerService := ledger.NewService(sqlDB, ledgerRepo, outboxRepo)

	notifier := notify.NewClient(cfg.GraphAPIBaseURL, cfg.WhatsAppToken, cfg.PhoneNumberID, logger)

	eng := engine.New(rosterService, ledgerService, notifier, pendingStore, matcher, logger)

	// 3. Handlers & routes
	deduper := webhook.NewDeduper(redisClient, logger)
	webhookHandler := webhook.NewHandler(eng, deduper, cfg.VerifyToken, logger)
	webhook.RegisterRoutes(router, webhookHandler)

	ledgerHandler := ledger.NewHandler(ledgerService)
	api := router.Group("/api/v1")
	{
		ledger.RegisterRoutes(api, ledgerHandler, cfg.AdminToken)
	}

	stop := func() {
		pendingStore.Stop()
		_ = redisClient.Close()
		_ = sqlDB.Close()
	}
	return stop, nil
}
