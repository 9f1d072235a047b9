package main

import (
	"context"
	"time"

	"github.com/aibizeyes/admin-gateway/internal/config"
	"github.com/aibizeyes/admin-gateway/internal/handlers"
	"github.com/aibizeyes/admin-gateway/internal/middleware"
	"github.com/aibizeyes/admin-gateway/internal/models"
	"github.com/aibizeyes/admin-gateway/internal/services"
	"github.com/aibizeyes/admin-gateway/internal/store"
	"github.com/aibizeyes/admin-gateway/internal/upstream"
	"github.com/aibizeyes/admin-gateway/internal/utils"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"gorm.io/gorm"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg         *config.Config
	db          *gorm.DB
	store       *store.Store
	upstream    *upstream.Client
	taskQueue   services.TaskQueue
	worker      *services.Worker
	scheduler   *services.Scheduler
	events      *services.ReportEventHub
	rateLimiter *middleware.RateLimiter

	qualityService *services.QualityService

	authHandler         *handlers.AuthHandler
	dashboardHandler    *handlers.DashboardHandler
	userHandler         *handlers.UserHandler
	systemLogHandler    *handlers.SystemLogHandler
	statisticsHandler   *handlers.StatisticsHandler
	systemConfigHandler *handlers.SystemConfigHandler
	backupHandler       *handlers.BackupHandler
	qualityHandler      *handlers.QualityHandler
	notificationHandler *handlers.NotificationHandler
	reportHandler       *handlers.ReportHandler
	sseHandler          *handlers.SSEHandler
	healthHandler       *handlers.HealthHandler
}

// bootstrap initializes all application dependencies: database, mock
// repository, upstream client, services, queue and schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatalf("Failed to register validators: %v", err)
	}

	// The database only holds backup archives and scheduler locks.
	var db *gorm.DB
	if cfg.Database.Driver != "none" {
		var err error
		db, err = models.InitDB(&cfg.Database)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		if err := models.AutoMigrate(db); err != nil {
			logger.Fatalf("Failed to migrate database: %v", err)
		}
	} else {
		logger.Warn().Msg("Database disabled, backups will fail")
	}

	st := store.New()
	up := upstream.NewClient(cfg.Upstream)
	if !up.Configured() {
		logger.Warn().Msg("Upstream base URL not set, serving mock data only")
	}

	syslog := services.NewSystemLogger(st)
	userService := services.NewUserService(st, up, syslog)
	authService, err := services.NewAuthService(st, up, userService, syslog, cfg.JWT, cfg.Auth)
	if err != nil {
		logger.Fatalf("Failed to initialize auth: %v", err)
	}
	systemLogService := services.NewSystemLogService(st, up)
	fetchLogService := services.NewFetchLogService(st, up, syslog)
	statisticsService := services.NewStatisticsService(st, up)
	systemConfigService := services.NewSystemConfigService(st, up, syslog)
	notificationConfigService := services.NewNotificationConfigService(st, up, syslog)
	reportConfigService := services.NewReportConfigService(st, up, syslog)
	backupService := services.NewBackupService(st, up, db, systemConfigService, syslog)
	qualityService := services.NewQualityService(st, up)
	notificationService := services.NewNotificationService(st, up)
	dashboardService := services.NewDashboardService(st, up, services.NewCalendarService(), cfg.Dashboard)

	// Report rendering runs on Redis when enabled, otherwise in-process
	events := services.NewReportEventHub()
	taskQueue := services.NewTaskQueue(cfg)
	reportService := services.NewReportService(st, up, taskQueue, reportConfigService,
		services.NewSchedulerLocks(db), events, syslog)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(reportService.Process)
	}

	var worker *services.Worker
	if taskQueue.IsAsync() {
		worker = services.NewWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(reportService.Process)
			if err := worker.Start(); err != nil {
				logger.Error().Err(err).Msg("Failed to start worker")
			}
		}
	}

	scheduler := services.NewScheduler()
	if err := services.StartLogCleanup(scheduler, systemLogService); err != nil {
		logger.Fatalf("Failed to schedule log cleanup: %v", err)
	}
	if err := services.StartBackupSchedule(scheduler, backupService, cfg.Backup.Schedule); err != nil {
		logger.Fatalf("Invalid backup schedule %q: %v", cfg.Backup.Schedule, err)
	}
	if err := services.StartReportSchedule(scheduler, reportService); err != nil {
		logger.Fatalf("Failed to schedule reports: %v", err)
	}
	scheduler.Start()

	return &appServices{
		cfg:         cfg,
		db:          db,
		store:       st,
		upstream:    up,
		taskQueue:   taskQueue,
		worker:      worker,
		scheduler:   scheduler,
		events:      events,
		rateLimiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),

		qualityService: qualityService,

		authHandler:         handlers.NewAuthHandler(authService),
		dashboardHandler:    handlers.NewDashboardHandler(dashboardService),
		userHandler:         handlers.NewUserHandler(userService),
		systemLogHandler:    handlers.NewSystemLogHandler(systemLogService, fetchLogService),
		statisticsHandler:   handlers.NewStatisticsHandler(statisticsService),
		systemConfigHandler: handlers.NewSystemConfigHandler(systemConfigService, notificationConfigService, reportConfigService),
		backupHandler:       handlers.NewBackupHandler(backupService),
		qualityHandler:      handlers.NewQualityHandler(qualityService),
		notificationHandler: handlers.NewNotificationHandler(notificationService),
		reportHandler:       handlers.NewReportHandler(reportService),
		sseHandler:          handlers.NewSSEHandler(events, cfg.Auth.Enabled),
		healthHandler:       handlers.NewHealthHandler(db, st, up, taskQueue, events),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.scheduler.Stop(ctx)
	logger.Info().Msg("Scheduler stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		if err := s.taskQueue.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close task queue")
		}
	}
	s.rateLimiter.Stop()

	if s.db != nil {
		if sqlDB, err := s.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
}
