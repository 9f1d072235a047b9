package main

import (
	"github.com/aibizeyes/admin-gateway/internal/middleware"
	"github.com/aibizeyes/admin-gateway/pkg/logger"
	"github.com/gin-gonic/gin"
)

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	// Middleware
	r.Use(middleware.RequestID(), logger.GinLogger(), logger.GinRecovery(), middleware.Metrics())
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false
	r.Use(middleware.CORS(svc.cfg.Server.CORSOrigins))

	limited := svc.rateLimiter.Middleware()

	r.GET("/metrics", svc.healthHandler.Metrics())

	api := r.Group("/api")
	{
		api.GET("/health", svc.healthHandler.CheckHealth)

		// Auth routes (public)
		api.POST("/auth/login", limited, svc.authHandler.Login)

		// SSE Events (token may come as a query parameter)
		api.GET("/reports/events", svc.sseHandler.StreamReportEvents)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthRequired(svc.cfg.Auth.Enabled, svc.cfg.Auth.AdminUsername))
		{
			protected.GET("/auth/me", svc.authHandler.Me)

			// Dashboard
			protected.GET("/dashboard/stats", svc.dashboardHandler.Stats)
			protected.GET("/dashboard/charts", svc.dashboardHandler.Charts)
			protected.GET("/dashboard/recent-activity", svc.dashboardHandler.RecentActivity)
			protected.GET("/dashboard/timeline", svc.dashboardHandler.Timeline)
			protected.POST("/dashboard/refresh", limited, svc.dashboardHandler.Refresh)

			// Notifications
			protected.GET("/notifications", svc.notificationHandler.List)
			protected.PUT("/notifications/bulk", svc.notificationHandler.Bulk)
			protected.GET("/notifications/settings", svc.notificationHandler.Settings)
			protected.POST("/notifications/settings", svc.notificationHandler.UpdateSettings)
			protected.GET("/notifications/stats", svc.notificationHandler.Stats)

			// Reports
			protected.GET("/reports", svc.reportHandler.List)
			protected.POST("/reports/generate", svc.reportHandler.Generate)
			protected.GET("/reports/:id/download", svc.reportHandler.Download)
		}

		// Admin only routes
		admin := protected.Group("/admin")
		admin.Use(middleware.AdminRequired(), middleware.AuditTrail(svc.qualityService))
		{
			// Users
			admin.GET("/users", svc.userHandler.List)
			admin.POST("/users", svc.userHandler.Create)
			admin.PUT("/users/:id", svc.userHandler.Update)
			admin.DELETE("/users/:id", svc.userHandler.Delete)

			// System Logs
			admin.GET("/logs", svc.systemLogHandler.List)
			admin.GET("/logs/modules", svc.systemLogHandler.Modules)

			// Fetch Logs
			admin.GET("/fetch-logs", svc.systemLogHandler.FetchLogs)
			admin.POST("/fetch-logs/:id/retry", svc.systemLogHandler.RetryFetch)

			admin.GET("/statistics", svc.statisticsHandler.Get)

			// System Config
			admin.GET("/system-configs", svc.systemConfigHandler.List)
			admin.GET("/system-configs/:id", svc.systemConfigHandler.Get)
			admin.PUT("/system-configs/:id", svc.systemConfigHandler.Update)

			// Notification Configs
			admin.GET("/notification-configs", svc.systemConfigHandler.ListNotificationConfigs)
			admin.GET("/notification-configs/:id", svc.systemConfigHandler.GetNotificationConfig)
			admin.POST("/notification-configs", svc.systemConfigHandler.CreateNotificationConfig)
			admin.PUT("/notification-configs/:id", svc.systemConfigHandler.UpdateNotificationConfig)
			admin.DELETE("/notification-configs/:id", svc.systemConfigHandler.DeleteNotificationConfig)

			// Report Configs
			admin.GET("/report-configs", svc.systemConfigHandler.ListReportConfigs)
			admin.GET("/report-configs/:id", svc.systemConfigHandler.GetReportConfig)
			admin.POST("/report-configs", svc.systemConfigHandler.CreateReportConfig)
			admin.PUT("/report-configs/:id", svc.systemConfigHandler.UpdateReportConfig)
			admin.DELETE("/report-configs/:id", svc.systemConfigHandler.DeleteReportConfig)

			// Backups
			admin.GET("/backups", svc.backupHandler.List)
			admin.POST("/backups", svc.backupHandler.Create)
			admin.GET("/backups/:id/download", svc.backupHandler.Download)

			// Data Quality
			admin.GET("/quality/metrics", svc.qualityHandler.Metrics)
			admin.GET("/quality/audit-logs", svc.qualityHandler.AuditLogs)
			admin.GET("/quality/export-audit-logs", svc.qualityHandler.ExportAuditLogs)
			admin.GET("/quality/report", svc.qualityHandler.Report)
			admin.GET("/quality/audit-settings", svc.qualityHandler.AuditSettings)
			admin.PUT("/quality/audit-settings", svc.qualityHandler.UpdateAuditSettings)
		}
	}
}
