package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/engage-dash-api/api/swagger"
	"github.com/noah-isme/engage-dash-api/internal/analytics"
	"github.com/noah-isme/engage-dash-api/internal/handler"
	"github.com/noah-isme/engage-dash-api/internal/middleware"
	"github.com/noah-isme/engage-dash-api/internal/models"
	"github.com/noah-isme/engage-dash-api/internal/repository"
	"github.com/noah-isme/engage-dash-api/internal/service"
	"github.com/noah-isme/engage-dash-api/pkg/cache"
	"github.com/noah-isme/engage-dash-api/pkg/config"
	"github.com/noah-isme/engage-dash-api/pkg/database"
	"github.com/noah-isme/engage-dash-api/pkg/jobs"
	"github.com/noah-isme/engage-dash-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/engage-dash-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/engage-dash-api/pkg/middleware/requestid"
	"github.com/noah-isme/engage-dash-api/pkg/storage"
)

// @title Engage Dash API
// @version 1.0.0
// @description Attendance and engagement analytics dashboard engine
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	metricsService := service.NewMetricsService()

	var cacheService *service.CacheService
	if redisClient != nil {
		cacheRepo := repository.NewCacheRepository(redisClient, logr)
		cacheService = service.NewCacheService(cacheRepo, metricsService, cfg.Analytics.CacheTTL, logr, true)
		defer cacheRepo.Close() //nolint:errcheck
	}

	userRepo := repository.NewUserRepository(db)
	attendanceRepo := repository.NewAttendanceRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	reportRepo := repository.NewReportRepository(db)

	engine := analytics.NewEngine(nil)
	analyticsService := service.NewAnalyticsService(userRepo, attendanceRepo, engagementRepo, engine, cacheService, metricsService, logr)

	authService := service.NewAuthService(userRepo, nil, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "engage-dash-api",
	})
	userService := service.NewUserService(userRepo, analyticsService, logr)
	attendanceService := service.NewAttendanceService(attendanceRepo, userRepo, analyticsService, logr)
	engagementService := service.NewEngagementService(engagementRepo, userRepo, analyticsService, logr)

	exportStorage, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init export storage", "error", err)
	}
	signer := storage.NewSignedURLSigner(cfg.Reports.SignedURLSecret, cfg.Reports.SignedURLTTL)
	exportService := service.NewExportService(analyticsService, exportStorage, signer, metricsService, service.ExportConfig{
		APIPrefix: cfg.APIPrefix,
		ResultTTL: cfg.Reports.SignedURLTTL,
	}, logr)

	reportWorker := service.NewReportWorker(reportRepo, exportService, cfg.Reports.WorkerRetries, logr)
	reportQueue := jobs.NewQueue("reports", reportWorker.Handle, jobs.QueueConfig{
		Workers:    cfg.Reports.WorkerConcurrency,
		MaxRetries: cfg.Reports.WorkerRetries,
		Logger:     logr,
	})
	reportQueue.Start(ctx)
	defer reportQueue.Stop()

	reportService := service.NewReportService(reportRepo, reportQueue, exportService, logr, service.ReportServiceConfig{
		ResultTTL:       cfg.Reports.SignedURLTTL,
		CleanupInterval: cfg.Reports.CleanupInterval,
		MaxRetries:      cfg.Reports.WorkerRetries,
	})
	reportService.RecoverPendingJobs(ctx)
	reportService.StartCleanup(ctx)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	attendanceHandler := handler.NewAttendanceHandler(attendanceService)
	engagementHandler := handler.NewEngagementHandler(engagementService)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsService)
	dashboardHandler := handler.NewDashboardHandler(analyticsService)
	reportHandler := handler.NewReportHandler(reportService, analyticsService)
	metricsHandler := handler.NewMetricsHandler(metricsService)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsService))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(authService), authHandler.Logout)
		auth.POST("/change-password", middleware.JWT(authService), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(authService), authHandler.Me)
	}

	privileged := middleware.RequireRoles(models.RoleAdmin, models.RoleTeacher, models.RoleHR)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)
	selfOrPrivileged := middleware.RBAC(
		string(models.RoleAdmin), string(models.RoleTeacher), string(models.RoleHR), middleware.SelfRule,
	)

	users := api.Group("/users", middleware.JWT(authService))
	{
		users.GET("", privileged, userHandler.List)
		users.GET("/:id", selfOrPrivileged, userHandler.Get)
		users.POST("", adminOnly, userHandler.Create)
		users.PATCH("/:id", adminOnly, userHandler.Update)
		users.DELETE("/:id", adminOnly, userHandler.Deactivate)
	}

	attendance := api.Group("/attendance", middleware.JWT(authService))
	{
		attendance.GET("", privileged, attendanceHandler.List)
		attendance.POST("", privileged, attendanceHandler.Mark)
		attendance.DELETE("", privileged, attendanceHandler.Unmark)
	}

	engagement := api.Group("/engagement", middleware.JWT(authService))
	{
		engagement.GET("", privileged, engagementHandler.List)
		engagement.POST("", privileged, engagementHandler.Record)
	}

	analyticsRoutes := api.Group("/analytics", middleware.JWT(authService))
	{
		analyticsRoutes.GET("/engagement/:id", selfOrPrivileged, analyticsHandler.EngagementScore)
		analyticsRoutes.GET("/attendance/:id", selfOrPrivileged, analyticsHandler.AttendancePercentage)
		analyticsRoutes.GET("/consistency/:id", selfOrPrivileged, analyticsHandler.Consistency)
		analyticsRoutes.GET("/trends/attendance", privileged, analyticsHandler.AttendanceTrend)
		analyticsRoutes.GET("/trends/engagement", privileged, analyticsHandler.EngagementTrend)
		analyticsRoutes.GET("/comparison", privileged, analyticsHandler.Comparison)
		analyticsRoutes.GET("/system", adminOnly, analyticsHandler.SystemMetrics)
	}

	api.GET("/dashboard", middleware.JWT(authService), privileged, dashboardHandler.Stats)

	reports := api.Group("/reports")
	{
		reports.POST("", middleware.JWT(authService), privileged, reportHandler.Generate)
		reports.POST("/export", middleware.JWT(authService), privileged, reportHandler.Export)
		reports.GET("/export/:token", reportHandler.Download)
		reports.GET("/status/:id", middleware.JWT(authService), reportHandler.Status)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Sugar().Infow("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Warnw("graceful shutdown failed", "error", err)
	}
}
