package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/hubinity/hubinity-api/api/swagger"
	"github.com/hubinity/hubinity-api/internal/handler"
	"github.com/hubinity/hubinity-api/internal/middleware"
	"github.com/hubinity/hubinity-api/internal/models"
	"github.com/hubinity/hubinity-api/internal/repository"
	"github.com/hubinity/hubinity-api/internal/service"
	"github.com/hubinity/hubinity-api/pkg/cache"
	"github.com/hubinity/hubinity-api/pkg/certpdf"
	"github.com/hubinity/hubinity-api/pkg/config"
	"github.com/hubinity/hubinity-api/pkg/database"
	"github.com/hubinity/hubinity-api/pkg/logger"
	corsmiddleware "github.com/hubinity/hubinity-api/pkg/middleware/cors"
	reqidmiddleware "github.com/hubinity/hubinity-api/pkg/middleware/requestid"
	"github.com/hubinity/hubinity-api/pkg/storage"
)

// @title Hubinity API
// @version 1.0.0
// @description Task marketplace backend: submissions, review workflow, certificates, notifications
// @BasePath /
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// Cache is an optimisation; the API serves from Postgres without it.
		logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		redisClient = nil
	}

	documentStorage, err := storage.NewLocalStorage(cfg.Certificates.StorageDir)
	if err != nil {
		logr.Sugar().Fatalw("failed to init certificate storage", "error", err)
	}

	// Repositories.
	taskRepo := repository.NewTaskRepository(db)
	certificateRepo := repository.NewCertificateRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	userRepo := repository.NewUserRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)

	// Services.
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TasksTTL, logr, cfg.Cache.Enabled && redisClient != nil)
	authSvc := service.NewAuthService(userRepo, cfg.JWT, logr)
	notificationSvc := service.NewNotificationService(notificationRepo, logr, cfg.Notifications.MaxPageSize)
	signer := storage.NewSignedURLSigner(cfg.Certificates.SignedURLSecret, cfg.Certificates.SignedURLTTL)
	certificateSvc := service.NewCertificateService(certificateRepo, certpdf.NewRenderer(), documentStorage, signer, metricsSvc, logr)
	workflowSvc := service.NewWorkflowService(taskRepo, certificateSvc, notificationSvc, cacheSvc, logr)
	taskSvc := service.NewTaskService(taskRepo, certificateRepo, notificationSvc, cacheSvc, logr)

	// Handlers.
	authHandler := handler.NewAuthHandler(authSvc)
	workflowHandler := handler.NewWorkflowHandler(workflowSvc)
	taskHandler := handler.NewTaskHandler(taskSvc)
	certificateHandler := handler.NewCertificateHandler(certificateSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	requireAuth := middleware.JWT(authSvc)

	r.GET("/auth/me", requireAuth, authHandler.Me)

	// Signed download links embedded in certificate listings. The token
	// itself carries the authorization.
	r.GET("/certificates/download/:token", certificateHandler.DownloadByToken)

	student := r.Group("/student", requireAuth, middleware.RequireRoles(models.RoleStudent))
	{
		student.GET("/tasks/all", taskHandler.Browse)
		student.POST("/tasks/:taskId/submit-link", workflowHandler.SubmitLink)
		student.GET("/dashboard", taskHandler.StudentDashboard)
		student.GET("/certificates", certificateHandler.List)
		student.GET("/certificates/:id/download", certificateHandler.Download)
		student.GET("/notifications", notificationHandler.List)
		student.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	}

	startup := r.Group("/startup", requireAuth, middleware.RequireRoles(models.RoleStartup))
	{
		startup.POST("/tasks", taskHandler.Create)
		startup.GET("/tasks", taskHandler.ListStartupTasks)
		startup.GET("/tasks/:taskId", taskHandler.GetStartupTask)
		startup.POST("/tasks/:taskId/review", workflowHandler.StartReview)
		startup.POST("/tasks/:taskId/approve", workflowHandler.Review)
		startup.GET("/dashboard", taskHandler.StartupDashboard)
		startup.GET("/notifications", notificationHandler.List)
		startup.PATCH("/notifications/:id/read", notificationHandler.MarkRead)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
