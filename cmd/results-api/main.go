package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/csi-informatics/results-api/api/swagger"
	"github.com/csi-informatics/results-api/internal/handler"
	"github.com/csi-informatics/results-api/internal/middleware"
	"github.com/csi-informatics/results-api/internal/models"
	"github.com/csi-informatics/results-api/internal/repository"
	"github.com/csi-informatics/results-api/internal/service"
	"github.com/csi-informatics/results-api/pkg/cache"
	"github.com/csi-informatics/results-api/pkg/config"
	"github.com/csi-informatics/results-api/pkg/export"
	"github.com/csi-informatics/results-api/pkg/logger"
	"github.com/csi-informatics/results-api/pkg/mailer"
	corsmiddleware "github.com/csi-informatics/results-api/pkg/middleware/cors"
	reqidmiddleware "github.com/csi-informatics/results-api/pkg/middleware/requestid"
	"github.com/csi-informatics/results-api/pkg/sheets"
)

// @title Postgraduate Results API
// @version 1.0.0
// @description Role-based postgraduate results management backed by Google Sheets
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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

	ctx := context.Background()

	sheetsService, err := sheets.NewService(ctx, cfg.Sheets)
	if err != nil {
		logr.Sugar().Fatalw("failed to init sheets client", "error", err)
	}

	metricsSvc := service.NewMetricsService()
	observe := sheets.Observer(metricsSvc.ObserveSheetOp)
	scoresSheet := sheets.NewWorksheet(sheetsService, cfg.Sheets.ScoresSpreadsheetID, cfg.Sheets.ScoresWorksheet, observe)
	usersSheet := sheets.NewWorksheet(sheetsService, cfg.Sheets.UsersSpreadsheetID, cfg.Sheets.UsersWorksheet, observe)

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to redis", "error", err)
	}
	defer redisClient.Close() //nolint:errcheck

	var mail mailer.Mailer
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTPMailer(cfg.SMTP)
	} else {
		logr.Warn("SMTP host not configured, logging notifications to console")
		mail = mailer.NewConsoleMailer(logr)
	}

	scoreRepo := repository.NewScoreRepository(scoresSheet)
	userRepo := repository.NewUserRepository(usersSheet)
	confirmationRepo := repository.NewConfirmationRepository(redisClient)

	validate := validator.New()

	authSvc := service.NewAuthService(userRepo, validate, logr, service.AuthConfig{
		Secret:     cfg.JWT.Secret,
		Expiration: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	scoreSvc := service.NewScoreService(scoreRepo, validate, logr)
	notificationSvc := service.NewNotificationService(scoreRepo, userRepo, confirmationRepo, mail, metricsSvc, validate, logr, service.NotificationConfig{
		Subject:        cfg.Notifications.Subject,
		PlatformURL:    cfg.Notifications.PlatformURL,
		Signature:      cfg.Notifications.Signature,
		BulkConfirmTTL: cfg.Notifications.BulkConfirmTTL,
	})
	exportSvc := service.NewExportService(scoreRepo, export.NewCSVExporter(), export.NewPDFExporter(), logr)

	authHandler := handler.NewAuthHandler(authSvc)
	scoreHandler := handler.NewScoreHandler(scoreSvc)
	notificationHandler := handler.NewNotificationHandler(notificationSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)
	healthHandler := handler.NewHealthHandler(redisClient, scoresSheet)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", healthHandler.Health)
	r.GET("/ready", healthHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.POST("/auth/login", authHandler.Login)

	authed := api.Group("")
	authed.Use(middleware.JWT(authSvc))
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.GET("/scores", scoreHandler.List)
		authed.GET("/scores/record", scoreHandler.Get)
		authed.POST("/scores/submit", middleware.RequireRoles(models.RoleLecturer), scoreHandler.Submit)

		admin := authed.Group("")
		admin.Use(middleware.RequireRoles(models.RoleAdmin))
		{
			admin.POST("/scores/approve", scoreHandler.Approve)
			admin.POST("/scores/unlock", scoreHandler.Unlock)
			if cfg.Export.Enabled {
				admin.GET("/scores/export", exportHandler.Export)
			}
			admin.GET("/notifications/lecturers", notificationHandler.Lecturers)
			admin.POST("/notifications/send", notificationHandler.Send)
			admin.POST("/notifications/bulk", notificationHandler.Bulk)
			admin.GET("/metrics/summary", metricsHandler.Summary)
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	go func() {
		logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("forced shutdown", "error", err)
	}
}
