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
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/JulesBestDev176/isiportal-front-sub002/api/swagger"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/handler"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/middleware"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/repository"
	"github.com/JulesBestDev176/isiportal-front-sub002/internal/service"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/cache"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/config"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/database"
	"github.com/JulesBestDev176/isiportal-front-sub002/pkg/logger"
	corsmiddleware "github.com/JulesBestDev176/isiportal-front-sub002/pkg/middleware/cors"
	reqidmiddleware "github.com/JulesBestDev176/isiportal-front-sub002/pkg/middleware/requestid"
)

const shutdownTimeout = 15 * time.Second

// @title ISI Portal Core API
// @version 1.0.0
// @description Course scheduling, grade aggregation and report cards
// @BasePath /
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

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	var redisClient *redis.Client
	if client, err := cache.NewRedis(ctx, cfg.Redis); err != nil {
		logr.Warn("redis unavailable, caching and notifications disabled", zap.Error(err))
	} else {
		redisClient = client
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	validate := validator.New()
	metricsSvc := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.ReportCardsTTL, logr, cfg.Cache.Enabled && redisClient != nil)

	courseRepo := repository.NewCourseRepository(db)
	classRepo := repository.NewClassRepository(db)
	assignmentRepo := repository.NewClassAssignmentRepository(db)
	enrollmentRepo := repository.NewEnrollmentRepository(db)
	periodRepo := repository.NewPeriodRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	ruleRepo := repository.NewPromotionRuleRepository(db)
	cardRepo := repository.NewReportCardRepository(db)

	authSvc := service.NewAuthService(cfg.JWT.Secret)
	assignmentSvc := service.NewClassAssignmentService(assignmentRepo, courseRepo, classRepo, metricsSvc, validate, logr)
	courseSvc := service.NewCourseService(courseRepo, assignmentSvc, validate, logr)
	periodSvc := service.NewPeriodService(periodRepo, validate, logr)
	evaluationSvc := service.NewEvaluationService(evaluationRepo, periodRepo, enrollmentRepo, assignmentRepo, service.GradingPolicy{
		ContinuousWeight:     cfg.Grading.ContinuousWeight,
		FormalWeight:         cfg.Grading.FormalWeight,
		WeightWithinCategory: cfg.Grading.WeightWithinCategory,
	}, validate, logr)
	ruleSvc := service.NewPromotionRuleService(ruleRepo, cacheSvc, metricsSvc, cfg.Cache.RulesTTL, cfg.Promotion.DefaultMinimumAverage, validate, logr)

	notificationSvc := service.NewNotificationService(cacheRepo, service.NotificationConfig{
		Workers:    cfg.Notifications.Workers,
		Retries:    cfg.Notifications.Retries,
		RetryDelay: cfg.Notifications.RetryDelay,
		Channel:    cfg.Notifications.Channel,
	}, metricsSvc, logr)
	notificationSvc.Start(context.Background())
	defer notificationSvc.Stop()

	reportCardSvc := service.NewReportCardService(service.ReportCardDeps{
		Cards:       cardRepo,
		Grades:      evaluationSvc,
		Periods:     periodRepo,
		Enrollments: enrollmentRepo,
		Classes:     classRepo,
		Rules:       ruleSvc,
		Notifier:    notificationSvc,
		Cache:       cacheSvc,
		CacheTTL:    cfg.Cache.ReportCardsTTL,
		Metrics:     metricsSvc,
		Logger:      logr,
	})

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc, "/metrics", "/health", "/ready"))

	metricsHandler := handler.NewMetricsHandler(metricsSvc, map[string]handler.ReadinessCheck{
		"postgres": db.PingContext,
		"redis":    cacheRepo.Ping,
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)
	r.GET("/metrics/summary", metricsHandler.Summary)

	handler.RegisterRoutes(r.Group(cfg.APIPrefix), handler.Handlers{
		Courses:        handler.NewCourseHandler(courseSvc),
		Periods:        handler.NewPeriodHandler(periodSvc),
		Assignments:    handler.NewAssignmentHandler(assignmentSvc),
		Evaluations:    handler.NewEvaluationHandler(evaluationSvc),
		ReportCards:    handler.NewReportCardHandler(reportCardSvc),
		PromotionRules: handler.NewPromotionRuleHandler(ruleSvc),
	}, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Error("server failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
