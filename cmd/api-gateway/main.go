package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/pathwise/degree-path-api/api/swagger"
	"github.com/pathwise/degree-path-api/internal/handler"
	"github.com/pathwise/degree-path-api/internal/middleware"
	"github.com/pathwise/degree-path-api/internal/repository"
	"github.com/pathwise/degree-path-api/internal/service"
	"github.com/pathwise/degree-path-api/pkg/advisor"
	"github.com/pathwise/degree-path-api/pkg/cache"
	"github.com/pathwise/degree-path-api/pkg/config"
	"github.com/pathwise/degree-path-api/pkg/database"
	"github.com/pathwise/degree-path-api/pkg/graphdb"
	"github.com/pathwise/degree-path-api/pkg/jobs"
	"github.com/pathwise/degree-path-api/pkg/logger"
	corsmiddleware "github.com/pathwise/degree-path-api/pkg/middleware/cors"
	reqidmiddleware "github.com/pathwise/degree-path-api/pkg/middleware/requestid"
	"github.com/pathwise/degree-path-api/pkg/storage"
)

// @title Degree Path API
// @version 0.1.0
// @description Degree-path optimization service: prerequisite-aware course sequencing, term packing and risk analysis
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

	var provider service.CourseDataProvider
	switch cfg.Planner.Provider {
	case config.ProviderNeo4j:
		graph, err := graphdb.New(cfg.Graph)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect neo4j", "error", err)
		}
		if graph == nil {
			logr.Sugar().Fatalw("neo4j provider selected but NEO4J_URI is empty")
		}
		defer graph.Close(context.Background()) //nolint:errcheck
		provider = repository.NewGraphProvider(graph)
	default:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			logr.Sugar().Fatalw("failed to connect database", "error", err)
		}
		defer db.Close() //nolint:errcheck
		provider = repository.NewSQLProvider(db)
	}

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Planner.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, plan caching disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Planner.CacheTTL, logr, true)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	var advisorSvc *service.AdvisorService
	if client := advisor.NewGeminiClient(cfg.Advisor); client != nil {
		advisorSvc = service.NewAdvisorService(client, cfg.Advisor.Timeout, logr)
	} else {
		advisorSvc = service.NewAdvisorService(nil, cfg.Advisor.Timeout, logr)
	}

	validate := validator.New()
	optimizer := service.NewPathOptimizerService(provider, advisorSvc, cacheSvc, metricsSvc, validate, logr, service.PathOptimizerConfig{
		MaxTerms:       cfg.Planner.MaxTerms,
		CreditsPerSlot: cfg.Planner.CreditsPerSlot,
		CacheTTL:       cfg.Planner.CacheTTL,
	})
	studentSvc := service.NewStudentService(provider, logr)
	exportSvc := service.NewExportService()

	var exportJobs *service.ExportJobService
	if cfg.Exports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Exports.Dir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init export storage", "error", err)
		}
		signer := storage.NewSignedURLSigner(cfg.Exports.SigningSecret, cfg.Exports.ResultTTL)
		exportJobs = service.NewExportJobService(optimizer, exportSvc, store, signer, cfg.Exports.ResultTTL, logr)
		queue := jobs.NewQueue("term-plan-exports", exportJobs.Handle, jobs.QueueConfig{
			Workers: cfg.Exports.Workers,
			Logger:  logr,
		})
		queue.Start(context.Background())
		defer queue.Stop()
		exportJobs.SetQueue(queue)
		exportJobs.StartCleanup(context.Background(), time.Hour)
	}

	studentHandler := handler.NewStudentHandler(studentSvc)
	pathHandler := handler.NewPathHandler(optimizer, exportSvc)
	advisorHandler := handler.NewAdvisorHandler(studentSvc, advisorSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", metricsHandler.Handle)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/students", studentHandler.List)
		api.GET("/students/:id", studentHandler.Overview)
		api.GET("/students/:id/path", pathHandler.Plan)
		api.GET("/students/:id/recommendations", pathHandler.Recommendations)
		if cfg.Exports.Enabled {
			exportHandler := handler.NewExportHandler(exportJobs)
			api.GET("/students/:id/path/export", pathHandler.Export)
			api.POST("/students/:id/path/export", exportHandler.Create)
			api.GET("/exports/:id", exportHandler.Status)
			api.GET("/exports/:id/download", exportHandler.Download)
		}
		api.POST("/students/:id/advice", advisorHandler.Advise)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "provider", cfg.Planner.Provider)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
