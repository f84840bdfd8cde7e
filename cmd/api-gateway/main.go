package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/cert-registry-api/api/swagger"
	"github.com/noah-isme/cert-registry-api/internal/handler"
	"github.com/noah-isme/cert-registry-api/internal/middleware"
	"github.com/noah-isme/cert-registry-api/internal/repository"
	"github.com/noah-isme/cert-registry-api/internal/service"
	"github.com/noah-isme/cert-registry-api/pkg/cache"
	"github.com/noah-isme/cert-registry-api/pkg/config"
	"github.com/noah-isme/cert-registry-api/pkg/database"
	"github.com/noah-isme/cert-registry-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/cert-registry-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/cert-registry-api/pkg/middleware/requestid"
)

// @title Certificate Registry API
// @version 1.0.0
// @description Certificate lifecycle management: registry books, blanks, issuance, corrections
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close()

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo := repository.NewCacheRepository(redisClient, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Cache.TTL, logr, true)
		}
	}

	validate := validator.New()

	bookRepo := repository.NewRegistryBookRepository(db)
	typeRepo := repository.NewCertificateTypeRepository(db)
	blankRepo := repository.NewBlankRepository(db)
	certRepo := repository.NewCertificateRepository(db)
	correctionRepo := repository.NewCorrectionRepository(db)
	decisionRepo := repository.NewDecisionRepository(db)
	inventoryRepo := repository.NewInventoryLogRepository(db)

	bookSvc := service.NewRegistryBookService(bookRepo, cacheSvc, validate, logr)
	typeSvc := service.NewCertificateTypeService(typeRepo, validate, logr)
	blankSvc := service.NewBlankService(blankRepo, typeRepo, inventoryRepo, metricsSvc, validate, logr)
	certSvc := service.NewCertificateService(certRepo, typeRepo, cacheSvc, metricsSvc, service.IssuanceOptions{
		AutoAllocateBlanks: cfg.Issuance.AutoAllocateBlanks,
	}, validate, logr)
	correctionSvc := service.NewCorrectionService(correctionRepo, certSvc, cacheSvc, validate, logr)
	decisionSvc := service.NewDecisionService(decisionRepo, validate, logr)
	exportSvc := service.NewExportService(bookSvc, certRepo, cfg.Exports.Enabled, logr)

	bookHandler := handler.NewRegistryBookHandler(bookSvc)
	typeHandler := handler.NewCertificateTypeHandler(typeSvc)
	blankHandler := handler.NewBlankHandler(blankSvc)
	certHandler := handler.NewCertificateHandler(certSvc, correctionSvc)
	decisionHandler := handler.NewDecisionHandler(decisionSvc)
	exportHandler := handler.NewExportHandler(exportSvc)
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

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.OptionalActor(cfg.JWT.Secret))

	actor := middleware.Actor(cfg.JWT.Secret)

	api.GET("/metrics/summary", metricsHandler.Summary)

	api.POST("/registry-books", actor, bookHandler.Open)
	api.GET("/registry-books", bookHandler.List)
	api.GET("/registry-books/:id", bookHandler.Get)
	api.POST("/registry-books/:id/close", actor, bookHandler.Close)
	api.GET("/registry-books/:id/export", exportHandler.BookManifest)

	api.POST("/certificate-types", actor, typeHandler.Create)
	api.GET("/certificate-types", typeHandler.List)
	api.GET("/certificate-types/code/:code", typeHandler.GetByCode)
	api.GET("/certificate-types/:id", typeHandler.Get)
	api.PATCH("/certificate-types/:id", actor, typeHandler.Update)
	api.POST("/certificate-types/:id/activate", actor, typeHandler.Activate)
	api.POST("/certificate-types/:id/deactivate", actor, typeHandler.Deactivate)

	api.POST("/blanks/receive", actor, blankHandler.Receive)
	api.GET("/blanks", blankHandler.List)
	api.GET("/blanks/inventory-log", blankHandler.InventoryLog)
	api.GET("/blanks/:serial", blankHandler.Get)
	api.POST("/blanks/:serial/assign", actor, blankHandler.Assign)
	api.POST("/blanks/:serial/damage", actor, blankHandler.Damage)
	api.POST("/blanks/:serial/destroy", actor, blankHandler.Destroy)

	api.POST("/certificates", actor, certHandler.Issue)
	api.GET("/certificates", certHandler.List)
	api.GET("/certificates/serial/:serial", certHandler.GetBySerial)
	api.GET("/certificates/registry/:number", certHandler.GetByRegistryNumber)
	api.GET("/certificates/:id", certHandler.Get)
	api.POST("/certificates/:id/revoke", actor, certHandler.Revoke)
	api.POST("/certificates/:id/replace", actor, certHandler.Replace)
	api.POST("/certificates/:id/corrections", actor, certHandler.Correct)
	api.GET("/certificates/:id/corrections", certHandler.Corrections)

	api.POST("/decisions", actor, decisionHandler.Record)
	api.GET("/decisions", decisionHandler.List)
	api.GET("/decisions/number/:number", decisionHandler.GetByNumber)
	api.GET("/decisions/:id", decisionHandler.Get)
	api.POST("/decisions/:id/publish", actor, decisionHandler.Publish)

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
