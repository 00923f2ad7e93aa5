package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/noah-isme/sk-kehadiran-api/api/swagger"
	"github.com/noah-isme/sk-kehadiran-api/internal/handler"
	"github.com/noah-isme/sk-kehadiran-api/internal/repository"
	"github.com/noah-isme/sk-kehadiran-api/internal/service"
	"github.com/noah-isme/sk-kehadiran-api/pkg/cache"
	"github.com/noah-isme/sk-kehadiran-api/pkg/config"
	"github.com/noah-isme/sk-kehadiran-api/pkg/database"
	"github.com/noah-isme/sk-kehadiran-api/pkg/export"
	"github.com/noah-isme/sk-kehadiran-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sk-kehadiran-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sk-kehadiran-api/pkg/middleware/requestid"
	"github.com/noah-isme/sk-kehadiran-api/pkg/storage"
)

// @title SK Kehadiran API
// @version 0.1.0
// @description Attendance session, report history and subject statistics service
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

	// The roster is fixed reference data; a malformed file aborts startup.
	rosterData, err := repository.NewRosterRepository(cfg.Roster.Path, nil).Load()
	if err != nil {
		logr.Sugar().Fatalw("roster load failed", "error", err)
	}
	rosterSvc := service.NewRosterService(rosterData, cfg.Roster.Locale)
	logr.Sugar().Infow("roster loaded", "pupils", rosterSvc.PupilCount(), "teachers", len(rosterSvc.Teachers()))

	metricsSvc := service.NewMetricsService()

	var cacheSvc *service.CacheService
	if cfg.Analytics.CacheEnabled {
		client, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, statistics cache disabled", "error", err)
		} else {
			cacheRepo := repository.NewCacheRepository(client, logr)
			cacheSvc = service.NewCacheService(cacheRepo, metricsSvc, cfg.Analytics.CacheTTL, logr, true)
		}
	}

	blobRepo, err := newBlobRepository(cfg)
	if err != nil {
		logr.Sugar().Fatalw("report persistence init failed", "error", err)
	}

	storeSvc := service.NewReportStoreService(blobRepo, cacheSvc, metricsSvc, logr)
	if err := storeSvc.Load(context.Background()); err != nil {
		// Degraded but usable; history is better lost than blocking startup.
		logr.Sugar().Warnw("report history unavailable, starting empty", "error", err)
	}

	sessionSvc := service.NewSessionService(rosterSvc, nil, nil, logr)
	analyticsSvc := service.NewAnalyticsService(storeSvc, rosterSvc, cacheSvc, metricsSvc, logr)

	exportStorage, err := storage.NewLocalStorage(cfg.Exports.Dir)
	if err != nil {
		logr.Sugar().Fatalw("export storage init failed", "error", err)
	}
	exportSvc := service.NewExportService(rosterSvc, export.NewCSVExporter(), export.NewPDFExporter(), exportStorage, logr)

	syncSvc := service.NewSyncService(cfg.Sync, rosterSvc, logr)
	syncSvc.Start(context.Background())
	defer syncSvc.Stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(metricsSvc.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	r.GET("/metrics", gin.WrapH(metricsSvc.Handler()))
	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	rosterHandler := handler.NewRosterHandler(rosterSvc)
	sessionHandler := handler.NewSessionHandler(sessionSvc, storeSvc, syncSvc, logr)
	reportHandler := handler.NewReportHandler(storeSvc, exportSvc)
	analyticsHandler := handler.NewAnalyticsHandler(analyticsSvc, exportSvc)

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/roster", rosterHandler.Roster)
		api.GET("/roster/pupils", rosterHandler.Pupils)
		api.GET("/roster/teachers", rosterHandler.Teachers)
		api.GET("/roster/subjects", rosterHandler.Subjects)
		api.GET("/roster/timeslots", rosterHandler.Timeslots)

		api.GET("/session", sessionHandler.Get)
		api.PUT("/session", sessionHandler.Update)
		api.DELETE("/session", sessionHandler.Reset)
		api.POST("/session/pupils/:id/toggle", sessionHandler.Toggle)
		api.POST("/session/years/:year", sessionHandler.SetYear)
		api.POST("/session/finalize", sessionHandler.Finalize)

		api.GET("/reports", reportHandler.List)
		api.DELETE("/reports", reportHandler.Clear)
		api.DELETE("/reports/:id", reportHandler.Delete)
		api.POST("/reports/:id/export", reportHandler.Export)

		api.GET("/analytics/subjects", analyticsHandler.Subjects)
		api.POST("/analytics/subjects/export", analyticsHandler.Export)
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env, "store_backend", cfg.Store.Backend)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}

// newBlobRepository selects the persistence backend for the report history
// blob.
func newBlobRepository(cfg *config.Config) (service.ReportBlobRepository, error) {
	if cfg.Store.Backend == config.StoreBackendPostgres {
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, err
		}
		return repository.NewReportPostgresRepository(db, ""), nil
	}

	blobStorage, err := storage.NewLocalStorage(filepath.Dir(cfg.Store.FilePath))
	if err != nil {
		return nil, err
	}
	return repository.NewReportFileRepository(blobStorage, filepath.Base(cfg.Store.FilePath)), nil
}
