// backend-go/cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/wkassem/makhzan/backend-go/internal/api"
	"github.com/wkassem/makhzan/backend-go/internal/cache"
	"github.com/wkassem/makhzan/backend-go/internal/config"
	"github.com/wkassem/makhzan/backend-go/internal/repository/postgres"
	"github.com/wkassem/makhzan/backend-go/internal/service"
	"github.com/wkassem/makhzan/backend-go/internal/storage"
	"github.com/wkassem/makhzan/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	// Initialize report cache (falls back to a no-op when disabled)
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, continuing without it")
		reportCache = cache.NewNoopReportCache()
	}

	// Initialize services
	sourceRepo := postgres.NewSourceRepository(db)
	reportService := service.NewReportService(sourceRepo, reportCache)
	productService := service.NewProductService(sourceRepo, cfg.Report)

	// Initialize export upload target when object storage is configured
	var uploads storage.ObjectStorage
	if cfg.Storage.Enabled {
		client, err := storage.NewS3Client(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, exports stay local")
		} else {
			uploads = client
		}
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		ReportService:  reportService,
		ProductService: productService,
		ExportDir:      cfg.Report.ExportDir,
		ExportUploads:  uploads,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
