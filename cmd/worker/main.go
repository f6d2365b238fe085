// backend-go/cmd/worker/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/wkassem/makhzan/backend-go/internal/cache"
	"github.com/wkassem/makhzan/backend-go/internal/config"
	"github.com/wkassem/makhzan/backend-go/internal/repository/postgres"
	"github.com/wkassem/makhzan/backend-go/internal/worker"
	"github.com/wkassem/makhzan/backend-go/pkg/logger"
)

func main() {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	// Initialize Database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Initialize report cache so corrections invalidate cached balances
	reportCache, err := cache.NewReportCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Report cache unavailable, skipping invalidation")
		reportCache = cache.NewNoopReportCache()
	}

	productRepo := postgres.NewProductRepository(db)
	fixer := worker.NewFixer(productRepo, cfg.Worker, reportCache.InvalidateAll)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu        sync.Mutex
		lastPass  time.Time
		passCount int
	)

	// Health endpoint for the fixer daemon
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		status := map[string]interface{}{
			"status":    "ok",
			"passes":    passCount,
			"last_pass": lastPass,
		}
		mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(status)
	}).Methods("GET")

	addr := fmt.Sprintf(":%s", workerPort())
	srv := &http.Server{Addr: addr, Handler: r}
	go func() {
		log.Printf("Worker health endpoint on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start worker health server")
		}
	}()

	// Run the fixer until interrupted
	go func() {
		ticker := time.NewTicker(fixer.Interval())
		defer ticker.Stop()
		for {
			if err := fixer.RunOnce(ctx); err != nil {
				logger.Log.Error().Err(err).Msg("Consistency pass failed")
			}
			mu.Lock()
			lastPass = time.Now()
			passCount++
			mu.Unlock()

			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down worker...")

	cancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error().Err(err).Msg("Worker health server forced to shutdown")
	}

	logger.Log.Info().Msg("Worker exiting")
}

func workerPort() string {
	if port := os.Getenv("WORKER_PORT"); port != "" {
		return port
	}
	return "8090"
}
