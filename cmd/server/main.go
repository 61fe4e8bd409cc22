package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/rmfwatch/rmf-dashboard/internal/api"
	"github.com/rmfwatch/rmf-dashboard/internal/config"
	"github.com/rmfwatch/rmf-dashboard/internal/repository"
	"github.com/rmfwatch/rmf-dashboard/internal/service"
	"github.com/rmfwatch/rmf-dashboard/internal/yahoo"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open the NAV history database
	navDB, err := repository.OpenNavDB(cfg.Data.NavHistoryPath)
	if err != nil {
		log.Fatalf("Failed to open nav history database: %v", err)
	}
	defer navDB.Close()

	log.Printf("Opened nav history database: %s", cfg.Data.NavHistoryPath)

	// Create repositories
	snapshotRepo := repository.NewSnapshotRepository(cfg.Data.SnapshotPath)
	navRepo := repository.NewNavHistoryRepository(navDB)

	// Create services
	fundService := service.NewFundService(snapshotRepo)
	navService := service.NewNavService(navRepo, fundService)
	marketService := service.NewMarketService(yahoo.NewFinanceClient(), cfg.Market.Symbols)
	systemService := service.NewSystemService(navDB, fundService)

	// Initial snapshot load. A missing snapshot is not fatal: the server
	// starts and queries fail until a refresh succeeds.
	if result, err := fundService.Load(); err != nil {
		log.Printf("Initial snapshot load failed: %v (queries unavailable until refresh)", err)
	} else {
		log.Printf("Loaded %d funds across %d AMCs (generation %s)",
			result.RecordCount, result.AMCs, result.Generation)
		navService.PrewarmCache(context.Background())
	}

	// Scheduled refresh
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.Refresh.Schedule, func() {
		result, err := fundService.Refresh()
		if err != nil {
			log.Printf("Scheduled refresh failed: %v (previous snapshot kept)", err)
			return
		}
		navService.Reset(context.Background())
		log.Printf("Scheduled refresh loaded %d funds (generation %s)",
			result.RecordCount, result.Generation)
	}); err != nil {
		log.Fatalf("Invalid refresh schedule %q: %v", cfg.Refresh.Schedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Create router
	router := api.NewRouter(systemService, fundService, navService, marketService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
