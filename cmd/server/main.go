package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trade-journal-go/internal/ai"
	"trade-journal-go/internal/config"
	"trade-journal-go/internal/logger"
	"trade-journal-go/internal/marketdata"
	"trade-journal-go/internal/refresh"
	"trade-journal-go/internal/store"

	"go.uber.org/zap"
)

func main() {
	// Load application configuration
	cfg, err := config.LoadConfig("./configs")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewLogger(cfg.Logger.Level, cfg.Logger.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log.Info("Configuration loaded")

	// The store is owned here and injected into every consumer.
	st := store.New(&cfg.Database, log)
	if err := st.Initialize(); err != nil {
		log.Fatal("Failed to initialize store", zap.Error(err))
	}
	defer st.Close()
	log.Info("Store ready")

	marketClient := marketdata.NewClient(&cfg.Market, log)
	analyzer := ai.NewClient(&cfg.AI, log)

	// Setup context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		sigchan := make(chan os.Signal, 1)
		signal.Notify(sigchan, syscall.SIGINT, syscall.SIGTERM)
		<-sigchan
		log.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Watchlist quote polling runs outside the store.
	if cfg.Refresh.Enabled {
		refresher := refresh.NewRefresher(log, st, marketClient,
			time.Duration(cfg.Refresh.Interval)*time.Second)
		go refresher.Run(ctx)
	}

	// Setup HTTP server
	mux := http.NewServeMux()
	apiHandler := NewAPIHandler(log, st, marketClient, analyzer)
	apiHandler.Register(mux)

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	server := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info("Starting API server", zap.String("address", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("API server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Server has been shut down.")
}
