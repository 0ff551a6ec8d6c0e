package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"codeberg.org/algopatterns/dedup/internal/config"
	"codeberg.org/algopatterns/dedup/internal/logger"
)

// @title Dedup API
// @version 1.0
// @description Text corpus deduplication service
// @description
// @description Features:
// @description - Exact deduplication by content hash
// @description - Fuzzy deduplication with MinHash and LSH
// @description - Soft deduplication that reweights near-duplicate clusters
// @description - Long-lived passes that remember documents across batches

// @contact.name API Support
// @contact.url https://codeberg.org/algopatterns/dedup

// @license.name GPL-3.0
// @license.url https://www.gnu.org/licenses/gpl-3.0.html

func main() {
	logger.Info("starting dedup server")

	// load configuration from environment
	cfg, err := config.LoadEnvironmentVariables()
	if err != nil {
		logger.FatalErr(err, "failed to load configuration")
	}

	ctx := context.Background()

	// create server with all dependencies
	srv, err := NewServer(ctx, cfg)
	if err != nil {
		logger.FatalErr(err, "failed to create server")
	}

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      srv.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// start server in goroutine
	go func() {
		logger.Info("server listening", "port", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalErr(err, "server failed to start")
		}
	}()

	// start idle pass cleanup with cancellable context
	cleanupCtx, cleanupCancel := context.WithCancel(ctx)
	go srv.passes.Start(cleanupCtx)

	// wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// stop cleanup service
	cleanupCancel()

	logger.Info("shutting down server")

	// graceful shutdown with 10 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// close report store connections
	srv.Close()

	logger.Info("server stopped", "open_passes", srv.passes.Len())
}
