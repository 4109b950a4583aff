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

	"stockscope/internal/config"
	"stockscope/internal/httpapi"
	"stockscope/internal/recommend"
	"stockscope/internal/stockdata"
	"stockscope/internal/task"
	"stockscope/internal/util"
)

func main() {
	cfgPath := "config/stockscope.yaml"
	if p := os.Getenv("STOCKSCOPE_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	snapshots, err := stockdata.OpenSnapshotStore(cfg.Storage.SQLitePath)
	if err != nil {
		logger.Error("opening snapshot store", "path", cfg.Storage.SQLitePath, "error", err)
		os.Exit(1)
	}
	defer snapshots.Close()

	reports, err := recommend.NewStore(cfg.Storage.ResultsDir)
	if err != nil {
		logger.Error("opening results dir", "path", cfg.Storage.ResultsDir, "error", err)
		os.Exit(1)
	}

	provider := recommend.ProviderFromConfig(cfg.AI)
	if provider == nil {
		logger.Warn("AI provider not configured; recommendation generation will fail",
			"provider", cfg.AI.Provider)
	}
	engine := recommend.NewEngine(provider, reports, logger)

	server := httpapi.NewServer(
		cfg.Storage.DataDir,
		task.NewRunner(logger),
		snapshots,
		stockdata.NewArchive(cfg.Storage.DataDir),
		reports,
		engine,
		logger,
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:    addr,
		Handler: server.Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("stockscope-server listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown", "error", err)
	}
	logger.Info("stockscope-server stopped")
}
