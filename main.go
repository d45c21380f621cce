package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"jsonprof/adapters/api"
	"jsonprof/app"
	"jsonprof/internal"
	"jsonprof/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		internal.DefaultLogger.Error("failed to load configuration: %v", err)
		os.Exit(1)
	}
	if level, ok := internal.ParseLogLevel(cfg.Logging.Level); ok {
		internal.SetDefaultLevel(level)
	}
	logger := internal.DefaultLogger
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("starting jsonprof API (z_threshold=%.2f, max_depth=%d)", cfg.Analyzer.ZThreshold, cfg.Analyzer.MaxDepth)
	server := api.NewServer(app.NewAnalysisServiceFromConfig(cfg), cfg.Server)
	if err := server.Start(ctx); err != nil {
		logger.Error("server error: %v", err)
		stop()
		os.Exit(1)
	}
}
