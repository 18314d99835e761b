// Package main is the entry point for the raydemo viewer.
package main

import (
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/raydemo/internal/app"
	"github.com/Faultbox/raydemo/internal/config"
	"github.com/Faultbox/raydemo/internal/logger"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred flushes happen before exit.
func run() int {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "raydemo: config: %v\n", err)
		return 2
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "raydemo: logger: %v\n", err)
		return 2
	}
	defer logger.Sync()

	scenePath := cfg.Scene.Path
	if scenePath == "" {
		scenePath = "(built-in)"
	}
	logger.Info("starting viewer",
		zap.String("scene", scenePath),
		zap.Bool("watch", cfg.Scene.Watch),
		zap.Int("width", cfg.Window.Width),
		zap.Int("height", cfg.Window.Height),
	)
	logger.Sugar.Debugf("config: %+v", cfg)

	start := time.Now()
	a, err := app.New(cfg)
	if err != nil {
		logger.Error("viewer setup failed", zap.Error(err))
		return 1
	}

	runErr := a.Run()
	if err := a.Close(); err != nil {
		logger.Warn("releasing GPU resources", zap.Error(err))
	}
	if runErr != nil {
		logger.Error("render loop stopped", zap.Error(runErr))
		return 1
	}

	logger.Info("viewer exited", zap.Duration("uptime", time.Since(start).Round(time.Second)))
	return 0
}
