// Package main is the entry point for the blockwalk viewer.
package main

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/blockwalk/internal/assets"
	"github.com/Faultbox/blockwalk/internal/config"
	"github.com/Faultbox/blockwalk/internal/logger"
	"github.com/Faultbox/blockwalk/internal/viewer"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== blockwalk ===", zap.String("config", config.ConfigPath()))
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		var le *assets.LoadError
		if errors.As(err, &le) {
			logger.Error("asset load failed", zap.String("path", le.Path), zap.Error(le.Err))
		} else {
			logger.Error("viewer error", zap.Error(err))
		}
		logger.Sync()
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func run(cfg *config.Config) error {
	v, err := viewer.New(cfg)
	if err != nil {
		return err
	}
	defer v.Close()

	return v.Run()
}
