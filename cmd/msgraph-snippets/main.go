package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Azure/msgraph-snippets/internal/app"
	"github.com/Azure/msgraph-snippets/internal/config"
	"github.com/Azure/msgraph-snippets/internal/logger"
	"github.com/Azure/msgraph-snippets/internal/version"
)

func main() {
	// Parse command line arguments
	cfg := config.NewConfig()
	cfg.ParseFlags()
	logger.SetVerbose(cfg.Verbose)
	defer logger.Sync()

	validator := config.NewValidator(cfg)
	if !validator.Validate() {
		fmt.Println("Configuration validation failed:")
		validator.PrintErrors()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg.InitializeTelemetry(ctx, "msgraph-snippets", version.GetVersion())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cfg.TelemetryService.Shutdown(shutdownCtx); err != nil {
			logger.Warnf("Failed to flush telemetry: %v", err)
		}
	}()

	a, err := app.New(cfg)
	if err != nil {
		logger.Errorf("Failed to initialize: %v", err)
		os.Exit(1)
	}

	if err := a.Execute(ctx, cfg.Args); err != nil && !errors.Is(err, context.Canceled) {
		logger.Errorf("%v", err)
		stop()
		os.Exit(1)
	}
}
