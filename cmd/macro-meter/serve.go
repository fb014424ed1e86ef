package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"macro-meter/internal/server"
	"macro-meter/internal/tracker"
	"macro-meter/internal/usda"
)

var (
	serveHost string
	servePort int
	dishPath  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve tool calls over HTTP",
	Long: `Starts the HTTP tool server. When --dish points at a dish_macros.json
produced by the scale/camera pipeline, that meal is logged once before the
server starts accepting requests.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host address")
	serveCmd.Flags().IntVar(&servePort, "port", 8011, "Port for HTTP transport")
	serveCmd.Flags().StringVar(&dishPath, "dish", "", "dish_macros.json to log at startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("host") {
		cfg.Host = serveHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("dish") {
		cfg.DishPath = dishPath
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := logStartupDish(app, cfg.DishPath); err != nil {
		return err
	}

	var lookup server.FoodLookup
	if cfg.USDA.APIKey != "" {
		lookup = usda.NewClient(usda.Config{
			APIKey:      cfg.USDA.APIKey,
			BaseURL:     cfg.USDA.BaseURL,
			MaxAttempts: cfg.USDA.MaxAttempts,
			Delay:       cfg.USDA.Delay,
		}, logger.Named("usda"))
	} else {
		logger.Info("USDA_API_KEY not set, lookup_food disabled")
	}

	srv, err := server.NewMacroServer(&server.Config{Addr: cfg.Addr()}, app, lookup, logger.Named("server"))
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start(ctx)
	}()

	var serveErr error
	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case serveErr = <-errCh:
		if serveErr != nil {
			logger.Error("server error", zap.Error(serveErr))
		}
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn("error during shutdown", zap.Error(err))
	}
	return serveErr
}

// logStartupDish logs the capture pipeline's current meal, once, if one
// is configured.
func logStartupDish(tr *tracker.Tracker, path string) error {
	if path == "" {
		return nil
	}

	dish, err := tracker.LoadDish(path)
	if err != nil {
		return err
	}
	if dish.FoodName == "" {
		logger.Info("dish file has no name, nothing logged", zap.String("path", path))
		return nil
	}

	_, err = tr.LogCurrentMeal(dish)
	return err
}
