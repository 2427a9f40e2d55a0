// ABOUTME: Entry point for healthbot
// ABOUTME: Wires config, store, dialog engine, places lookup and both listeners

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"

	"github.com/ibm-watson-data-lab/healthbot/internal/bot"
	"github.com/ibm-watson-data-lab/healthbot/internal/config"
	"github.com/ibm-watson-data-lab/healthbot/internal/dialog"
	"github.com/ibm-watson-data-lab/healthbot/internal/matrix"
	"github.com/ibm-watson-data-lab/healthbot/internal/places"
	"github.com/ibm-watson-data-lab/healthbot/internal/store"
	"github.com/ibm-watson-data-lab/healthbot/internal/wsbot"
)

const banner = `
 _                _ _   _     _           _
| |__   ___  __ _| | |_| |__ | |__   ___ | |_
| '_ \ / _ \/ _' | | __| '_ \| '_ \ / _ \| __|
| | | |  __/ (_| | | |_| | | | |_) | (_) | |_
|_| |_|\___|\__,_|_|\__|_| |_|_.__/ \___/ \__|
`

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cyan := color.New(color.FgCyan)
	cyan.Print(banner)

	configPath := config.DefaultPath()
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config from %s: %w", configPath, err)
	}

	logger := setupLogger(cfg.Logging)
	slog.SetDefault(logger)

	green := color.New(color.FgGreen)
	green.Print("    ▶ ")
	fmt.Printf("Config:     %s\n", configPath)
	green.Print("    ▶ ")
	fmt.Printf("Database:   %s\n", cfg.Database.Path)
	green.Print("    ▶ ")
	fmt.Printf("Listening:  %s\n", cfg.Server.HTTPAddr)
	if cfg.Matrix.Enabled {
		green.Print("    ▶ ")
		fmt.Printf("Matrix:     %s\n", cfg.Matrix.Homeserver)
	}
	fmt.Println()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := store.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer db.Close()

	watson, err := dialog.NewWatsonClient(dialog.WatsonConfig{
		URL:         cfg.Watson.URL,
		Username:    cfg.Watson.Username,
		Password:    cfg.Watson.Password,
		WorkspaceID: cfg.Watson.WorkspaceID,
		Version:     cfg.Watson.Version,
	})
	if err != nil {
		return fmt.Errorf("creating dialog client: %w", err)
	}

	var finder places.Finder
	if cfg.Foursquare.Configured() {
		finder, err = places.NewFoursquareClient(cfg.Foursquare.ClientID, cfg.Foursquare.ClientSecret)
		if err != nil {
			return fmt.Errorf("creating places client: %w", err)
		}
	} else {
		logger.Info("places lookup disabled (no foursquare credentials)")
	}

	// One bot instance shared by every listener
	b := bot.New(db, db, watson, finder)

	errCh := make(chan error, 2)

	httpServer := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: wsbot.NewServer(b).Handler(),
	}
	go func() {
		logger.Info("websocket listener starting", "addr", cfg.Server.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	if cfg.Matrix.Enabled {
		bridge, err := matrix.NewBridge(cfg.Matrix, b)
		if err != nil {
			return fmt.Errorf("creating matrix bridge: %w", err)
		}
		go func() {
			if err := bridge.Run(ctx); err != nil {
				errCh <- fmt.Errorf("matrix bridge: %w", err)
			}
		}()
	}

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-errCh:
		cancel()
		logger.Error("listener failed", "error", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown failed", "error", err)
	}

	return nil
}

func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	var logLevel slog.Level
	switch cfg.Level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
