package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/hrinsight/onboardform/internal/formconfig"
	"github.com/hrinsight/onboardform/internal/mainserver"
)

var (
	development bool

	configFile string
	port       string
	backendURL string
	draftDB    string
	draftSlot  string
	stubPort   string
)

func main() {
	// If we are in development environment or not
	flag.BoolVar(&development, "dev", false, "Development mode (runs the stub recruitment backend)")

	// Optional YAML configuration file
	flag.StringVar(&configFile, "config", "", "Path to a YAML configuration file")

	// The port for the form session server
	flag.StringVar(&port, "port", "", "Port for the form session server")

	// The base URL of the recruitment backend
	flag.StringVar(&backendURL, "backend-url", "", "Base URL of the recruitment backend")

	// Where drafts are persisted, and under which slot
	flag.StringVar(&draftDB, "draft-db", "", "Path of the SQLite draft database")
	flag.StringVar(&draftSlot, "draft-slot", "", "Storage slot for the in-progress draft")

	// The port for the development stub backend
	flag.StringVar(&stubPort, "stub-port", "", "Port for the stub recruitment backend (dev mode)")

	flag.Parse()

	cfg, err := formconfig.Load(configFile)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	// The environment takes precedence over the config file
	cfg.ApplyEnv()

	// Flags take precedence over everything
	if development {
		cfg.Development = true
	}
	if strings.ToLower(os.Getenv("ONBOARDFORM_DEVELOPMENT")) == "true" {
		cfg.Development = true
	}
	if port != "" {
		cfg.Port = port
	}
	if backendURL != "" {
		cfg.BackendURL = backendURL
	}
	if draftDB != "" {
		cfg.DraftDBPath = draftDB
	}
	if draftSlot != "" {
		cfg.DraftSlot = draftSlot
	}
	if stubPort != "" {
		cfg.StubPort = stubPort
	}

	// Initialize logging
	level := slog.LevelInfo
	if cfg.Development {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	// Say if we are in development or not
	if cfg.Development {
		slog.Info("Running in development mode")
	} else {
		slog.Info("Running in production mode")
	}

	// Create the main server. This initializes the draft store and the HTTP services.
	srv, err := mainserver.New(cfg)
	if err != nil {
		slog.Error("Failed to initialize server", "error", err)
		os.Exit(1)
	}

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		slog.Info("Shutdown signal received")
		cancel()
	}()

	// Start server
	if err := srv.Start(ctx); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
