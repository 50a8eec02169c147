package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/iei-diagnostic-server/internal/api"
	"github.com/iei-diagnostic-server/internal/casestore"
	"github.com/iei-diagnostic-server/internal/config"
	"github.com/iei-diagnostic-server/internal/engine"
	"github.com/iei-diagnostic-server/internal/knowledge"
	"github.com/iei-diagnostic-server/internal/service"
)

func main() {
	// Load configuration
	configManager, err := config.NewManager()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := configManager.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}
	cfg := configManager.GetConfig()

	logger := newLogger(cfg.Logging.Level, cfg.Logging.Format)

	// Load the knowledge base: an external YAML file when configured, the
	// built-in IEI base otherwise.
	registry, err := loadKnowledgeBase(cfg.KnowledgeBase.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load knowledge base")
	}
	logger.WithFields(logrus.Fields{
		"categories": registry.NumCategories(),
		"questions":  registry.NumQuestions(),
		"patterns":   len(registry.Patterns()),
	}).Info("Knowledge base loaded")

	// Reasoning engine
	eng, err := engine.New(registry, cfg.Engine, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to create engine")
	}

	// Case store
	store, err := casestore.NewSQLiteStore(cfg.Database.Path)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open case store")
	}
	defer store.Close()

	// Session service and live stream hub
	hub := api.NewHub(logger)
	sessions := service.NewSessionService(eng, store, hub, logger)

	// HTTP server
	server := api.NewServer(cfg, sessions, hub, logger)
	logger.WithFields(logrus.Fields{
		"host": cfg.Server.Host,
		"port": cfg.Server.Port,
	}).Info("Starting IEI diagnostic server")

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		logger.Info("Shutdown signal received, gracefully shutting down...")
		cancel()
	}()

	// Start server
	if err := server.Start(ctx); err != nil {
		logger.WithError(err).Fatal("Server failed")
	}

	logger.Info("Server stopped")
}

func loadKnowledgeBase(path string) (*knowledge.Registry, error) {
	if path == "" {
		return knowledge.NewIEIRegistry()
	}
	return knowledge.Load(path)
}

func newLogger(level, format string) *logrus.Logger {
	logger := logrus.New()

	lvl, err := logrus.ParseLevel(strings.ToLower(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.ToLower(format) == "text" {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
