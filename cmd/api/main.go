package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/junaid-mahmood/base-agent/internal/audit"
	"github.com/junaid-mahmood/base-agent/internal/catalog"
	"github.com/junaid-mahmood/base-agent/internal/config"
	"github.com/junaid-mahmood/base-agent/internal/moralis"
	"github.com/junaid-mahmood/base-agent/internal/server"
	"github.com/junaid-mahmood/base-agent/internal/toolkit"
	"github.com/junaid-mahmood/base-agent/internal/wallet"
)

// main is the entry point for the API server
// It initializes all dependencies and starts the HTTP server with graceful shutdown
func main() {
	// Initialize structured logger with custom formatting
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// Load and validate configuration from environment variables
	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown (Ctrl+C, SIGTERM)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	// Initialize the wallet backing wallet-scoped tools
	w, err := wallet.Load(wallet.Config{
		DataFile:  cfg.WalletDataFile,
		NetworkID: cfg.NetworkID,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to load wallet")
	}

	// Register the tool set served over HTTP
	market := moralis.NewClient(cfg.MoralisBaseURL, cfg.MoralisAPIKey, w.NetworkID)
	deployer := wallet.NewDeployer(cfg.DeployServiceURL, w)

	reg := toolkit.NewRegistry()
	if err := catalog.Register(reg, market, w, deployer); err != nil {
		logger.WithError(err).Fatal("failed to register tools")
	}

	// Every invocation is metered; the ClickHouse audit trail is optional
	rec := server.MeteredRecorder{}
	if cfg.ClickHouseAddr != "" {
		sink, err := audit.NewSink(ctx, audit.Config{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Source:   "api",
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("audit trail disabled")
		} else {
			rec.Next = sink
			defer sink.Close()
		}
	}
	reg.SetRecorder(rec)

	// Create handlers with all dependencies injected
	h := &server.Handlers{
		Registry: reg,                 // Tool registry served by the API
		DevMode:  cfg.IsDevelopment(), // Enable detailed error responses in development
		Logger:   logger,              // Structured logger
	}

	// Create HTTP server with configuration and handlers
	srv, err := server.NewServer(server.ServerDeps{
		Handlers: h,
		Config: server.ServerConfig{
			Addr:           cfg.APIAddr,         // Server bind address (e.g., ":8080")
			DevMode:        cfg.IsDevelopment(), // Development mode flag
			APIKey:         cfg.APIKey,          // Optional API key for authentication
			RateLimitRPS:   cfg.RateLimitRPS,
			RateLimitBurst: cfg.RateLimitBurst,
		},
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to create http server")
	}

	// Setup graceful shutdown in a separate goroutine
	go func() {
		<-sigCh // Wait for shutdown signal
		logger.Info("shutting down")
		cancel()                               // Cancel context to stop ongoing operations
		_ = srv.Shutdown(context.Background()) // Gracefully shutdown HTTP server
	}()

	// Start the HTTP server
	logger.WithField("addr", cfg.APIAddr).Info("api server starting")
	if err := srv.Start(); err != nil {
		// "http: Server closed" is expected during graceful shutdown
		if err.Error() == "http: Server closed" {
			return
		}
		logger.WithError(err).Fatal("api server failed")
	}

	// Wait for server to be fully shut down
	if err := srv.WaitClosed(context.Background()); err != nil {
		fmt.Println(err)
	}
}
