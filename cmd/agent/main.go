package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/schema"

	"github.com/junaid-mahmood/base-agent/internal/agent"
	"github.com/junaid-mahmood/base-agent/internal/audit"
	"github.com/junaid-mahmood/base-agent/internal/catalog"
	"github.com/junaid-mahmood/base-agent/internal/config"
	"github.com/junaid-mahmood/base-agent/internal/history"
	"github.com/junaid-mahmood/base-agent/internal/moralis"
	"github.com/junaid-mahmood/base-agent/internal/session"
	"github.com/junaid-mahmood/base-agent/internal/toolkit"
	"github.com/junaid-mahmood/base-agent/internal/wallet"
)

func main() {
	// Logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	logger.SetLevel(logrus.InfoLevel)

	// Config
	cfg := config.Load()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatal("invalid configuration")
	}
	if cfg.LLMAPIKey() == "" {
		logger.Fatal("OPENAI_API_KEY or ANTHROPIC_API_KEY is required for the agent. Please set it in your environment or config.")
	}

	fmt.Println("Starting Agent...")

	// Context + signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nGoodbye Agent!")
		os.Exit(0)
	}()

	// Wallet
	w, err := wallet.Load(wallet.Config{
		DataFile:  cfg.WalletDataFile,
		NetworkID: cfg.NetworkID,
	})
	if err != nil {
		logger.WithError(err).Fatal("failed to load wallet")
	}
	logger.WithFields(logrus.Fields{
		"address": w.Address(),
		"network": w.NetworkID(),
	}).Info("wallet ready")

	// Tools
	market := moralis.NewClient(cfg.MoralisBaseURL, cfg.MoralisAPIKey, w.NetworkID)
	deployer := wallet.NewDeployer(cfg.DeployServiceURL, w)

	reg := toolkit.NewRegistry()
	if err := catalog.Register(reg, market, w, deployer); err != nil {
		logger.WithError(err).Fatal("failed to register tools")
	}

	// Audit trail (optional)
	if cfg.ClickHouseAddr != "" {
		sink, err := audit.NewSink(ctx, audit.Config{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Source:   "cli",
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("audit trail disabled")
		} else {
			reg.SetRecorder(sink)
			defer sink.Close()
		}
	}

	// Conversation history (optional, in-memory without Redis)
	var hist schema.ChatMessageHistory
	if cfg.RedisAddr != "" {
		rclient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := rclient.Ping(ctx).Err(); err != nil {
			logger.WithError(err).Warn("redis unreachable, chat history will not persist")
		} else {
			store, err := history.NewStore(rclient, cfg.ThreadID, cfg.HistoryTTL)
			if err != nil {
				logger.WithError(err).Warn("chat history disabled")
			} else {
				hist = store
			}
		}
	}

	// Agent
	ag, err := agent.New(agent.Config{
		Provider:      cfg.LLMProvider,
		APIKey:        cfg.LLMAPIKey(),
		Model:         cfg.LLMModel,
		BaseURL:       cfg.LLMBaseURL,
		MaxIterations: cfg.MaxIterations,
		History:       hist,
		Logger:        logger,
	}, reg)
	if err != nil {
		logger.WithError(err).Fatal("failed to create agent")
	}

	// Session
	driver := session.NewDriver(ag, os.Stdin, os.Stdout, cfg.AutoInterval, logger)
	if err := driver.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Fatal("session failed")
	}
}
