// Base Agent MCP Server - Exposes the agent's tool set as MCP tools for LLMs
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/junaid-mahmood/base-agent/internal/audit"
	"github.com/junaid-mahmood/base-agent/internal/catalog"
	"github.com/junaid-mahmood/base-agent/internal/config"
	"github.com/junaid-mahmood/base-agent/internal/mcpserver"
	"github.com/junaid-mahmood/base-agent/internal/moralis"
	"github.com/junaid-mahmood/base-agent/internal/toolkit"
	"github.com/junaid-mahmood/base-agent/internal/wallet"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	// logrus writes to stderr; stdout carries the MCP stdio transport
	logger := logrus.New()
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}

	w, err := wallet.Load(wallet.Config{
		DataFile:  cfg.WalletDataFile,
		NetworkID: cfg.NetworkID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load wallet: %v\n", err)
		os.Exit(1)
	}

	market := moralis.NewClient(cfg.MoralisBaseURL, cfg.MoralisAPIKey, w.NetworkID)
	deployer := wallet.NewDeployer(cfg.DeployServiceURL, w)

	reg := toolkit.NewRegistry()
	if err := catalog.Register(reg, market, w, deployer); err != nil {
		fmt.Fprintf(os.Stderr, "failed to register tools: %v\n", err)
		os.Exit(1)
	}

	if cfg.ClickHouseAddr != "" {
		sink, err := audit.NewSink(context.Background(), audit.Config{
			Addr:     cfg.ClickHouseAddr,
			Database: cfg.ClickHouseDatabase,
			Username: cfg.ClickHouseUsername,
			Password: cfg.ClickHousePassword,
			Source:   "mcp",
			Logger:   logger,
		})
		if err != nil {
			logger.WithError(err).Warn("audit trail disabled")
		} else {
			reg.SetRecorder(sink)
			defer sink.Close()
		}
	}

	s := mcpserver.NewMCPServer(reg)
	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "MCP server error: %v\n", err)
		os.Exit(1)
	}
}
