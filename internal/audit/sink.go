// Package audit persists one record per tool dispatch into ClickHouse. A
// broken sink must never take the agent down: write failures are logged and
// dropped.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"

	"github.com/junaid-mahmood/base-agent/internal/toolkit"
)

const ddl = `
CREATE TABLE IF NOT EXISTS agent_tool_invocations (
	id          String,
	source      LowCardinality(String),
	tool        LowCardinality(String),
	input       String,
	output      String,
	outcome     LowCardinality(String),
	duration_ms Float64,
	at          DateTime64(3)
) ENGINE = MergeTree()
ORDER BY (tool, at)
`

type Config struct {
	Addr     string
	Database string
	Username string
	Password string

	// Source labels who dispatched: "cli", "api" or "mcp".
	Source string

	Logger *logrus.Logger
}

type Sink struct {
	conn   driver.Conn
	source string
	log    *logrus.Logger
}

var _ toolkit.Recorder = (*Sink)(nil)

// NewSink connects, pings, and creates the invocations table if missing.
func NewSink(ctx context.Context, cfg Config) (*Sink, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Source == "" {
		cfg.Source = "cli"
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}
	if err := conn.Exec(ctx, ddl); err != nil {
		return nil, fmt.Errorf("failed to ensure audit table: %w", err)
	}

	cfg.Logger.WithFields(logrus.Fields{
		"addr":     cfg.Addr,
		"database": cfg.Database,
		"source":   cfg.Source,
	}).Info("audit sink connected")

	return &Sink{conn: conn, source: cfg.Source, log: cfg.Logger}, nil
}

// Record satisfies toolkit.Recorder.
func (s *Sink) Record(ctx context.Context, inv toolkit.Invocation) {
	query := `
		INSERT INTO agent_tool_invocations (
			id, source, tool, input, output, outcome, duration_ms, at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		inv.ID,
		s.source,
		inv.Tool,
		inv.Input,
		inv.Output,
		inv.Outcome,
		float64(inv.Duration)/float64(time.Millisecond),
		inv.At,
	)
	if err != nil {
		s.log.WithError(err).WithField("tool", inv.Tool).Warn("failed to record tool invocation")
	}
}

func (s *Sink) Close() error {
	return s.conn.Close()
}
