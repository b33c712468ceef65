// Package mcpserver exposes the agent's tool catalog over the Model Context
// Protocol so external LLM clients can call the same tools the built-in
// agent uses.
package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/junaid-mahmood/base-agent/internal/toolkit"
)

// NewMCPServer builds an MCP server with one tool per registry entry, in
// registration order.
func NewMCPServer(reg *toolkit.Registry) *server.MCPServer {
	s := server.NewMCPServer("base-agent", "1.0.0")
	h := NewHandlers(reg)

	for _, def := range reg.Tools() {
		s.AddTool(toolFromDefinition(def), h.handle(def.Name))
	}

	return s
}
