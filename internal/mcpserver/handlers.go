package mcpserver

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/junaid-mahmood/base-agent/internal/toolkit"
)

// Handlers dispatches MCP tool calls through the registry.
type Handlers struct {
	reg *toolkit.Registry
}

func NewHandlers(reg *toolkit.Registry) *Handlers {
	return &Handlers{reg: reg}
}

// handle returns the handler for one tool. Failures become MCP tool errors,
// never Go errors: a protocol error would tear down the client session.
func (h *Handlers) handle(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		out, err := h.reg.InvokeArgs(ctx, name, req.GetArguments())
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(out), nil
	}
}
