package agent

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/tools"

	"github.com/junaid-mahmood/base-agent/internal/toolkit"
)

// lcTool adapts one registry entry to the langchaingo tool interface.
// Rejected input comes back as observation text so the model can correct
// itself instead of killing the turn.
type lcTool struct {
	name        string
	description string
	reg         *toolkit.Registry
	sink        EventSink
}

var _ tools.Tool = lcTool{}

func (t lcTool) Name() string        { return t.name }
func (t lcTool) Description() string { return t.description }

func (t lcTool) Call(ctx context.Context, input string) (string, error) {
	out, err := t.reg.Invoke(ctx, t.name, input)
	if err != nil {
		out = fmt.Sprintf("Error invoking %s: %v", t.name, err)
	}
	t.sink(Event{Kind: ToolResult, Text: out})
	return out, nil
}

// toolbelt rebinds the registry to a sink for one turn.
func (a *Agent) toolbelt(sink EventSink) []tools.Tool {
	defs := a.reg.Tools()
	out := make([]tools.Tool, 0, len(defs))
	for _, def := range defs {
		out = append(out, lcTool{
			name:        def.Name,
			description: def.Description,
			reg:         a.reg,
			sink:        sink,
		})
	}
	return out
}
