package mcpserver

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/junaid-mahmood/base-agent/internal/toolkit"
)

// toolFromDefinition renders a registry schema as an MCP tool declaration.
// Bounds and defaults are spelled out in the property description; the
// registry stays the single validator at dispatch time.
func toolFromDefinition(def toolkit.Definition) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(def.Description)}

	for _, f := range def.Schema.Fields {
		popts := []mcp.PropertyOption{mcp.Description(describeField(f))}
		if f.Required {
			popts = append(popts, mcp.Required())
		}
		switch f.Type {
		case toolkit.FieldInt:
			opts = append(opts, mcp.WithNumber(f.Name, popts...))
		default:
			opts = append(opts, mcp.WithString(f.Name, popts...))
		}
	}

	return mcp.NewTool(def.Name, opts...)
}

func describeField(f toolkit.Field) string {
	desc := f.Description
	var notes []string
	if f.Default != nil {
		notes = append(notes, fmt.Sprintf("default %d", *f.Default))
	}
	switch {
	case f.Min != nil && f.Max != nil:
		notes = append(notes, fmt.Sprintf("range %d-%d", *f.Min, *f.Max))
	case f.Min != nil:
		notes = append(notes, fmt.Sprintf("minimum %d", *f.Min))
	case f.Max != nil:
		notes = append(notes, fmt.Sprintf("maximum %d", *f.Max))
	}
	if f.Example != "" {
		notes = append(notes, "e.g. "+f.Example)
	}
	if len(notes) > 0 {
		desc = fmt.Sprintf("%s (%s)", desc, strings.Join(notes, ", "))
	}
	return desc
}
