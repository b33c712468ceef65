package toolkit

import "errors"

var (
	// ErrDuplicateTool means a second tool was registered under an existing
	// name; registration never silently shadows.
	ErrDuplicateTool = errors.New("duplicate tool name")

	// ErrUnknownTool means dispatch was requested for a name that was never
	// registered.
	ErrUnknownTool = errors.New("unknown tool")

	// ErrInvalidDefinition means a tool definition failed registration-time
	// checks (empty name or description, bad schema, handler inputs missing
	// from the schema).
	ErrInvalidDefinition = errors.New("invalid tool definition")

	// ErrInvalidInput means caller-supplied arguments violated the tool's
	// schema. The bound handler is never invoked in that case.
	ErrInvalidInput = errors.New("invalid tool input")
)
