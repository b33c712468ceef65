package toolkit

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Handler executes a tool call with schema-resolved arguments. Soft failures
// (upstream errors the decision loop should read) belong in the returned
// text; a non-nil error means a caller-side contract violation.
type Handler func(ctx context.Context, args Args) (string, error)

// Definition binds a handler to a stable name, a natural-language
// description and a validated input schema. Inputs lists the schema fields
// the handler reads; registration fails if one is missing from the schema.
type Definition struct {
	Name        string
	Description string
	Schema      Schema
	Inputs      []string
	Handler     Handler
}

// Invocation is the audit record of one dispatch.
type Invocation struct {
	ID       string
	Tool     string
	Input    string
	Output   string
	Outcome  string
	Duration time.Duration
	At       time.Time
}

const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeHandlerError = "handler_error"
)

// Recorder receives one record per dispatch. Implementations must not fail
// the invocation; persistence errors are theirs to log.
type Recorder interface {
	Record(ctx context.Context, inv Invocation)
}

// NopRecorder discards records; the default when no audit sink is wired.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Invocation) {}

// Registry maps tool names to definitions and dispatches validated calls.
// Registration happens at startup; dispatch may run concurrently.
type Registry struct {
	mu    sync.RWMutex
	defs  map[string]Definition
	order []string
	rec   Recorder
}

func NewRegistry() *Registry {
	return &Registry{
		defs: make(map[string]Definition),
		rec:  NopRecorder{},
	}
}

// SetRecorder wires the audit sink. Passing nil restores the no-op.
func (r *Registry) SetRecorder(rec Recorder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec == nil {
		rec = NopRecorder{}
	}
	r.rec = rec
}

func (r *Registry) Register(def Definition) error {
	def.Name = strings.TrimSpace(def.Name)
	if def.Name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidDefinition)
	}
	if strings.TrimSpace(def.Description) == "" {
		return fmt.Errorf("%w: tool %q has no description", ErrInvalidDefinition, def.Name)
	}
	if def.Handler == nil {
		return fmt.Errorf("%w: tool %q has no handler", ErrInvalidDefinition, def.Name)
	}
	if err := def.Schema.check(); err != nil {
		return fmt.Errorf("%w: tool %q: %v", ErrInvalidDefinition, def.Name, err)
	}
	for _, in := range def.Inputs {
		if _, ok := def.Schema.field(in); !ok {
			return fmt.Errorf("%w: tool %q reads field %q missing from its schema", ErrInvalidDefinition, def.Name, in)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[def.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, def.Name)
	}
	r.defs[def.Name] = def
	r.order = append(r.order, def.Name)
	return nil
}

// Get returns the definition registered under name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.defs[name]
	return def, ok
}

// Tools lists definitions in registration order.
func (r *Registry) Tools() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.defs[name])
	}
	return out
}

// Invoke parses a raw tool input (a JSON object, or a bare string bound to
// the schema's single required string field), validates it, and dispatches.
// Validation failures return before the handler runs.
func (r *Registry) Invoke(ctx context.Context, name, input string) (string, error) {
	def, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	raw, err := parseInput(def.Schema, input)
	if err != nil {
		return "", err
	}
	return r.dispatch(ctx, def, raw, input)
}

// InvokeArgs dispatches with an already-structured argument map; used by the
// HTTP and MCP surfaces.
func (r *Registry) InvokeArgs(ctx context.Context, name string, raw map[string]any) (string, error) {
	def, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	b, _ := json.Marshal(raw)
	return r.dispatch(ctx, def, raw, string(b))
}

func (r *Registry) dispatch(ctx context.Context, def Definition, raw map[string]any, input string) (string, error) {
	start := time.Now()

	args, err := def.Schema.Resolve(raw)
	if err != nil {
		r.record(ctx, def.Name, input, err.Error(), OutcomeInvalidInput, start)
		return "", err
	}

	out, err := def.Handler(ctx, args)
	if err != nil {
		r.record(ctx, def.Name, input, err.Error(), OutcomeHandlerError, start)
		return "", err
	}
	r.record(ctx, def.Name, input, out, OutcomeOK, start)
	return out, nil
}

func (r *Registry) record(ctx context.Context, tool, input, output, outcome string, start time.Time) {
	r.mu.RLock()
	rec := r.rec
	r.mu.RUnlock()
	rec.Record(ctx, Invocation{
		ID:       uuid.NewString(),
		Tool:     tool,
		Input:    truncate(input, 2048),
		Output:   truncate(output, 2048),
		Outcome:  outcome,
		Duration: time.Since(start),
		At:       start,
	})
}

func parseInput(s Schema, input string) (map[string]any, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || trimmed == "{}" || trimmed == "null" {
		return map[string]any{}, nil
	}
	if strings.HasPrefix(trimmed, "{") {
		var m map[string]any
		dec := json.NewDecoder(strings.NewReader(trimmed))
		dec.UseNumber()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		return m, nil
	}
	if f, ok := s.soleStringField(); ok {
		return map[string]any{f.Name: strings.Trim(trimmed, `"`)}, nil
	}
	if !s.hasRequired() {
		// Nothing to bind a bare input to; defaults carry the call.
		return map[string]any{}, nil
	}
	return nil, fmt.Errorf("%w: expected a JSON object", ErrInvalidInput)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
