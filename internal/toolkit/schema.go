package toolkit

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "integer"
)

// Field describes one input of a tool schema. Min, Max and Default apply to
// integer fields; Contains is a literal substring a string value must
// include (used for URI templates with required placeholders).
type Field struct {
	Name        string
	Type        FieldType
	Description string
	Example     string
	Required    bool
	Default     *int
	Min         *int
	Max         *int
	Contains    string
}

type Schema struct {
	Fields []Field
}

// Args is a schema-resolved argument map: strings hold string values,
// integers hold int values, defaults already applied.
type Args map[string]any

func (a Args) String(name string) string {
	if s, ok := a[name].(string); ok {
		return s
	}
	return ""
}

func (a Args) Int(name string) int {
	if i, ok := a[name].(int); ok {
		return i
	}
	return 0
}

func (s Schema) field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// soleStringField reports the schema's only required string field, if there
// is exactly one. Bare (non-JSON) tool inputs bind to it.
func (s Schema) soleStringField() (Field, bool) {
	var found Field
	n := 0
	for _, f := range s.Fields {
		if f.Type == FieldString && f.Required {
			found = f
			n++
		}
	}
	if n == 1 {
		return found, true
	}
	return Field{}, false
}

func (s Schema) hasRequired() bool {
	for _, f := range s.Fields {
		if f.Required {
			return true
		}
	}
	return false
}

// check runs registration-time sanity checks on the schema itself. A schema
// with no fields is legal; some tools take no input.
func (s Schema) check() error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if strings.TrimSpace(f.Name) == "" {
			return fmt.Errorf("schema field with empty name")
		}
		if seen[f.Name] {
			return fmt.Errorf("schema field %q declared twice", f.Name)
		}
		seen[f.Name] = true

		switch f.Type {
		case FieldString:
			if f.Default != nil || f.Min != nil || f.Max != nil {
				return fmt.Errorf("field %q: numeric constraints on a string field", f.Name)
			}
		case FieldInt:
			if f.Contains != "" {
				return fmt.Errorf("field %q: contains constraint on an integer field", f.Name)
			}
			if f.Min != nil && f.Max != nil && *f.Min > *f.Max {
				return fmt.Errorf("field %q: min %d above max %d", f.Name, *f.Min, *f.Max)
			}
			if f.Default != nil {
				if f.Min != nil && *f.Default < *f.Min {
					return fmt.Errorf("field %q: default %d below min %d", f.Name, *f.Default, *f.Min)
				}
				if f.Max != nil && *f.Default > *f.Max {
					return fmt.Errorf("field %q: default %d above max %d", f.Name, *f.Default, *f.Max)
				}
			}
		default:
			return fmt.Errorf("field %q: unknown type %q", f.Name, f.Type)
		}
	}
	return nil
}

// Resolve validates raw arguments against the schema and returns a
// normalized copy with defaults applied. Unknown keys are ignored. Every
// failure wraps ErrInvalidInput and happens before any handler runs.
func (s Schema) Resolve(raw map[string]any) (Args, error) {
	args := make(Args, len(s.Fields))
	for _, f := range s.Fields {
		v, present := raw[f.Name]
		if !present || v == nil {
			if f.Default != nil {
				args[f.Name] = *f.Default
				continue
			}
			if f.Required {
				return nil, fmt.Errorf("%w: missing required field %q", ErrInvalidInput, f.Name)
			}
			continue
		}

		switch f.Type {
		case FieldString:
			str, ok := toString(v)
			if !ok {
				return nil, fmt.Errorf("%w: field %q must be a string", ErrInvalidInput, f.Name)
			}
			if f.Contains != "" && !strings.Contains(str, f.Contains) {
				return nil, fmt.Errorf("%w: %s must contain the %s placeholder", ErrInvalidInput, f.Name, f.Contains)
			}
			args[f.Name] = str
		case FieldInt:
			n, ok := toInt(v)
			if !ok {
				return nil, fmt.Errorf("%w: field %q must be an integer", ErrInvalidInput, f.Name)
			}
			if f.Min != nil && n < *f.Min {
				return nil, fmt.Errorf("%w: field %q must be at least %d", ErrInvalidInput, f.Name, *f.Min)
			}
			if f.Max != nil && n > *f.Max {
				return nil, fmt.Errorf("%w: field %q must be at most %d", ErrInvalidInput, f.Name, *f.Max)
			}
			args[f.Name] = n
		}
	}
	return args, nil
}

// Parameters renders the schema as a JSON-schema style object for the HTTP
// and MCP surfaces.
func (s Schema) Parameters() map[string]any {
	props := make(map[string]any, len(s.Fields))
	var required []string
	for _, f := range s.Fields {
		p := map[string]any{
			"type":        string(f.Type),
			"description": f.Description,
		}
		if f.Example != "" {
			p["example"] = f.Example
		}
		if f.Default != nil {
			p["default"] = *f.Default
		}
		if f.Min != nil {
			p["minimum"] = *f.Min
		}
		if f.Max != nil {
			p["maximum"] = *f.Max
		}
		props[f.Name] = p
		if f.Required {
			required = append(required, f.Name)
		}
	}
	out := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		out["required"] = required
	}
	return out
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	}
	return "", false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n == math.Trunc(n) {
			return int(n), true
		}
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
	case string:
		if i, err := strconv.Atoi(strings.TrimSpace(n)); err == nil {
			return i, true
		}
	}
	return 0, false
}

// IntPtr is a convenience for schema literals.
func IntPtr(v int) *int { return &v }
