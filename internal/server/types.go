package server

// ErrorResponse is the standard error envelope for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`             // Human-readable error message
	Code    int    `json:"code"`              // HTTP status code
	Details any    `json:"details,omitempty"` // Additional error details (dev mode only)
}

// HealthResponse represents the health check response
type HealthResponse struct {
	OK bool `json:"ok"` // Service health status
}

// ToolDescriptor describes one registered tool for API consumers.
type ToolDescriptor struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Parameters  map[string]any `json:"parameters"` // JSON-schema style input description
}

// InvokeResponse carries the text report a tool produced.
type InvokeResponse struct {
	Tool   string `json:"tool"`
	Output string `json:"output"`
	TookMs int64  `json:"took_ms"` // Execution time in milliseconds
}
