package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/junaid-mahmood/base-agent/internal/toolkit"
)

// Handlers contains all dependencies for API endpoint handlers
type Handlers struct {
	Registry *toolkit.Registry // Tool catalog and dispatcher
	DevMode  bool              // Enable detailed error responses in development
	Logger   *logrus.Logger    // Structured logger
}

// err returns a standardized JSON error response
// In dev mode, includes additional error details for debugging
func (h *Handlers) err(c echo.Context, code int, msg string, details any) error {
	resp := ErrorResponse{Error: msg, Code: code}
	if h.DevMode && details != nil {
		resp.Details = details
	}
	return c.JSON(code, resp)
}

// Health returns a simple health check endpoint
func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

// Tools lists every registered tool with its input schema, in registration
// order.
func (h *Handlers) Tools(c echo.Context) error {
	defs := h.Registry.Tools()
	items := make([]ToolDescriptor, 0, len(defs))
	for _, def := range defs {
		items = append(items, ToolDescriptor{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  def.Schema.Parameters(),
		})
	}
	return c.JSON(http.StatusOK, map[string]any{"items": items})
}

// Invoke dispatches one tool call. Input that fails schema validation is the
// caller's fault and maps to 400; upstream failures a tool reports in its
// text come back as 200 with the text.
func (h *Handlers) Invoke(c echo.Context) error {
	name := c.Param("name")
	if _, ok := h.Registry.Get(name); !ok {
		return h.err(c, http.StatusNotFound, "unknown tool", map[string]any{"tool": name})
	}

	args := map[string]any{}
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&args); err != nil {
			return h.err(c, http.StatusBadRequest, "invalid json", nil)
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	start := time.Now()
	out, err := h.Registry.InvokeArgs(ctx, name, args)
	if err != nil {
		if errors.Is(err, toolkit.ErrInvalidInput) {
			return h.err(c, http.StatusBadRequest, "invalid input", map[string]any{"err": err.Error()})
		}
		h.Logger.WithError(err).WithField("tool", name).Error("tool invocation failed")
		return h.err(c, http.StatusInternalServerError, "tool invocation failed", map[string]any{"err": err.Error()})
	}

	return c.JSON(http.StatusOK, InvokeResponse{
		Tool:   name,
		Output: out,
		TookMs: time.Since(start).Milliseconds(),
	})
}
