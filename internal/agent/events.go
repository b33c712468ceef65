package agent

import (
	"context"
	"strings"

	"github.com/tmc/langchaingo/callbacks"
	"github.com/tmc/langchaingo/schema"
)

// EventKind discriminates streamed turn events.
type EventKind int

const (
	// AgentText is reasoning or answer text produced by the model.
	AgentText EventKind = iota
	// ToolResult is the observation text a tool call returned.
	ToolResult
)

type Event struct {
	Kind EventKind
	Text string
}

// EventSink receives events in the order the turn produces them. Sinks run
// on the turn's goroutine; a slow sink slows the turn.
type EventSink func(Event)

// streamHandler forwards the model's intermediate output to the sink. Tool
// observations are emitted by the tool adapter, not here.
type streamHandler struct {
	callbacks.SimpleHandler
	sink EventSink
}

func newStreamHandler(sink EventSink) *streamHandler {
	return &streamHandler{sink: sink}
}

func (h *streamHandler) HandleAgentAction(_ context.Context, action schema.AgentAction) {
	if text := strings.TrimSpace(action.Log); text != "" {
		h.sink(Event{Kind: AgentText, Text: text})
	}
}

func (h *streamHandler) HandleAgentFinish(_ context.Context, finish schema.AgentFinish) {
	text, _ := finish.ReturnValues["output"].(string)
	if text == "" {
		text = finish.Log
	}
	if text = strings.TrimSpace(text); text != "" {
		h.sink(Event{Kind: AgentText, Text: text})
	}
}
