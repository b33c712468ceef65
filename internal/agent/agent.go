// Package agent wires the language model, the tool registry and conversation
// memory into a ReAct loop.
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/agents"
	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/anthropic"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/memory"
	"github.com/tmc/langchaingo/schema"

	"github.com/junaid-mahmood/base-agent/internal/toolkit"
)

const persona = `You are a helpful agent that can interact with the Base blockchain using your tools.
You can inspect tokens, wallets and trading pairs, and deploy multi-token contracts.
If you ever need funds, provide your wallet details and request them from the user.
If someone asks you to do something you cannot do with your currently available tools, you must say so.
Be concise and helpful with your responses. Refrain from restating your tool's descriptions unless it is explicitly requested.`

const defaultModel = "gpt-4o-mini"

type Config struct {
	// Provider selects the chat backend: "openai" (default) or "anthropic".
	Provider string
	APIKey   string
	Model    string
	// BaseURL points the OpenAI client at a compatible endpoint such as a
	// proxy or router; ignored for other providers.
	BaseURL string

	MaxIterations int
	// History persists the conversation across restarts; nil keeps it in
	// process memory.
	History schema.ChatMessageHistory

	Logger *logrus.Logger
}

type Agent struct {
	llm           llms.Model
	reg           *toolkit.Registry
	memory        *memory.ConversationBuffer
	maxIterations int
	log           *logrus.Logger
}

func New(cfg Config, reg *toolkit.Registry) (*Agent, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 8
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("llm api key is required")
	}
	if reg == nil {
		return nil, fmt.Errorf("tool registry is nil")
	}

	llm, err := newLLM(cfg)
	if err != nil {
		return nil, err
	}

	hist := cfg.History
	if hist == nil {
		hist = memory.NewChatMessageHistory()
	}

	cfg.Logger.WithFields(logrus.Fields{
		"provider": providerName(cfg.Provider),
		"model":    cfg.Model,
		"tools":    len(reg.Tools()),
	}).Info("initialized agent")

	return &Agent{
		llm:           llm,
		reg:           reg,
		memory:        memory.NewConversationBuffer(memory.WithChatHistory(hist)),
		maxIterations: cfg.MaxIterations,
		log:           cfg.Logger,
	}, nil
}

func newLLM(cfg Config) (llms.Model, error) {
	switch providerName(cfg.Provider) {
	case "anthropic":
		llm, err := anthropic.New(
			anthropic.WithToken(cfg.APIKey),
			anthropic.WithModel(cfg.Model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Anthropic LLM: %w", err)
		}
		return llm, nil
	case "openai":
		opts := []openai.Option{
			openai.WithToken(cfg.APIKey),
			openai.WithModel(cfg.Model),
		}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		llm, err := openai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create OpenAI LLM: %w", err)
		}
		return llm, nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

func providerName(p string) string {
	p = strings.ToLower(strings.TrimSpace(p))
	if p == "" {
		return "openai"
	}
	return p
}

// Run executes one turn. Intermediate reasoning and tool observations stream
// to the sink in order; the final answer is both streamed and returned.
func (a *Agent) Run(ctx context.Context, input string, sink EventSink) (string, error) {
	if sink == nil {
		sink = func(Event) {}
	}

	exec, err := agents.Initialize(
		a.llm,
		a.toolbelt(sink),
		agents.ConversationalReactDescription,
		agents.WithMemory(a.memory),
		agents.WithMaxIterations(a.maxIterations),
		agents.WithPromptPrefix(persona),
		agents.WithCallbacksHandler(newStreamHandler(sink)),
	)
	if err != nil {
		return "", fmt.Errorf("build agent executor: %w", err)
	}

	out, err := chains.Run(ctx, exec, input)
	if err != nil {
		return "", fmt.Errorf("agent turn: %w", err)
	}
	return out, nil
}
