package session

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junaid-mahmood/base-agent/internal/agent"
)

type scriptedRunner struct {
	mu     sync.Mutex
	inputs []string
	events []agent.Event
	errs   []error
}

func (r *scriptedRunner) Run(_ context.Context, input string, sink agent.EventSink) (string, error) {
	r.mu.Lock()
	r.inputs = append(r.inputs, input)
	n := len(r.inputs)
	r.mu.Unlock()

	for _, e := range r.events {
		sink(e)
	}
	if n <= len(r.errs) && r.errs[n-1] != nil {
		return "", r.errs[n-1]
	}
	return "ok", nil
}

func (r *scriptedRunner) calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.inputs...)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestChooseMode(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"number chat", "1\n", ModeChat},
		{"number auto", "2\n", ModeAuto},
		{"name chat", "chat\n", ModeChat},
		{"name auto upper", "AUTO\n", ModeAuto},
		{"retry after invalid", "3\nauto\n", ModeAuto},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out strings.Builder
			d := NewDriver(&scriptedRunner{}, strings.NewReader(tc.input), &out, time.Second, quietLogger())

			mode, err := d.ChooseMode()
			require.NoError(t, err)
			assert.Equal(t, tc.want, mode)

			assert.Contains(t, out.String(), "Available modes:")
			assert.Contains(t, out.String(), "1. chat    - Interactive chat mode")
			assert.Contains(t, out.String(), "2. auto    - Autonomous action mode")
			if tc.input == "3\nauto\n" {
				assert.Contains(t, out.String(), "Invalid choice. Please try again.")
			}
		})
	}
}

func TestRunChat_ExitSentinelSkipsModel(t *testing.T) {
	for _, sentinel := range []string{"exit", "EXIT", "Exit"} {
		runner := &scriptedRunner{}
		var out strings.Builder
		d := NewDriver(runner, strings.NewReader(sentinel+"\n"), &out, time.Second, quietLogger())

		require.NoError(t, d.RunChat(context.Background()))
		assert.Empty(t, runner.calls(), "sentinel %q must not reach the model", sentinel)
		assert.Contains(t, out.String(), "Starting chat mode... Type 'exit' to end.")
		assert.Contains(t, out.String(), "\nUser: ")
	}
}

func TestRunChat_PrintsEventsWithDivider(t *testing.T) {
	runner := &scriptedRunner{events: []agent.Event{
		{Kind: agent.AgentText, Text: "Checking trending tokens."},
		{Kind: agent.ToolResult, Text: "Trending Tokens:\nToken Name: A (A)"},
	}}
	var out strings.Builder
	d := NewDriver(runner, strings.NewReader("what's trending?\nexit\n"), &out, time.Second, quietLogger())

	require.NoError(t, d.RunChat(context.Background()))
	require.Equal(t, []string{"what's trending?"}, runner.calls())

	text := out.String()
	assert.Contains(t, text, "Checking trending tokens.\n-------------------\n")
	assert.Contains(t, text, "Token Name: A (A)\n-------------------\n")
	assert.Equal(t, 2, strings.Count(text, "-------------------"))
}

func TestRunChat_TurnErrorKeepsLoop(t *testing.T) {
	runner := &scriptedRunner{errs: []error{errors.New("model unavailable")}}
	var out strings.Builder
	d := NewDriver(runner, strings.NewReader("hi\nstill here\nexit\n"), &out, time.Second, quietLogger())

	require.NoError(t, d.RunChat(context.Background()))
	assert.Equal(t, []string{"hi", "still here"}, runner.calls())
}

func TestRunChat_EOFEndsSession(t *testing.T) {
	runner := &scriptedRunner{}
	var out strings.Builder
	d := NewDriver(runner, strings.NewReader("hello\n"), &out, time.Second, quietLogger())

	require.NoError(t, d.RunChat(context.Background()))
	assert.Equal(t, []string{"hello"}, runner.calls())
}

func TestRunAuto_RepeatsUntilCancel(t *testing.T) {
	runner := &scriptedRunner{}
	var mu syncWriter
	d := NewDriver(runner, strings.NewReader(""), &mu, 5*time.Millisecond, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.RunAuto(ctx) }()

	time.Sleep(40 * time.Millisecond)
	cancel()

	err := <-done
	require.ErrorIs(t, err, context.Canceled)

	calls := runner.calls()
	assert.GreaterOrEqual(t, len(calls), 2)
	for _, input := range calls {
		assert.Equal(t, autoPrompt, input)
	}
	assert.Contains(t, mu.String(), "Starting autonomous mode...")
}

// syncWriter guards a builder written from the driver goroutine.
type syncWriter struct {
	mu sync.Mutex
	b  strings.Builder
}

func (w *syncWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.Write(p)
}

func (w *syncWriter) String() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.b.String()
}
