// Package session drives the agent from a terminal: an interactive chat loop
// and an autonomous loop that acts on a fixed interval.
package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/junaid-mahmood/base-agent/internal/agent"
)

const divider = "-------------------"

const autoPrompt = "Be creative and do something interesting on the blockchain. " +
	"Choose an action or set of actions and execute it that highlights your abilities."

const (
	ModeChat = "chat"
	ModeAuto = "auto"
)

// Runner is the slice of the agent the driver needs.
type Runner interface {
	Run(ctx context.Context, input string, sink agent.EventSink) (string, error)
}

type Driver struct {
	runner   Runner
	in       *bufio.Reader
	out      io.Writer
	interval time.Duration
	log      *logrus.Logger
}

func NewDriver(runner Runner, in io.Reader, out io.Writer, interval time.Duration, log *logrus.Logger) *Driver {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if log == nil {
		log = logrus.New()
	}
	return &Driver{
		runner:   runner,
		in:       bufio.NewReader(in),
		out:      out,
		interval: interval,
		log:      log,
	}
}

// Run picks a mode interactively, then drives it until the session ends.
func (d *Driver) Run(ctx context.Context) error {
	mode, err := d.ChooseMode()
	if err != nil {
		return err
	}
	if mode == ModeAuto {
		return d.RunAuto(ctx)
	}
	return d.RunChat(ctx)
}

// ChooseMode prompts until the user picks a mode by number or name.
func (d *Driver) ChooseMode() (string, error) {
	for {
		fmt.Fprintln(d.out, "\nAvailable modes:")
		fmt.Fprintln(d.out, "1. chat    - Interactive chat mode")
		fmt.Fprintln(d.out, "2. auto    - Autonomous action mode")

		fmt.Fprint(d.out, "\nChoose a mode (enter number or name): ")
		line, err := d.in.ReadString('\n')
		if err != nil && line == "" {
			return "", err
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "1", ModeChat:
			return ModeChat, nil
		case "2", ModeAuto:
			return ModeAuto, nil
		}
		fmt.Fprintln(d.out, "Invalid choice. Please try again.")
		if err != nil {
			return "", err
		}
	}
}

// RunChat reads user turns until an "exit" line, matched in any case, or
// until input ends. The sentinel terminates before any model call; turn
// failures are logged and the loop keeps going.
func (d *Driver) RunChat(ctx context.Context) error {
	fmt.Fprintln(d.out, "Starting chat mode... Type 'exit' to end.")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(d.out, "\nUser: ")
		line, err := d.in.ReadString('\n')
		if err != nil && line == "" {
			if err == io.EOF {
				return nil
			}
			return err
		}

		input := strings.TrimRight(line, "\r\n")
		if strings.EqualFold(input, "exit") {
			return nil
		}

		if _, runErr := d.runner.Run(ctx, input, d.print); runErr != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.log.WithError(runErr).Error("chat turn failed")
		}

		if err != nil {
			return nil
		}
	}
}

// RunAuto issues the same open-ended instruction on a fixed interval until
// the context ends. The first action fires immediately.
func (d *Driver) RunAuto(ctx context.Context) error {
	fmt.Fprintln(d.out, "Starting autonomous mode...")

	for {
		if _, err := d.runner.Run(ctx, autoPrompt, d.print); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			d.log.WithError(err).Error("autonomous action failed")
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(d.interval):
		}
	}
}

func (d *Driver) print(e agent.Event) {
	fmt.Fprintln(d.out, e.Text)
	fmt.Fprintln(d.out, divider)
}
