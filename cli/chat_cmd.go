package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/nox-hq/palaver/cli/tui"
	"github.com/nox-hq/palaver/core/conversation"

	"golang.org/x/term"
)

var rule = strings.Repeat("-", 40)

// runChat implements the "palaver chat" command.
func runChat(args []string) int {
	fs := flag.NewFlagSet("chat", flag.ContinueOnError)
	session := registerSessionFlags(fs)

	var plain bool
	fs.BoolVar(&plain, "plain", false, "use the line-oriented console even on a terminal")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(os.Stderr, session.verbose)
	conv, err := newConversation(session, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	if !plain && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
		m := tui.New(conv, conv.Transcript().Scheme().Name())
		p := tea.NewProgram(m, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "error: TUI failed: %v\n", err)
			return 2
		}
		return 0
	}

	if err := chatLoop(context.Background(), conv, os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	return 0
}

// chatLoop runs the console conversation. Each turn is every line read up to
// end-of-input; an end-of-input with nothing read ends the session. Service
// errors are reported and the loop prompts again.
func chatLoop(ctx context.Context, conv *conversation.Orchestrator, in io.Reader, out, errOut io.Writer) error {
	r := bufio.NewReader(in)
	for {
		fmt.Fprintln(out, "User: ")

		content, ok, err := readTurn(r)
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}
		if !ok {
			return nil
		}

		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "Generating response...")
		fmt.Fprintln(out, rule)

		reply, err := conv.Advance(ctx, content)
		if err != nil {
			var svcErr *conversation.ServiceInvocationError
			if !errors.As(err, &svcErr) {
				return err
			}
			fmt.Fprintf(errOut, "error: %v\n", err)
			continue
		}

		fmt.Fprintln(out, "Response received...")
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "Bot:")
		fmt.Fprintln(out, reply)
		fmt.Fprintln(out)
		fmt.Fprintln(out, rule)
		fmt.Fprintln(out, "...response ends")
		fmt.Fprintln(out, rule)
	}
}

// readTurn collects lines until end-of-input, terminating each with "\n".
// The flag is false when end-of-input arrives before any byte.
func readTurn(r *bufio.Reader) (string, bool, error) {
	var b strings.Builder
	ok := false
	for {
		line, err := r.ReadString('\n')
		if line != "" {
			ok = true
			b.WriteString(strings.TrimSuffix(line, "\n"))
			b.WriteString("\n")
		}
		if errors.Is(err, io.EOF) {
			return b.String(), ok, nil
		}
		if err != nil {
			return "", false, err
		}
	}
}
