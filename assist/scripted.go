package assist

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DummyResponse is what the "ok" action returns.
const DummyResponse = "Dummy response"

type action struct {
	kind string
	arg  string
}

func parseScript(script string) ([]action, error) {
	if strings.TrimSpace(script) == "" {
		return []action{{kind: "ok"}}, nil
	}
	parts := strings.Split(script, ",")
	actions := make([]action, 0, len(parts))
	for _, p := range parts {
		token := strings.TrimSpace(p)
		if token == "" {
			continue
		}
		if token == "ok" {
			actions = append(actions, action{kind: "ok"})
			continue
		}
		kind, arg, found := strings.Cut(token, ":")
		if !found {
			return nil, fmt.Errorf("invalid script action: %s", token)
		}
		switch kind {
		case "msg", "err", "sleep":
		case "msgb64":
			raw, err := base64.StdEncoding.DecodeString(arg)
			if err != nil {
				return nil, fmt.Errorf("script action msgb64 decode failed: %w", err)
			}
			kind, arg = "msg", string(raw)
		default:
			return nil, fmt.Errorf("invalid script action: %s", token)
		}
		if kind == "sleep" {
			if _, err := strconv.Atoi(arg); err != nil {
				return nil, fmt.Errorf("invalid sleep duration %q: %w", arg, err)
			}
		}
		actions = append(actions, action{kind: kind, arg: arg})
	}
	if len(actions) == 0 {
		actions = append(actions, action{kind: "ok"})
	}
	return actions, nil
}

// ScriptedProvider is an offline Completer that plays back a fixed script.
// Actions are comma-separated:
//
//	ok            reply with DummyResponse
//	msg:<text>    reply with text, returned raw so stop handling still applies
//	msgb64:<b64>  reply with base64-decoded text (for commas and newlines)
//	err:<class>   fail the call
//	sleep:<ms>    wait, then reply with DummyResponse
//
// Once the script is exhausted the last action repeats.
type ScriptedProvider struct {
	mu      sync.Mutex
	actions []action
	index   int
	prompts []string
}

// NewScriptedProvider parses script. An empty script always replies "ok".
func NewScriptedProvider(script string) (*ScriptedProvider, error) {
	actions, err := parseScript(script)
	if err != nil {
		return nil, err
	}
	return &ScriptedProvider{actions: actions}, nil
}

func (p *ScriptedProvider) next() action {
	if p.index >= len(p.actions) {
		return p.actions[len(p.actions)-1]
	}
	a := p.actions[p.index]
	p.index++
	return a
}

// Complete implements Completer.
func (p *ScriptedProvider) Complete(ctx context.Context, req Request) (*Response, error) {
	p.mu.Lock()
	a := p.next()
	p.prompts = append(p.prompts, req.Prompt)
	p.mu.Unlock()

	switch a.kind {
	case "msg":
		return &Response{Text: a.arg, FinishReason: "stop"}, nil
	case "err":
		return nil, fmt.Errorf("scripted completion error class=%s", emptyAs(a.arg, "service"))
	case "sleep":
		ms, _ := strconv.Atoi(a.arg)
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return &Response{Text: DummyResponse, FinishReason: "stop"}, nil
}

// Prompts returns every prompt received so far.
func (p *ScriptedProvider) Prompts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.prompts...)
}

func emptyAs(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}
