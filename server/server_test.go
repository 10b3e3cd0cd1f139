package server

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/nox-hq/palaver/assist"
	"github.com/nox-hq/palaver/core/conversation"
	"github.com/nox-hq/palaver/core/framing"
	"github.com/nox-hq/palaver/core/transcript"
)

func newTestServer(t *testing.T, script string) *Server {
	t.Helper()
	p, err := assist.NewScriptedProvider(script)
	if err != nil {
		t.Fatal(err)
	}
	conv := conversation.New(transcript.New(framing.Tags()), p)
	return New("0.1.0", conv)
}

func TestHandleSendMessage(t *testing.T) {
	s := newTestServer(t, "msg:Hello! </bot_message>")
	req := makeToolRequest(t, "send_message", map[string]any{"content": "Hi"})

	result, err := s.handleSendMessage(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsError {
		t.Fatalf("expected success, got error: %s", toolResultText(result))
	}
	if text := toolResultText(result); text != "Hello!" {
		t.Fatalf("reply = %q, want %q", text, "Hello!")
	}
	if n := s.conv.Transcript().Len(); n != 2 {
		t.Fatalf("transcript has %d turns, want 2", n)
	}
}

func TestHandleSendMessage_MissingContent(t *testing.T) {
	s := newTestServer(t, "ok")
	req := makeToolRequest(t, "send_message", map[string]any{})

	result, err := s.handleSendMessage(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected error for missing content")
	}
	if n := s.conv.Transcript().Len(); n != 0 {
		t.Fatalf("transcript has %d turns, want 0", n)
	}
}

func TestHandleSendMessage_ServiceError(t *testing.T) {
	s := newTestServer(t, "err:upstream")
	req := makeToolRequest(t, "send_message", map[string]any{"content": "Hi"})

	result, err := s.handleSendMessage(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsError {
		t.Fatal("expected tool error")
	}
	if text := toolResultText(result); !strings.Contains(text, "completion service") {
		t.Fatalf("expected service error, got: %s", text)
	}
}

func TestHandleResourceTranscript(t *testing.T) {
	s := newTestServer(t, "msg:Hello!")
	if _, err := s.handleSendMessage(context.Background(), makeToolRequest(t, "send_message", map[string]any{"content": "Hi"})); err != nil {
		t.Fatal(err)
	}

	req := mcp.ReadResourceRequest{}
	req.Params.URI = "palaver://transcript"

	contents, err := s.handleResourceTranscript(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(contents))
	}
	tc, ok := contents[0].(mcp.TextResourceContents)
	if !ok {
		t.Fatalf("unexpected content type %T", contents[0])
	}

	var out transcriptJSON
	if err := json.Unmarshal([]byte(tc.Text), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if out.Scheme != "tags" {
		t.Errorf("scheme = %q, want tags", out.Scheme)
	}
	if len(out.Turns) != 2 {
		t.Fatalf("expected 2 turns, got %d", len(out.Turns))
	}
	if out.Turns[0] != (turnJSON{Party: "User", Content: "Hi"}) {
		t.Errorf("turn 0 = %+v", out.Turns[0])
	}
	if out.Turns[1] != (turnJSON{Party: "Bot", Content: "Hello!"}) {
		t.Errorf("turn 1 = %+v", out.Turns[1])
	}
	if out.Usage.RequestCount != 1 {
		t.Errorf("request count = %d, want 1", out.Usage.RequestCount)
	}
}

func TestHandleResourceTranscript_Empty(t *testing.T) {
	s := newTestServer(t, "ok")
	req := mcp.ReadResourceRequest{}
	req.Params.URI = "palaver://transcript"

	contents, err := s.handleResourceTranscript(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if !strings.Contains(tc.Text, `"turns": []`) {
		t.Fatalf("expected empty turns array, got: %s", tc.Text)
	}
}

func TestHandleResourcePrompt(t *testing.T) {
	s := newTestServer(t, "ok")
	req := mcp.ReadResourceRequest{}
	req.Params.URI = "palaver://prompt"

	contents, err := s.handleResourcePrompt(context.Background(), req)
	if err != nil {
		t.Fatal(err)
	}
	tc := contents[0].(mcp.TextResourceContents)
	if tc.Text != s.conv.Transcript().Render() {
		t.Fatalf("prompt resource differs from render")
	}
	if tc.MIMEType != "text/plain" {
		t.Errorf("MIME type = %q", tc.MIMEType)
	}
}

func TestTruncate(t *testing.T) {
	short := "hello"
	if truncate(short) != short {
		t.Fatal("short string was modified")
	}
	long := strings.Repeat("x", maxOutputBytes+10)
	got := truncate(long)
	if !strings.HasSuffix(got, "[truncated: output exceeded 1MB limit]") {
		t.Fatal("long string not truncated")
	}
}

func makeToolRequest(t *testing.T, name string, args map[string]any) mcp.CallToolRequest {
	t.Helper()
	argsJSON, err := json.Marshal(args)
	if err != nil {
		t.Fatalf("marshaling args: %v", err)
	}
	var raw any
	if err := json.Unmarshal(argsJSON, &raw); err != nil {
		t.Fatalf("unmarshaling args: %v", err)
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: raw,
		},
	}
}

func toolResultText(result *mcp.CallToolResult) string {
	for _, c := range result.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}
