// Package server exposes a palaver conversation as an MCP server, so an agent
// can talk to the framed completion model instead of a human at a console.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/nox-hq/palaver/core/conversation"
)

const (
	// maxOutputBytes is the maximum response size before truncation (1 MB).
	maxOutputBytes = 1 << 20
)

// Server is the palaver MCP server. It owns a single conversation; tool calls
// are serialized because the conversation is not safe for concurrent use.
type Server struct {
	version string

	mu   sync.Mutex
	conv *conversation.Orchestrator
}

// New creates a new MCP server around conv.
func New(version string, conv *conversation.Orchestrator) *Server {
	return &Server{
		version: version,
		conv:    conv,
	}
}

// Serve starts the MCP server on stdio and blocks until the client disconnects.
func (s *Server) Serve() error {
	srv := mcpserver.NewMCPServer(
		"palaver",
		s.version,
		mcpserver.WithRecovery(),
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithResourceCapabilities(false, false),
	)

	s.registerTools(srv)
	s.registerResources(srv)

	return mcpserver.ServeStdio(srv)
}

func (s *Server) registerTools(srv *mcpserver.MCPServer) {
	srv.AddTool(
		mcp.NewTool("send_message",
			mcp.WithDescription("Send a user message to the chatbot and return its reply"),
			mcp.WithString("content",
				mcp.Description("The user's message text"),
				mcp.Required(),
			),
		),
		s.handleSendMessage,
	)
}

func (s *Server) registerResources(srv *mcpserver.MCPServer) {
	srv.AddResource(
		mcp.NewResource("palaver://transcript", "Transcript",
			mcp.WithResourceDescription("Conversation turns and token usage as JSON"),
			mcp.WithMIMEType("application/json"),
		),
		s.handleResourceTranscript,
	)

	srv.AddResource(
		mcp.NewResource("palaver://prompt", "Rendered prompt",
			mcp.WithResourceDescription("The transcript rendered as a completion prompt"),
			mcp.WithMIMEType("text/plain"),
		),
		s.handleResourcePrompt,
	)
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required argument: content"), nil
	}

	s.mu.Lock()
	reply, err := s.conv.Advance(ctx, content)
	s.mu.Unlock()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	return mcp.NewToolResultText(reply), nil
}

type turnJSON struct {
	Party   string `json:"party"`
	Content string `json:"content"`
}

type transcriptJSON struct {
	Scheme string             `json:"scheme"`
	Turns  []turnJSON         `json:"turns"`
	Usage  conversation.Usage `json:"usage"`
}

// Resource handlers.

func (s *Server) handleResourceTranscript(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.Lock()
	tr := s.conv.Transcript()
	out := transcriptJSON{
		Scheme: tr.Scheme().Name(),
		Turns:  []turnJSON{},
		Usage:  s.conv.Usage(),
	}
	for _, turn := range tr.Turns() {
		out.Turns = append(out.Turns, turnJSON{Party: turn.Party().String(), Content: turn.Content()})
	}
	s.mu.Unlock()

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("generating transcript JSON: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "application/json",
			Text:     truncate(string(data)),
		},
	}, nil
}

func (s *Server) handleResourcePrompt(_ context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	s.mu.Lock()
	prompt := s.conv.Transcript().Render()
	s.mu.Unlock()

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      request.Params.URI,
			MIMEType: "text/plain",
			Text:     truncate(prompt),
		},
	}, nil
}

// truncate limits output to maxOutputBytes, appending a truncation notice if needed.
func truncate(s string) string {
	if len(s) <= maxOutputBytes {
		return s
	}
	return s[:maxOutputBytes] + "\n... [truncated: output exceeded 1MB limit]"
}
