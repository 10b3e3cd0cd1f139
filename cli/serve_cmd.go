package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/nox-hq/palaver/server"
)

// runServe implements the "palaver serve" command. Logs go to stderr because
// stdout carries the MCP protocol.
func runServe(args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	session := registerSessionFlags(fs)

	if err := fs.Parse(args); err != nil {
		return 2
	}

	logger := newLogger(os.Stderr, session.verbose)
	conv, err := newConversation(session, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}

	srv := server.New(version, conv)
	if err := srv.Serve(); err != nil {
		fmt.Fprintf(os.Stderr, "error: MCP server failed: %v\n", err)
		return 2
	}
	return 0
}
