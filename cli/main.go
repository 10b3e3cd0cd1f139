// Package main is the entry point for the palaver CLI.
package main

import (
	"flag"
	"fmt"
	"os"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run executes the CLI and returns the exit code.
// 0 = success, 2 = usage or runtime error.
func run(args []string) int {
	fs := flag.NewFlagSet("palaver", flag.ContinueOnError)

	var versionFlag bool
	fs.BoolVar(&versionFlag, "version", false, "print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: palaver <command> [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Commands:\n")
		fmt.Fprintf(os.Stderr, "  chat           Chat with a completion model from the terminal\n")
		fmt.Fprintf(os.Stderr, "  serve          Start MCP server on stdio\n")
		fmt.Fprintf(os.Stderr, "  schemes [name] List framing schemes or preview one\n")
		fmt.Fprintf(os.Stderr, "  version        Print version and exit\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if versionFlag {
		printVersion()
		return 0
	}

	remaining := fs.Args()
	if len(remaining) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: palaver <command> [flags]")
		return 2
	}

	command := remaining[0]
	switch command {
	case "chat":
		return runChat(remaining[1:])
	case "serve":
		return runServe(remaining[1:])
	case "schemes":
		return runSchemes(remaining[1:])
	case "version":
		printVersion()
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		fmt.Fprintln(os.Stderr, "Usage: palaver <command> [flags]")
		return 2
	}
}

func printVersion() {
	fmt.Printf("palaver %s (commit: %s, built: %s)\n", version, commit, date)
}
