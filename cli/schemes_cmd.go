package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nox-hq/palaver/core/framing"
	"github.com/nox-hq/palaver/core/transcript"
)

// runSchemes implements "palaver schemes": with no argument it lists the
// presets, with a name (or --file) it prints that scheme's markers, stop set
// and the prompt an empty conversation renders to.
func runSchemes(args []string) int {
	fs := flag.NewFlagSet("schemes", flag.ContinueOnError)

	var file string
	fs.StringVar(&file, "file", "", "preview a scheme YAML instead of a preset")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if file == "" && fs.NArg() == 0 {
		for _, name := range framing.PresetNames() {
			marker := " "
			if name == framing.DefaultPreset {
				marker = "*"
			}
			fmt.Printf("%s %s\n", marker, name)
		}
		return 0
	}

	scheme, err := framing.Resolve(fs.Arg(0), file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 2
	}
	describeScheme(os.Stdout, scheme)
	return 0
}

func describeScheme(w io.Writer, s *framing.Scheme) {
	fmt.Fprintf(w, "scheme:    %s\n", s.Name())
	fmt.Fprintf(w, "user:      %q %q\n", s.User().Intro, s.User().Outro)
	fmt.Fprintf(w, "bot:       %q %q\n", s.Bot().Intro, s.Bot().Outro)
	fmt.Fprintf(w, "separator: %q\n", s.Separator())
	quoted := make([]string, 0, len(s.Stop()))
	for _, stop := range s.Stop() {
		quoted = append(quoted, fmt.Sprintf("%q", stop))
	}
	fmt.Fprintf(w, "stop:      %s\n", strings.Join(quoted, ", "))
	fmt.Fprintln(w, rule)
	fmt.Fprint(w, transcript.New(s).Render())
	fmt.Fprintln(w)
	fmt.Fprintln(w, rule)
}
