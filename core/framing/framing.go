// Package framing defines how a two-party conversation is serialized into a
// single prompt for a text-completion model: the marker strings that open and
// close each party's span, the preamble that explains those markers to the
// model, and the stop conditions used to cut generated output.
package framing

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"text/template"
)

// ErrInvalidScheme is returned when a scheme definition cannot produce an
// unambiguous framing.
var ErrInvalidScheme = errors.New("invalid framing scheme")

// maxStops is the most stop sequences the completions API accepts.
const maxStops = 4

// DefaultSeparator is written between a turn's intro marker and its content
// when a definition leaves Separator empty.
const DefaultSeparator = "\n"

// Markers are the strings that open and, optionally, close one party's span.
type Markers struct {
	Intro string `yaml:"intro"`
	Outro string `yaml:"outro"`
}

// Definition is the raw, unvalidated form of a scheme. It is what presets and
// scheme files describe; New turns it into a Scheme.
type Definition struct {
	Name      string   `yaml:"name"`
	Separator string   `yaml:"separator"`
	User      Markers  `yaml:"user"`
	Bot       Markers  `yaml:"bot"`
	Stop      []string `yaml:"stop"`
	Preamble  string   `yaml:"preamble"`
}

// Scheme is a validated, immutable framing configuration. It is fixed for the
// lifetime of a conversation.
type Scheme struct {
	name      string
	separator string
	user      Markers
	bot       Markers
	stop      []string
	preamble  string
}

// New validates def and compiles its preamble template. The template is
// executed once here with the definition as data, so the preamble can quote
// the literal marker values, e.g. {{.User.Intro}}.
func New(def Definition) (*Scheme, error) {
	if def.Separator == "" {
		def.Separator = DefaultSeparator
	}
	if err := validate(def); err != nil {
		return nil, err
	}

	tmpl, err := template.New(def.Name).Option("missingkey=error").Parse(def.Preamble)
	if err != nil {
		return nil, fmt.Errorf("%w: parsing preamble: %v", ErrInvalidScheme, err)
	}
	var b bytes.Buffer
	if err := tmpl.Execute(&b, def); err != nil {
		return nil, fmt.Errorf("%w: executing preamble: %v", ErrInvalidScheme, err)
	}

	return &Scheme{
		name:      def.Name,
		separator: def.Separator,
		user:      def.User,
		bot:       def.Bot,
		stop:      append([]string(nil), def.Stop...),
		preamble:  b.String(),
	}, nil
}

// MustNew is like New but panics on error. It is meant for presets.
func MustNew(def Definition) *Scheme {
	s, err := New(def)
	if err != nil {
		panic(err)
	}
	return s
}

func validate(def Definition) error {
	if def.User.Intro == "" || def.Bot.Intro == "" {
		return fmt.Errorf("%w: both parties need an intro marker", ErrInvalidScheme)
	}
	if (def.User.Outro == "") != (def.Bot.Outro == "") {
		return fmt.Errorf("%w: outro markers must be set for both parties or neither", ErrInvalidScheme)
	}

	user := []string{def.User.Intro, def.User.Outro}
	bot := []string{def.Bot.Intro, def.Bot.Outro}
	for _, u := range user {
		for _, b := range bot {
			if u == "" || b == "" {
				continue
			}
			if strings.HasPrefix(u, b) || strings.HasPrefix(b, u) {
				return fmt.Errorf("%w: markers %q and %q are prefix-compatible", ErrInvalidScheme, u, b)
			}
		}
	}

	if len(def.Stop) == 0 {
		return fmt.Errorf("%w: at least one stop sequence is required", ErrInvalidScheme)
	}
	if len(def.Stop) > maxStops {
		return fmt.Errorf("%w: at most %d stop sequences are allowed, got %d", ErrInvalidScheme, maxStops, len(def.Stop))
	}
	for _, s := range def.Stop {
		if s == "" {
			return fmt.Errorf("%w: empty stop sequence", ErrInvalidScheme)
		}
	}
	return nil
}

// Name returns the scheme's name.
func (s *Scheme) Name() string { return s.name }

// Separator returns the string written between an intro marker and content.
func (s *Scheme) Separator() string { return s.separator }

// User returns the user's markers.
func (s *Scheme) User() Markers { return s.user }

// Bot returns the bot's markers.
func (s *Scheme) Bot() Markers { return s.bot }

// Preamble returns the rendered instructions that precede the transcript.
func (s *Scheme) Preamble() string { return s.preamble }

// Stop returns a copy of the stop-condition set.
func (s *Scheme) Stop() []string {
	return append([]string(nil), s.stop...)
}

// Truncate returns raw cut at the earliest occurrence of any stop sequence,
// with surrounding whitespace removed. Output that was already truncated by
// the service passes through unchanged apart from the trim.
func (s *Scheme) Truncate(raw string) string {
	cut := len(raw)
	for _, stop := range s.stop {
		if i := strings.Index(raw, stop); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(raw[:cut])
}
