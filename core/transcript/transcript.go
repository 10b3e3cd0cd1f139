// Package transcript holds the ordered history of a two-party conversation
// and renders it into the prompt a completion model continues.
package transcript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nox-hq/palaver/core/framing"
)

// ErrUnknownParty is returned for a party outside {User, Bot}.
var ErrUnknownParty = errors.New("unknown party")

// Party identifies who authored a turn.
type Party int

const (
	User Party = iota
	Bot
)

// String returns the party's display name.
func (p Party) String() string {
	switch p {
	case User:
		return "User"
	case Bot:
		return "Bot"
	}
	return fmt.Sprintf("Party(%d)", int(p))
}

func (p Party) valid() bool {
	return p == User || p == Bot
}

// ParseParty maps a party name, compared case-insensitively, to a Party.
func ParseParty(name string) (Party, error) {
	switch strings.ToLower(name) {
	case "user":
		return User, nil
	case "bot":
		return Bot, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownParty, name)
}

// MarshalText implements encoding.TextMarshaler.
func (p Party) MarshalText() ([]byte, error) {
	if !p.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownParty, int(p))
	}
	return []byte(p.String()), nil
}

// Turn is one message attributed to a single party. It cannot be modified
// after creation.
type Turn struct {
	party   Party
	content string
}

// Party returns the turn's author.
func (t Turn) Party() Party { return t.party }

// Content returns the turn's text.
func (t Turn) Content() string { return t.content }

// Transcript is an append-only conversation history bound to one framing
// scheme. It is not safe for concurrent use.
type Transcript struct {
	scheme *framing.Scheme
	turns  []Turn
}

// New creates an empty transcript that renders with scheme.
func New(scheme *framing.Scheme) *Transcript {
	return &Transcript{scheme: scheme}
}

// Scheme returns the framing scheme the transcript renders with.
func (t *Transcript) Scheme() *framing.Scheme { return t.scheme }

// Append records a new turn. Content is stored as given, including empty or
// multi-line text.
func (t *Transcript) Append(party Party, content string) (Turn, error) {
	if !party.valid() {
		return Turn{}, fmt.Errorf("%w: %s", ErrUnknownParty, party)
	}
	turn := Turn{party: party, content: content}
	t.turns = append(t.turns, turn)
	return turn, nil
}

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.turns) }

// Turns returns a copy of the history in insertion order.
func (t *Transcript) Turns() []Turn {
	return append([]Turn(nil), t.turns...)
}

// Render produces the prompt: the scheme's preamble, every turn in order
// followed by a blank line, and finally the bot's intro marker and separator
// so the model continues as the bot.
func (t *Transcript) Render() string {
	var b strings.Builder
	b.WriteString(t.scheme.Preamble())
	for _, turn := range t.turns {
		writeTurn(&b, t.scheme, turn)
		b.WriteString("\n\n")
	}
	writeCue(&b, t.scheme)
	return b.String()
}

func markersFor(s *framing.Scheme, p Party) framing.Markers {
	switch p {
	case User:
		return s.User()
	case Bot:
		return s.Bot()
	}
	panic("transcript: " + p.String())
}

func writeTurn(b *strings.Builder, s *framing.Scheme, turn Turn) {
	m := markersFor(s, turn.party)
	b.WriteString(m.Intro)
	b.WriteString(s.Separator())
	b.WriteString(turn.content)
	if m.Outro != "" {
		b.WriteString("\n")
		b.WriteString(m.Outro)
	}
}

func writeCue(b *strings.Builder, s *framing.Scheme) {
	b.WriteString(s.Bot().Intro)
	b.WriteString(s.Separator())
}
