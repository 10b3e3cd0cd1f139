package transcript

import (
	"errors"
	"fmt"
	"strings"

	"github.com/nox-hq/palaver/core/framing"
)

// ErrMalformed is returned when rendered text cannot be split back into turns.
var ErrMalformed = errors.New("malformed transcript")

// Parse recovers the turns from text produced by Render with the same scheme.
// It is exact for content that does not itself contain the scheme's marker
// sequences; when a span's end is ambiguous, the earliest boundary that is
// followed by another turn (or the cue) is taken.
func Parse(scheme *framing.Scheme, rendered string) ([]Turn, error) {
	body, ok := strings.CutPrefix(rendered, scheme.Preamble())
	if !ok {
		return nil, fmt.Errorf("%w: missing preamble", ErrMalformed)
	}
	cue := scheme.Bot().Intro + scheme.Separator()
	body, ok = strings.CutSuffix(body, cue)
	if !ok {
		return nil, fmt.Errorf("%w: missing bot cue", ErrMalformed)
	}

	var turns []Turn
	for pos := 0; pos < len(body); {
		party, start, ok := openingAt(scheme, body, pos)
		if !ok {
			return nil, fmt.Errorf("%w: no intro marker at offset %d", ErrMalformed, pos)
		}
		end, next, ok := closingFrom(scheme, body, party, start)
		if !ok {
			return nil, fmt.Errorf("%w: unterminated %s turn at offset %d", ErrMalformed, party, pos)
		}
		turns = append(turns, Turn{party: party, content: body[start:end]})
		pos = next
	}
	return turns, nil
}

// openingAt reports which party's intro begins at pos and where its content
// starts.
func openingAt(s *framing.Scheme, body string, pos int) (Party, int, bool) {
	for _, p := range []Party{User, Bot} {
		open := markersFor(s, p).Intro + s.Separator()
		if strings.HasPrefix(body[pos:], open) {
			return p, pos + len(open), true
		}
	}
	return 0, 0, false
}

// closingFrom finds the end of the content that starts at start. It returns
// the content end and the offset of the following turn.
func closingFrom(s *framing.Scheme, body string, p Party, start int) (int, int, bool) {
	term := "\n\n"
	if outro := markersFor(s, p).Outro; outro != "" {
		term = "\n" + outro + "\n\n"
	}
	for i := start; i <= len(body)-len(term); i++ {
		if !strings.HasPrefix(body[i:], term) {
			continue
		}
		next := i + len(term)
		if next == len(body) {
			return i, next, true
		}
		if _, _, ok := openingAt(s, body, next); ok {
			return i, next, true
		}
	}
	return 0, 0, false
}
