// Package complete implements cycling prefix completion of the word before the
// cursor.
package complete

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/usemam/ledger/pkg/cli/tk"
)

// Vocabulary is the ordered list of words offered as completions.
type Vocabulary []string

// State is the state of a Completer. The zero value is the idle state.
type State struct {
	// Words of the vocabulary that start with the completed prefix, in
	// vocabulary order. Empty when idle.
	Matches []string
	// Index into Matches of the word the next Trigger inserts.
	Index int
	// Byte index into the buffer where the completed word starts.
	Start int
}

// Active returns whether a completion cycle is in progress.
func (s State) Active() bool { return len(s.Matches) > 0 }

// Completer completes the word before the dot of a buffer against a
// vocabulary. Calling Trigger repeatedly cycles through all the matches; the
// cycle ends when Reset is called.
type Completer struct {
	vocab Vocabulary
	state State
}

// New creates a new idle Completer.
func New(vocab Vocabulary) *Completer {
	return &Completer{vocab: vocab}
}

// State returns a copy of the current state.
func (c *Completer) State() State {
	s := c.state
	s.Matches = append([]string(nil), s.Matches...)
	return s
}

// Reset ends the current completion cycle, if any.
func (c *Completer) Reset() {
	c.state = State{}
}

// Trigger completes the word before the dot of buf.
//
// When idle, it finds the word before the dot and the vocabulary words that
// start with it, ignoring case. If there is no such word or no match, it does
// nothing and returns false. Otherwise a cycle starts with the first match.
//
// During a cycle, it replaces the text between the start of the word and the
// dot with the current match and advances to the next one, wrapping around
// after the last.
func (c *Completer) Trigger(buf *tk.CodeBuffer) bool {
	if !c.state.Active() {
		start := wordStart(buf.Content, buf.Dot)
		if start == buf.Dot {
			return false
		}
		matches := Matches(c.vocab, buf.Content[start:buf.Dot])
		if len(matches) == 0 {
			return false
		}
		c.state = State{Matches: matches, Index: 0, Start: start}
	}
	s := &c.state
	buf.Replace(s.Start, buf.Dot, s.Matches[s.Index])
	s.Index = (s.Index + 1) % len(s.Matches)
	return true
}

// Matches returns the words in vocab that start with prefix, ignoring case.
func Matches(vocab Vocabulary, prefix string) []string {
	var matches []string
	for _, word := range vocab {
		if hasPrefixFold(word, prefix) {
			matches = append(matches, word)
		}
	}
	return matches
}

func hasPrefixFold(s, prefix string) bool {
	n := utf8.RuneCountInString(prefix)
	i := 0
	for j := 0; j < n; j++ {
		if i >= len(s) {
			return false
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	return strings.EqualFold(s[:i], prefix)
}

// IsBoundary returns whether r separates words for the purpose of completion.
func IsBoundary(r rune) bool {
	return unicode.IsSpace(r) || r == '"'
}

func wordStart(s string, i int) int {
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if IsBoundary(r) {
			break
		}
		i -= size
	}
	return i
}
