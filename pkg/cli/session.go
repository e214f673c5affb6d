// Package cli implements an interactive single-line editor with history recall
// and word completion.
package cli

import (
	"errors"
	"io"

	"github.com/usemam/ledger/pkg/cli/complete"
	"github.com/usemam/ledger/pkg/cli/histutil"
	"github.com/usemam/ledger/pkg/cli/term"
	"github.com/usemam/ledger/pkg/cli/tk"
	"github.com/usemam/ledger/pkg/logutil"
	"github.com/usemam/ledger/pkg/ui"
)

var logger = logutil.GetLogger("[cli] ")

// ErrInterrupted is returned by ReadLine when the user interrupts editing.
var ErrInterrupted = errors.New("interrupted")

// SessionSpec specifies the configuration of a Session.
type SessionSpec struct {
	TTY TTY
	// History shared with other sessions. If nil, a new in-memory history of
	// the default size is used.
	History    *histutil.History
	Vocabulary complete.Vocabulary
	// If nil, DefaultBindings() is used.
	Bindings Bindings
	// Bound on the history applied when this session commits a line. If not
	// positive, the bound of History is used.
	MaxHistorySize int
}

// Session reads lines from a TTY. Lines read are recorded in the history.
//
// A Session is not safe for concurrent use, and sessions sharing a history
// must not call ReadLine concurrently.
type Session struct {
	tty       TTY
	history   *histutil.History
	bindings  Bindings
	completer *complete.Completer
	cursor    *histutil.Cursor
	buf       tk.CodeBuffer

	maxHistorySize int
}

// NewSession creates a new Session from the given specification.
func NewSession(spec SessionSpec) *Session {
	if spec.History == nil {
		spec.History = histutil.NewHistory(histutil.DefaultMaxSize)
	}
	if spec.Bindings == nil {
		spec.Bindings = DefaultBindings()
	}
	if spec.MaxHistorySize <= 0 {
		spec.MaxHistorySize = spec.History.MaxSize()
	}
	return &Session{
		tty:            spec.TTY,
		history:        spec.History,
		bindings:       spec.Bindings,
		completer:      complete.New(spec.Vocabulary),
		cursor:         spec.History.Cursor(),
		maxHistorySize: spec.MaxHistorySize,
	}
}

// Create creates a Session with the default bindings. Lines committed by the
// session are recorded in history, which keeps at most maxHistorySize entries
// (100 if not given) after each commit. If history is nil, a new in-memory
// history is created.
func Create(tty TTY, history *histutil.History, vocab complete.Vocabulary, maxHistorySize ...int) *Session {
	size := histutil.DefaultMaxSize
	if len(maxHistorySize) > 0 && maxHistorySize[0] > 0 {
		size = maxHistorySize[0]
	}
	if history == nil {
		history = histutil.NewHistory(size)
	}
	return NewSession(SessionSpec{
		TTY: tty, History: history, Vocabulary: vocab, MaxHistorySize: size})
}

// History returns the history the session records lines in.
func (s *Session) History() *histutil.History { return s.history }

// Buffer returns the current content of the line and the caret position.
func (s *Session) Buffer() tk.CodeBuffer { return s.buf }

// CompletionState returns the state of the word completer.
func (s *Session) CompletionState() complete.State { return s.completer.State() }

// ReadLine reads keys and edits a line until the line is committed, and
// returns it. The line is drawn after every key.
//
// It returns io.EOF when the input ends or the end-of-input key is pressed on
// an empty line; nothing is recorded in the history in this case. It returns
// ErrInterrupted when the interrupt key is pressed. Errors from the TTY are
// returned as is, except that errors caused by undecodable input are logged
// and skipped.
func (s *Session) ReadLine() (string, error) {
	s.buf = tk.CodeBuffer{}
	s.completer.Reset()
	s.cursor.Reset()
	if err := s.render(); err != nil {
		return "", err
	}
	for {
		event, err := s.tty.ReadEvent()
		if err != nil {
			if term.IsReadErrorRecoverable(err) {
				logger.Println("ignoring read error:", err)
				continue
			}
			return "", err
		}
		k, ok := event.(term.KeyEvent)
		if !ok {
			continue
		}
		key := ui.Key(k)
		switch action := s.bindings.Action(key); action {
		case ActionCommit:
			line := s.buf.Content
			s.history.AddBounded(line, s.maxHistorySize)
			s.cursor.Reset()
			s.completer.Reset()
			if err := s.render(); err != nil {
				return "", err
			}
			if err := s.tty.Newline(); err != nil {
				return "", err
			}
			return line, nil
		case ActionEOF:
			if s.buf.Content == "" {
				return "", io.EOF
			}
		case ActionInterrupt:
			s.buf.Reset("")
			s.completer.Reset()
			s.cursor.Reset()
			if err := s.render(); err != nil {
				return "", err
			}
			return "", ErrInterrupted
		default:
			s.apply(action, key)
		}
		if err := s.render(); err != nil {
			return "", err
		}
	}
}

// Applies an action that edits the line.
func (s *Session) apply(action Action, key ui.Key) {
	switch action {
	case actionInsert:
		s.completer.Reset()
		s.cursor.Reset()
		s.buf.InsertAtDot(string(key.Rune))
	case ActionBackspace:
		s.completer.Reset()
		s.buf.Backspace()
	case ActionDeleteWord:
		s.completer.Reset()
		s.buf.DeleteWordLeft()
	case ActionMoveLeft:
		s.completer.Reset()
		s.buf.MoveLeft()
	case ActionMoveRight:
		s.completer.Reset()
		s.buf.MoveRight()
	case ActionRecallPrevious:
		s.completer.Reset()
		if line, ok := s.cursor.Prev(); ok {
			s.buf.Reset(line)
		}
	case ActionRecallNext:
		s.completer.Reset()
		if line, ok := s.cursor.Next(); ok {
			s.buf.Reset(line)
		}
	case ActionComplete:
		s.completer.Trigger(&s.buf)
	case ActionIgnore:
	default:
		logger.Printf("unhandled action %v for key %v", action, key)
	}
}

func (s *Session) render() error {
	return s.tty.Render(s.buf.Content, s.buf.Dot)
}
