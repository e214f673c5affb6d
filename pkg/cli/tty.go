package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/usemam/ledger/pkg/cli/term"
)

// TTY is the type the terminal dependency of a Session needs to satisfy.
type TTY interface {
	// ReadEvent blocks until an event is available from the terminal.
	ReadEvent() (term.Event, error)
	// Render draws the line being edited with the caret at byte index dot.
	Render(content string, dot int) error
	// Newline moves the cursor to the next line after a line is committed.
	Newline() error
}

// Terminal is a TTY backed by terminal files.
type Terminal struct {
	in *os.File
	term.Writer
	r term.Reader
}

var errNotSetup = errors.New("terminal not set up")

// NewTTY returns a new Terminal that reads input from in and draws the prompt
// and the edited line to out. Setup must be called before reading events.
func NewTTY(in, out *os.File, prompt string) *Terminal {
	return &Terminal{in: in, Writer: term.NewWriter(out, prompt)}
}

// Setup puts the input terminal into raw mode and starts reading from it. It
// returns a function that undoes the setup.
func (t *Terminal) Setup() (func() error, error) {
	restore, err := term.Setup(t.in)
	if err != nil {
		return nil, fmt.Errorf("set up terminal: %w", err)
	}
	r, err := term.NewReader(t.in)
	if err != nil {
		var errs error = fmt.Errorf("create reader: %w", err)
		if err := restore(); err != nil {
			errs = multierror.Append(errs, fmt.Errorf("restore terminal: %w", err))
		}
		return nil, errs
	}
	t.r = r
	return func() error {
		t.r.Close()
		t.r = nil
		if err := restore(); err != nil {
			return fmt.Errorf("restore terminal: %w", err)
		}
		return nil
	}, nil
}

// ReadEvent reads an event from the input terminal.
func (t *Terminal) ReadEvent() (term.Event, error) {
	if t.r == nil {
		return nil, errNotSetup
	}
	return t.r.ReadEvent()
}
