// Package term provides functionality for working with terminals: decoding
// key events from escape sequences, drawing the edited line and switching the
// terminal in and out of raw mode.
package term

import (
	"errors"
	"fmt"
	"os"
)

// Reader reads events from the terminal.
type Reader interface {
	// ReadEvent reads a single event from the terminal.
	ReadEvent() (Event, error)
	// Close releases resources associated with the Reader. Any outstanding
	// ReadEvent call will be aborted, returning ErrStopped.
	Close()
}

// ErrStopped is returned by Reader when Close is called during a ReadEvent
// call.
var ErrStopped = errors.New("stopped")

var errTimeout = errors.New("timed out")

type seqError struct {
	msg string
	seq string
}

func (err seqError) Error() string {
	return fmt.Sprintf("%s: %q", err.msg, err.seq)
}

// NewReader creates a new Reader on the given terminal file.
func NewReader(f *os.File) (Reader, error) {
	fr, err := newFileReader(f)
	if err != nil {
		return nil, err
	}
	return &reader{fr}, nil
}

// IsReadErrorRecoverable returns whether an error returned by Reader is
// recoverable. Recoverable errors are caused by malformed or unknown input and
// the next ReadEvent call may succeed.
func IsReadErrorRecoverable(err error) bool {
	var seqErr seqError
	return errors.As(err, &seqErr) || err == errTimeout
}
