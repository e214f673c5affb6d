package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Writer represents the output to a terminal.
type Writer interface {
	// Render redraws the current line with the prompt followed by content,
	// and places the cursor before the byte at index dot of content.
	Render(content string, dot int) error
	// Newline moves the cursor to the beginning of the next line.
	Newline() error
}

type writer struct {
	file   io.Writer
	prompt string
}

// NewWriter returns a Writer that writes VT100 sequences to the given
// io.Writer. The prompt is drawn in front of every rendered line.
func NewWriter(f io.Writer, prompt string) Writer {
	return &writer{f, prompt}
}

const (
	hideCursor = "\033[?25l"
	showCursor = "\033[?25h"
	eraseLine  = "\033[K"
)

func (w *writer) Render(content string, dot int) error {
	// Store all the output write in a buffer, so that we only write to the
	// terminal once.
	var sb strings.Builder
	// Hide cursor at the beginning to minimize flickering.
	sb.WriteString(hideCursor)
	sb.WriteString("\r")
	sb.WriteString(w.prompt)
	sb.WriteString(content)
	sb.WriteString(eraseLine)
	sb.WriteString("\r")
	if col := Width(w.prompt) + Width(content[:dot]); col > 0 {
		fmt.Fprintf(&sb, "\033[%dC", col)
	}
	sb.WriteString(showCursor)
	_, err := io.WriteString(w.file, sb.String())
	return err
}

func (w *writer) Newline() error {
	_, err := io.WriteString(w.file, "\r\n")
	return err
}

// Width returns the number of terminal columns s takes up.
func Width(s string) int {
	return runewidth.StringWidth(s)
}
