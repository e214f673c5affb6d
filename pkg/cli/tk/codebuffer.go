// Package tk contains the editing primitives of the line editor.
package tk

import (
	"unicode"
	"unicode/utf8"
)

// CodeBuffer represents the line being edited.
type CodeBuffer struct {
	// Content of the buffer.
	Content string
	// Position of the dot (more commonly known as the cursor), as a byte index
	// into Content. It always lies on a rune boundary.
	Dot int
}

// Caret returns the position of the dot as a rune offset into Content.
func (c *CodeBuffer) Caret() int {
	return utf8.RuneCountInString(c.Content[:c.Dot])
}

// InsertAtDot inserts text at the dot and moves the dot after it.
func (c *CodeBuffer) InsertAtDot(text string) {
	*c = CodeBuffer{
		Content: c.Content[:c.Dot] + text + c.Content[c.Dot:],
		Dot:     c.Dot + len(text),
	}
}

// Backspace removes the rune before the dot. It does nothing when the dot is
// at the beginning of the buffer.
func (c *CodeBuffer) Backspace() {
	if c.Dot == 0 {
		return
	}
	_, chop := utf8.DecodeLastRuneInString(c.Content[:c.Dot])
	*c = CodeBuffer{
		Content: c.Content[:c.Dot-chop] + c.Content[c.Dot:],
		Dot:     c.Dot - chop,
	}
}

// DeleteWordLeft removes the whitespace immediately before the dot, and then
// the run of non-whitespace before that.
func (c *CodeBuffer) DeleteWordLeft() {
	if c.Dot == 0 {
		return
	}
	from := wordStart(c.Content, c.Dot)
	*c = CodeBuffer{
		Content: c.Content[:from] + c.Content[c.Dot:],
		Dot:     from,
	}
}

func wordStart(s string, i int) int {
	i = skipLeft(s, i, unicode.IsSpace)
	return skipLeft(s, i, func(r rune) bool { return !unicode.IsSpace(r) })
}

// Moves i to the left as long as the rune before it satisfies f.
func skipLeft(s string, i int, f func(rune) bool) int {
	for i > 0 {
		r, size := utf8.DecodeLastRuneInString(s[:i])
		if !f(r) {
			break
		}
		i -= size
	}
	return i
}

// MoveLeft moves the dot one rune to the left, stopping at the beginning of
// the buffer.
func (c *CodeBuffer) MoveLeft() {
	if c.Dot > 0 {
		_, size := utf8.DecodeLastRuneInString(c.Content[:c.Dot])
		c.Dot -= size
	}
}

// MoveRight moves the dot one rune to the right, stopping at the end of the
// buffer.
func (c *CodeBuffer) MoveRight() {
	if c.Dot < len(c.Content) {
		_, size := utf8.DecodeRuneInString(c.Content[c.Dot:])
		c.Dot += size
	}
}

// Replace replaces Content[from:to] with text and puts the dot after the
// inserted text.
func (c *CodeBuffer) Replace(from, to int, text string) {
	*c = CodeBuffer{
		Content: c.Content[:from] + text + c.Content[to:],
		Dot:     from + len(text),
	}
}

// Reset replaces the whole content and puts the dot at the end.
func (c *CodeBuffer) Reset(content string) {
	*c = CodeBuffer{Content: content, Dot: len(content)}
}
