// Package histutil provides utilities for working with command history.
package histutil

import (
	"strings"

	"github.com/usemam/ledger/pkg/logutil"
)

var logger = logutil.GetLogger("[histutil] ")

// DefaultMaxSize is the size bound used when a non-positive one is given.
const DefaultMaxSize = 100

// History is an ordered log of committed lines, oldest first. It holds at most
// a fixed number of entries and never holds two adjacent entries that differ
// only in case.
//
// A History is meant to be shared by all the sessions of a process. It is not
// safe for concurrent use; sessions must not overlap.
type History struct {
	entries []string
	maxSize int
	db      DB
}

// NewHistory returns an in-memory History bounded by maxSize, populated by
// calling Add with each of the given entries.
func NewHistory(maxSize int, entries ...string) *History {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	h := &History{maxSize: maxSize}
	for _, entry := range entries {
		h.Add(entry)
	}
	return h
}

// NewDBHistory returns a History bounded by maxSize that is populated with
// the newest commands in db and writes every appended line back to db.
func NewDBHistory(db DB, maxSize int) (*History, error) {
	h := NewHistory(maxSize)
	upper, err := db.NextCmdSeq()
	if err != nil {
		return nil, err
	}
	from := upper - h.maxSize
	if from < 0 {
		from = 0
	}
	cmds, err := db.CmdsWithSeq(from, upper)
	if err != nil {
		return nil, err
	}
	for _, cmd := range cmds {
		h.add(cmd.Text)
	}
	h.db = db
	return h, nil
}

// Add records a committed line. Blank lines and lines equal to the newest
// entry under case-insensitive comparison are not recorded. When the size
// bound is exceeded, the oldest entry is dropped. It returns whether the line
// was appended.
func (h *History) Add(line string) bool {
	return h.AddBounded(line, h.maxSize)
}

// AddBounded is like Add, but after appending it also drops the oldest
// entries until at most maxSize remain. It is used by sessions that share a
// History but have a smaller bound of their own. A non-positive maxSize
// means the bound of the History.
func (h *History) AddBounded(line string, maxSize int) bool {
	if !h.add(line) {
		return false
	}
	if maxSize > 0 && len(h.entries) > maxSize {
		h.entries = append(h.entries[:0], h.entries[len(h.entries)-maxSize:]...)
	}
	if h.db != nil {
		if _, err := h.db.AddCmd(line); err != nil {
			logger.Printf("failed to persist %q: %v", line, err)
		}
	}
	return true
}

func (h *History) add(line string) bool {
	if strings.TrimSpace(line) == "" {
		return false
	}
	if n := len(h.entries); n > 0 && strings.EqualFold(h.entries[n-1], line) {
		return false
	}
	if len(h.entries) < h.maxSize {
		h.entries = append(h.entries, line)
	} else {
		copy(h.entries, h.entries[1:])
		h.entries[len(h.entries)-1] = line
	}
	return true
}

// Len returns the number of entries.
func (h *History) Len() int { return len(h.entries) }

// MaxSize returns the size bound.
func (h *History) MaxSize() int { return h.maxSize }

// Entries returns a copy of all entries, oldest first.
func (h *History) Entries() []string {
	return append([]string(nil), h.entries...)
}

// Cursor returns a new Cursor in the fresh-line state.
func (h *History) Cursor() *Cursor {
	return &Cursor{h, len(h.entries)}
}

// Cursor walks a History. Its index lies in [0, Len()], where Len() means
// that no entry is selected.
type Cursor struct {
	h     *History
	index int
}

// Index returns the index of the selected entry, or the length of the history
// if no entry is selected.
func (c *Cursor) Index() int {
	c.clamp()
	return c.index
}

// Reset deselects the current entry.
func (c *Cursor) Reset() {
	c.index = len(c.h.entries)
}

// Prev selects the entry before the current one and returns it. It returns
// false and does nothing when the history is empty or the oldest entry is
// already selected.
func (c *Cursor) Prev() (string, bool) {
	c.clamp()
	if c.index <= 0 {
		return "", false
	}
	c.index--
	return c.h.entries[c.index], true
}

// Next selects the entry after the current one and returns it. Stepping past
// the newest entry deselects it and returns an empty string. It returns false
// and does nothing when no entry is selected.
func (c *Cursor) Next() (string, bool) {
	c.clamp()
	if c.index >= len(c.h.entries) {
		return "", false
	}
	c.index++
	if c.index < len(c.h.entries) {
		return c.h.entries[c.index], true
	}
	return "", true
}

func (c *Cursor) clamp() {
	if c.index > len(c.h.entries) {
		c.index = len(c.h.entries)
	}
}
