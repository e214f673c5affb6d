// Package clitest provides utilities for testing cli.Session and its users.
package clitest

import (
	"io"

	"github.com/usemam/ledger/pkg/cli"
	"github.com/usemam/ledger/pkg/cli/term"
	"github.com/usemam/ledger/pkg/cli/tk"
	"github.com/usemam/ledger/pkg/ui"
)

// FakeTTY is an implementation of cli.TTY that replays a fixed sequence of
// events and records what is drawn. Once the events are exhausted, ReadEvent
// returns io.EOF.
type FakeTTY struct {
	inputs []input
	// Every call to Render, in order.
	Renders []tk.CodeBuffer
	// Number of calls to Newline.
	Newlines int
	// If set, returned by Render and Newline.
	WriteErr error
}

type input struct {
	event term.Event
	err   error
}

var _ cli.TTY = (*FakeTTY)(nil)

// NewFakeTTY creates a FakeTTY that produces the given events.
func NewFakeTTY(events ...term.Event) *FakeTTY {
	t := &FakeTTY{}
	t.Inject(events...)
	return t
}

// Inject adds events to be produced after the ones already queued.
func (t *FakeTTY) Inject(events ...term.Event) {
	for _, event := range events {
		t.inputs = append(t.inputs, input{event: event})
	}
}

// InjectKeys adds one key event for each rune of s.
func (t *FakeTTY) InjectKeys(s string) {
	for _, r := range s {
		t.Inject(term.K(r))
	}
}

// InjectError adds an error to be returned by ReadEvent.
func (t *FakeTTY) InjectError(err error) {
	t.inputs = append(t.inputs, input{err: err})
}

// Pending returns the number of inputs not read yet.
func (t *FakeTTY) Pending() int { return len(t.inputs) }

func (t *FakeTTY) ReadEvent() (term.Event, error) {
	if len(t.inputs) == 0 {
		return nil, io.EOF
	}
	in := t.inputs[0]
	t.inputs = t.inputs[1:]
	return in.event, in.err
}

func (t *FakeTTY) Render(content string, dot int) error {
	t.Renders = append(t.Renders, tk.CodeBuffer{Content: content, Dot: dot})
	return t.WriteErr
}

func (t *FakeTTY) Newline() error {
	t.Newlines++
	return t.WriteErr
}

// LastRender returns the last rendered buffer, or the zero value if nothing has
// been rendered.
func (t *FakeTTY) LastRender() tk.CodeBuffer {
	if len(t.Renders) == 0 {
		return tk.CodeBuffer{}
	}
	return t.Renders[len(t.Renders)-1]
}

// Keys is a shorthand for building key events.
func Keys(keys ...ui.Key) []term.Event {
	events := make([]term.Event, len(keys))
	for i, k := range keys {
		events[i] = term.KeyEvent(k)
	}
	return events
}
