package cli

import (
	"fmt"
	"sort"

	"github.com/hashicorp/go-multierror"

	"github.com/usemam/ledger/pkg/ui"
)

// Action is what a Session does in response to a key.
type Action int

// Possible values for Action.
const (
	// Do nothing.
	ActionIgnore Action = iota
	// Finish the session, returning the current line.
	ActionCommit
	// Delete the character before the caret.
	ActionBackspace
	// Delete the word before the caret.
	ActionDeleteWord
	ActionMoveLeft
	ActionMoveRight
	// Load the previous history entry.
	ActionRecallPrevious
	// Load the next history entry, or clear the line after the newest one.
	ActionRecallNext
	// Complete the word before the caret, or cycle to the next completion.
	ActionComplete
	// Finish the session with io.EOF if the line is empty.
	ActionEOF
	// Clear the line and finish the session with ErrInterrupted.
	ActionInterrupt
)

var actionNames = [...]string{
	ActionIgnore:         "ignore",
	ActionCommit:         "commit",
	ActionBackspace:      "backspace",
	ActionDeleteWord:     "delete-word",
	ActionMoveLeft:       "left",
	ActionMoveRight:      "right",
	ActionRecallPrevious: "history-prev",
	ActionRecallNext:     "history-next",
	ActionComplete:       "complete",
	ActionEOF:            "eof",
	ActionInterrupt:      "interrupt",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return fmt.Sprintf("(bad action %d)", int(a))
	}
	return actionNames[a]
}

// ParseAction returns the Action with the given name.
func ParseAction(name string) (Action, error) {
	for i, actionName := range actionNames {
		if name == actionName {
			return Action(i), nil
		}
	}
	return ActionIgnore, fmt.Errorf("bad action: %q", name)
}

// Bindings maps keys to actions. Printable keys that are not bound insert
// themselves; all other unbound keys are ignored.
type Bindings map[ui.Key]Action

// DefaultBindings returns the default key bindings.
func DefaultBindings() Bindings {
	return Bindings{
		ui.K(ui.Enter):              ActionCommit,
		ui.K('M', ui.Ctrl):          ActionCommit,
		ui.K(ui.Backspace):          ActionBackspace,
		ui.K('H', ui.Ctrl):          ActionBackspace,
		ui.K(ui.Backspace, ui.Alt):  ActionDeleteWord,
		ui.K(ui.Backspace, ui.Ctrl): ActionDeleteWord,
		ui.K('W', ui.Ctrl):          ActionDeleteWord,
		ui.K(ui.Left):               ActionMoveLeft,
		ui.K(ui.Right):              ActionMoveRight,
		ui.K(ui.Up):                 ActionRecallPrevious,
		ui.K(ui.Down):               ActionRecallNext,
		ui.K(ui.Tab):                ActionComplete,
		ui.K('D', ui.Ctrl):          ActionEOF,
		ui.K('C', ui.Ctrl):          ActionInterrupt,
	}
}

// ParseBindings parses bindings from a map from key names to action names,
// such as {"Ctrl-W": "delete-word"}. All invalid entries are reported.
func ParseBindings(m map[string]string) (Bindings, error) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)

	b := make(Bindings, len(m))
	var errs error
	for _, name := range names {
		k, err := ui.ParseKey(name)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		a, err := ParseAction(m[name])
		if err != nil {
			errs = multierror.Append(errs, fmt.Errorf("key %s: %w", name, err))
			continue
		}
		b[k] = a
	}
	if errs != nil {
		return nil, errs
	}
	return b, nil
}

// With returns a copy of b with the given overrides applied.
func (b Bindings) With(overrides Bindings) Bindings {
	merged := make(Bindings, len(b)+len(overrides))
	for k, a := range b {
		merged[k] = a
	}
	for k, a := range overrides {
		merged[k] = a
	}
	return merged
}

// Action returns the action for a key.
func (b Bindings) Action(k ui.Key) Action {
	if a, ok := b[k]; ok {
		return a
	}
	if k.IsPrintable() {
		return actionInsert
	}
	return ActionIgnore
}

// Inserts the key's rune. Only used internally for unbound printable keys.
const actionInsert Action = -1
