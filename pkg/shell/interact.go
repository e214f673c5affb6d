package shell

import (
	"fmt"
	"io"
	"os"

	"github.com/usemam/ledger/pkg/cli"
	"github.com/usemam/ledger/pkg/cli/complete"
	"github.com/usemam/ledger/pkg/cli/histutil"
	"github.com/usemam/ledger/pkg/sys"
)

// InteractConfig keeps configuration for the interactive mode.
type InteractConfig struct {
	Prompt string
	// If nil, a new in-memory history is used.
	History    *histutil.History
	Vocabulary complete.Vocabulary
	// If nil, cli.DefaultBindings() is used.
	Bindings cli.Bindings
	// If nil, DefaultHandler is used.
	Handler Handler
}

// Interact reads lines from fds[0] and passes them to the handler until the
// input ends or the handler asks to exit. When fds[0] is a terminal, lines are
// edited with a cli.Session drawn on fds[2]; otherwise they are read as is.
func Interact(fds [3]*os.File, cfg *InteractConfig) error {
	if cfg.History == nil {
		cfg.History = histutil.NewHistory(histutil.DefaultMaxSize)
	}
	handle := cfg.Handler
	if handle == nil {
		handle = DefaultHandler
	}

	var ed editor
	if sys.IsATTY(fds[0].Fd()) {
		ed = newTTYEditor(fds[0], fds[2], cfg)
	} else {
		ed = newMinEditor(fds[0], fds[2], cfg.Prompt, cfg.History)
	}

	for {
		line, err := ed.ReadLine()
		switch {
		case err == io.EOF:
			return nil
		case err == cli.ErrInterrupted:
			continue
		case err != nil:
			if _, isMinEditor := ed.(*minEditor); isMinEditor {
				return err
			}
			fmt.Fprintln(fds[2], "Editor error:", err)
			fmt.Fprintln(fds[2], "Falling back to basic line editor")
			ed = newMinEditor(fds[0], fds[2], cfg.Prompt, cfg.History)
			continue
		}
		if handle(line, fds[1]) {
			return nil
		}
	}
}
