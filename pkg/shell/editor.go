package shell

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/hashicorp/go-multierror"

	"github.com/usemam/ledger/pkg/cli"
	"github.com/usemam/ledger/pkg/cli/histutil"
	"github.com/usemam/ledger/pkg/strutil"
)

// This type is the interface that the line editor has to satisfy.
type editor interface {
	ReadLine() (string, error)
}

// Edits lines on a terminal. The terminal is only in raw mode while a line is
// being read, so that output from the handler is written in cooked mode.
type ttyEditor struct {
	tty     setupTTY
	session editor
}

// The part of *cli.Terminal used by ttyEditor.
type setupTTY interface {
	Setup() (func() error, error)
	Newline() error
}

func newTTYEditor(in, out *os.File, cfg *InteractConfig) *ttyEditor {
	tty := cli.NewTTY(in, out, cfg.Prompt)
	session := cli.NewSession(cli.SessionSpec{
		TTY: tty, History: cfg.History,
		Vocabulary: cfg.Vocabulary, Bindings: cfg.Bindings})
	return &ttyEditor{tty, session}
}

func (ed *ttyEditor) ReadLine() (string, error) {
	restore, err := ed.tty.Setup()
	if err != nil {
		return "", err
	}
	line, err := ed.session.ReadLine()
	if rerr := restore(); rerr != nil {
		if err == nil || err == io.EOF || err == cli.ErrInterrupted {
			return "", rerr
		}
		err = multierror.Append(err, rerr)
	}
	if err == io.EOF {
		// Leave the line with the prompt.
		if nerr := ed.tty.Newline(); nerr != nil {
			logger.Println("failed to write newline:", nerr)
		}
	}
	return line, err
}

// Reads lines from a non-terminal input, such as a pipe.
type minEditor struct {
	in      *bufio.Reader
	out     io.Writer
	prompt  string
	history *histutil.History
}

func newMinEditor(in *os.File, out io.Writer, prompt string, history *histutil.History) *minEditor {
	return &minEditor{bufio.NewReader(in), out, prompt, history}
}

func (ed *minEditor) ReadLine() (string, error) {
	fmt.Fprint(ed.out, ed.prompt)
	line, err := ed.in.ReadString('\n')
	if err == io.EOF && line != "" {
		// The last line is not terminated; return it and report EOF on the
		// next call.
		err = nil
	}
	if err != nil {
		return "", err
	}
	line = strutil.ChopLineEnding(line)
	if ed.history != nil {
		ed.history.Add(line)
	}
	return line, nil
}
