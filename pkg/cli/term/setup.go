package term

import (
	"os"

	systerm "golang.org/x/term"
)

// Setup puts the terminal referenced by in into raw mode. It returns a
// function that restores the original state.
//
// In raw mode the terminal neither echoes input nor translates carriage
// returns, so Enter arrives as Ctrl-M.
func Setup(in *os.File) (func() error, error) {
	fd := int(in.Fd())
	state, err := systerm.MakeRaw(fd)
	if err != nil {
		return nil, err
	}
	return func() error { return systerm.Restore(fd, state) }, nil
}
