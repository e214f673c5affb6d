package shell

import (
	"fmt"
	"io"
	"strings"
)

// Handler handles a line read by Interact, writing any output to out. It
// returns true to end the interaction.
type Handler func(line string, out io.Writer) (exit bool)

// DefaultHandler splits the line into words and dispatches on the first one.
// "exit" ends the interaction. The known commands "add", "show" and "help"
// are reported as not implemented, and anything else as not found. Blank
// lines are ignored.
func DefaultHandler(line string, out io.Writer) bool {
	words := strings.Fields(line)
	if len(words) == 0 {
		return false
	}
	switch words[0] {
	case "exit":
		return true
	case "add", "show", "help":
		fmt.Fprintf(out, "%s: not implemented\n", words[0])
	default:
		fmt.Fprintf(out, "Action for '%s' not found.\n", strings.Join(words, " "))
	}
	return false
}
