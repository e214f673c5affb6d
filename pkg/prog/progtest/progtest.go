// Package progtest contains utilities for testing prog.Program instances.
package progtest

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/usemam/ledger/pkg/must"
	"github.com/usemam/ledger/pkg/prog"
)

// Case is a test case that runs a program with some arguments and checks what
// it writes and how it exits.
type Case struct {
	args  []string
	stdin string

	exit       int
	wantStdout output
	wantStderr output
}

type output struct {
	content string
	partial bool
}

func (o output) matches(s string) bool {
	if o.partial {
		return strings.Contains(s, o.content)
	}
	return s == o.content
}

// ThatLedger returns a new Case with the specified CLI arguments. The Case
// expects the program to exit with 0 and write nothing.
func ThatLedger(args ...string) Case {
	return Case{args: append([]string{"ledger"}, args...)}
}

// WithStdin returns an altered Case that feeds the given string to stdin.
func (c Case) WithStdin(s string) Case {
	c.stdin = s
	return c
}

// DoesNothing returns c itself. It is useful to mark tests that otherwise don't
// have any expectations, for example:
//
//	ThatLedger("-help").DoesNothing()
func (c Case) DoesNothing() Case {
	return c
}

// ExitsWith returns an altered Case that requires the program to return with
// the given exit code.
func (c Case) ExitsWith(code int) Case {
	c.exit = code
	return c
}

// WritesStdout returns an altered Case that requires the program to write
// exactly the given text to stdout.
func (c Case) WritesStdout(s string) Case {
	c.wantStdout = output{content: s}
	return c
}

// WritesStdoutContaining returns an altered Case that requires the program to
// write output to stdout that contains the given text as a substring.
func (c Case) WritesStdoutContaining(s string) Case {
	c.wantStdout = output{content: s, partial: true}
	return c
}

// WritesStderr returns an altered Case that requires the program to write
// exactly the given text to stderr.
func (c Case) WritesStderr(s string) Case {
	c.wantStderr = output{content: s}
	return c
}

// WritesStderrContaining returns an altered Case that requires the program to
// write output to stderr that contains the given text as a substring.
func (c Case) WritesStderrContaining(s string) Case {
	c.wantStderr = output{content: s, partial: true}
	return c
}

// Test runs test cases against a given program.
func Test(t *testing.T, p prog.Program, cases ...Case) {
	t.Helper()
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			t.Helper()
			r := run(p, c.args, c.stdin)
			if r.exit != c.exit {
				t.Errorf("got exit code %v, want %v", r.exit, c.exit)
			}
			if !c.wantStdout.matches(r.stdout) {
				t.Errorf("got stdout %q, want %s", r.stdout, c.wantStdout)
			}
			if !c.wantStderr.matches(r.stderr) {
				t.Errorf("got stderr %q, want %s", r.stderr, c.wantStderr)
			}
		})
	}
}

func (o output) String() string {
	if o.partial {
		return "containing " + quote(o.content)
	}
	return quote(o.content)
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	sb.WriteString(strings.ReplaceAll(s, "\n", `\n`))
	sb.WriteByte('"')
	return sb.String()
}

type result struct {
	exit           int
	stdout, stderr string
}

// Runs p with the given arguments and stdin and captures the outputs.
func run(p prog.Program, args []string, stdin string) result {
	r0, w0 := must.Pipe()
	r1, w1 := must.Pipe()
	r2, w2 := must.Pipe()
	// Write stdin and read outputs concurrently so that large amounts of data
	// do not fill the pipes and block the program.
	go func() {
		io.WriteString(w0, stdin)
		w0.Close()
	}()
	stdout := make(chan string, 1)
	stderr := make(chan string, 1)
	go func() { stdout <- string(must.ReadAllAndClose(r1)) }()
	go func() { stderr <- string(must.ReadAllAndClose(r2)) }()

	exit := prog.Run([3]*os.File{r0, w1, w2}, args, p)
	r0.Close()
	w1.Close()
	w2.Close()
	return result{exit, <-stdout, <-stderr}
}
