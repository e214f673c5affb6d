package cli_test

import (
	"errors"
	"io"
	"testing"

	"github.com/google/go-cmp/cmp"

	. "github.com/usemam/ledger/pkg/cli"
	"github.com/usemam/ledger/pkg/cli/clitest"
	"github.com/usemam/ledger/pkg/cli/complete"
	"github.com/usemam/ledger/pkg/cli/histutil"
	"github.com/usemam/ledger/pkg/cli/term"
	"github.com/usemam/ledger/pkg/cli/tk"
	"github.com/usemam/ledger/pkg/ui"
)

var (
	enter     = term.K(ui.Enter)
	backspace = term.K(ui.Backspace)
	tab       = term.K(ui.Tab)
	left      = term.K(ui.Left)
	right     = term.K(ui.Right)
	up        = term.K(ui.Up)
	down      = term.K(ui.Down)
	ctrlW     = term.K('W', ui.Ctrl)
	altBksp   = term.K(ui.Backspace, ui.Alt)
	ctrlC     = term.K('C', ui.Ctrl)
	ctrlD     = term.K('D', ui.Ctrl)
)

var vocab = complete.Vocabulary{"exit", "export", "add", "show", "help"}

func setup(history *histutil.History) (*Session, *clitest.FakeTTY) {
	tty := clitest.NewFakeTTY()
	return Create(tty, history, vocab), tty
}

// Feeds keys for s, followed by events, and reads a line.
func readLine(t *testing.T, s *Session, tty *clitest.FakeTTY, keys string, events ...term.Event) string {
	t.Helper()
	tty.InjectKeys(keys)
	tty.Inject(events...)
	line, err := s.ReadLine()
	if err != nil {
		t.Fatalf("ReadLine -> error %v", err)
	}
	return line
}

var readLineTests = []struct {
	name     string
	history  []string
	keys     string
	events   []term.Event
	wantLine string
}{
	{"typed text", nil, "add 10", nil, "add 10"},
	{"empty line", nil, "", nil, ""},
	{"backspace", nil, "shoe", []term.Event{backspace, term.K('w')}, "show"},
	{"backspace with Ctrl-H", nil, "shoe", []term.Event{term.K('H', ui.Ctrl), term.K('w')}, "show"},
	{"backspace on empty line", nil, "", []term.Event{backspace, backspace}, ""},
	{"insert after moving left", nil, "ad", []term.Event{left, term.K('d'), right}, "add"},
	{"move left at beginning", nil, "", []term.Event{left, term.K('x')}, "x"},
	{"delete word with Ctrl-W", nil, "foo bar baz", []term.Event{ctrlW}, "foo bar "},
	{"delete word with Alt-Backspace", nil, "foo bar", []term.Event{altBksp}, "foo "},
	{"complete", nil, "ex", []term.Event{tab}, "exit"},
	{"complete cycles", nil, "ex", []term.Event{tab, tab}, "export"},
	{"complete wraps around", nil, "ex", []term.Event{tab, tab, tab}, "exit"},
	{"complete then type", nil, "sh", []term.Event{tab, term.K(' '), term.K('1')}, "show 1"},
	{"complete without match", nil, "zz", []term.Event{tab}, "zz"},
	{"recall previous", []string{"add 10", "show"}, "", []term.Event{up}, "show"},
	{"recall previous twice", []string{"add 10", "show"}, "", []term.Event{up, up}, "add 10"},
	{"recall previous past oldest", []string{"add 10"}, "", []term.Event{up, up, up}, "add 10"},
	{"recall next clears", []string{"add 10", "show"}, "", []term.Event{up, down}, ""},
	{"recall next", []string{"add 10", "show"}, "", []term.Event{up, up, down}, "show"},
	{"recall replaces typed text", []string{"show"}, "xyz", []term.Event{up}, "show"},
	{"recall then edit", []string{"add 10"}, "", []term.Event{up, backspace, term.K('5')}, "add 15"},
	{"unbound control key ignored", nil, "a", []term.Event{term.K('X', ui.Ctrl), term.K(ui.F1)}, "a"},
	{"unbound modified key ignored", nil, "a", []term.Event{term.K('b', ui.Alt)}, "a"},
	{"Ctrl-D on non-empty line ignored", nil, "a", []term.Event{ctrlD}, "a"},
	{"commit with Ctrl-M", nil, "help", []term.Event{term.K('M', ui.Ctrl)}, "help"},
}

func TestReadLine(t *testing.T) {
	for _, test := range readLineTests {
		t.Run(test.name, func(t *testing.T) {
			s, tty := setup(histutil.NewHistory(10, test.history...))
			line := readLine(t, s, tty, test.keys, append(test.events, enter)...)
			if line != test.wantLine {
				t.Errorf("got line %q, want %q", line, test.wantLine)
			}
		})
	}
}

func TestReadLine_RecordsHistory(t *testing.T) {
	h := histutil.NewHistory(2)
	s, tty := setup(h)
	for _, keys := range []string{"a", "b", "c"} {
		readLine(t, s, tty, keys, enter)
	}
	if diff := cmp.Diff([]string{"b", "c"}, h.Entries()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestReadLine_BlankLineNotRecorded(t *testing.T) {
	h := histutil.NewHistory(10, "show")
	s, tty := setup(h)
	if line := readLine(t, s, tty, "", enter); line != "" {
		t.Errorf("got line %q, want empty", line)
	}
	if line := readLine(t, s, tty, "  ", enter); line != "  " {
		t.Errorf("got line %q, want %q", line, "  ")
	}
	if diff := cmp.Diff([]string{"show"}, h.Entries()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestReadLine_RepeatedLineRecordedOnce(t *testing.T) {
	h := histutil.NewHistory(10)
	s, tty := setup(h)
	readLine(t, s, tty, "Show", enter)
	readLine(t, s, tty, "SHOW", enter)
	if diff := cmp.Diff([]string{"Show"}, h.Entries()); diff != "" {
		t.Errorf("history (-want +got):\n%s", diff)
	}
}

func TestReadLine_SharedHistory(t *testing.T) {
	h := histutil.NewHistory(10)
	s1, tty1 := setup(h)
	readLine(t, s1, tty1, "add 10", enter)

	s2, tty2 := setup(h)
	if line := readLine(t, s2, tty2, "", up, enter); line != "add 10" {
		t.Errorf("second session recalled %q, want %q", line, "add 10")
	}
}

func TestReadLine_HistoryCursorResetsBetweenLines(t *testing.T) {
	h := histutil.NewHistory(10, "a", "b")
	s, tty := setup(h)
	readLine(t, s, tty, "", up, up, enter)
	// The new line starts in the fresh state, so Up recalls the newest entry.
	if line := readLine(t, s, tty, "", up, enter); line != "a" {
		t.Errorf("got %q, want %q", line, "a")
	}
}

func TestReadLine_InsertResetsHistoryCursor(t *testing.T) {
	h := histutil.NewHistory(10, "a", "b")
	s, tty := setup(h)
	// After typing, Up starts again from the newest entry.
	line := readLine(t, s, tty, "", up, up, term.K('x'), up, enter)
	if line != "b" {
		t.Errorf("got %q, want %q", line, "b")
	}
}

func TestReadLine_RoundTrip(t *testing.T) {
	h := histutil.NewHistory(10, "a", "b", "c")
	for n := 1; n <= 3; n++ {
		s, tty := setup(h)
		tty.InjectKeys("x")
		for i := 0; i < n; i++ {
			tty.Inject(up)
		}
		for i := 0; i < n; i++ {
			tty.Inject(down)
		}
		tty.Inject(enter)
		line, err := s.ReadLine()
		if line != "" || err != nil {
			t.Errorf("%d Up and Down -> (%q, %v), want empty line", n, line, err)
		}
	}
}

func TestReadLine_RendersAfterEveryKey(t *testing.T) {
	s, tty := setup(nil)
	readLine(t, s, tty, "zz", left, tab, enter)

	wantRenders := []tk.CodeBuffer{
		{Content: "", Dot: 0},
		{Content: "z", Dot: 1},
		{Content: "zz", Dot: 2},
		{Content: "zz", Dot: 1},
		{Content: "zz", Dot: 1},
		{Content: "zz", Dot: 1},
	}
	if diff := cmp.Diff(wantRenders, tty.Renders); diff != "" {
		t.Errorf("renders (-want +got):\n%s", diff)
	}
	if tty.Newlines != 1 {
		t.Errorf("got %d newlines, want 1", tty.Newlines)
	}
}

func TestReadLine_CompletionRenders(t *testing.T) {
	s, tty := setup(nil)
	readLine(t, s, tty, "ex", tab, tab, tab, enter)

	wantRenders := []tk.CodeBuffer{
		{Content: "", Dot: 0},
		{Content: "e", Dot: 1},
		{Content: "ex", Dot: 2},
		{Content: "exit", Dot: 4},
		{Content: "export", Dot: 6},
		{Content: "exit", Dot: 4},
		{Content: "exit", Dot: 4},
	}
	if diff := cmp.Diff(wantRenders, tty.Renders); diff != "" {
		t.Errorf("renders (-want +got):\n%s", diff)
	}
}

var completionResetTests = []struct {
	name  string
	event term.Event
	want  string
}{
	{"insert", term.K('o'), "exito"},
	{"backspace", backspace, "exi"},
	{"delete word", ctrlW, ""},
	{"move left", left, "exit"},
	{"recall", up, "show"},
}

func TestReadLine_EditResetsCompletion(t *testing.T) {
	for _, test := range completionResetTests {
		t.Run(test.name, func(t *testing.T) {
			s, tty := setup(histutil.NewHistory(10, "show"))
			tty.InjectKeys("ex")
			tty.Inject(tab, test.event)
			if _, err := s.ReadLine(); err != io.EOF {
				t.Fatalf("ReadLine -> error %v, want io.EOF", err)
			}
			if s.CompletionState().Active() {
				t.Errorf("completion still active")
			}
			if got := s.Buffer().Content; got != test.want {
				t.Errorf("got line %q, want %q", got, test.want)
			}
		})
	}
}

func TestReadLine_CompletionRestartsAfterEdit(t *testing.T) {
	s, tty := setup(nil)
	// Backspace after completing "exit" leaves "exi", which only matches
	// "exit", so the new cycle no longer reaches "export".
	line := readLine(t, s, tty, "ex", tab, backspace, tab, tab, enter)
	if line != "exit" {
		t.Errorf("got %q, want %q", line, "exit")
	}
}

func TestReadLine_EOF(t *testing.T) {
	h := histutil.NewHistory(10)
	s, tty := setup(h)
	tty.InjectKeys("add")

	line, err := s.ReadLine()
	if line != "" || err != io.EOF {
		t.Errorf("ReadLine -> (%q, %v), want (\"\", io.EOF)", line, err)
	}
	if h.Len() != 0 {
		t.Errorf("history has %d entries after EOF, want 0", h.Len())
	}
	// One initial render and one for each key; none for the end of input.
	if len(tty.Renders) != 4 {
		t.Errorf("got %d renders, want 4", len(tty.Renders))
	}
	if tty.Newlines != 0 {
		t.Errorf("got %d newlines, want 0", tty.Newlines)
	}
}

func TestReadLine_CtrlDOnEmptyLine(t *testing.T) {
	s, tty := setup(nil)
	tty.Inject(ctrlD, term.K('x'), enter)

	line, err := s.ReadLine()
	if line != "" || err != io.EOF {
		t.Errorf("ReadLine -> (%q, %v), want (\"\", io.EOF)", line, err)
	}
	if tty.Pending() != 2 {
		t.Errorf("%d events pending, want 2", tty.Pending())
	}
}

func TestReadLine_Interrupt(t *testing.T) {
	h := histutil.NewHistory(10)
	s, tty := setup(h)
	tty.InjectKeys("add")
	tty.Inject(ctrlC)

	line, err := s.ReadLine()
	if line != "" || err != ErrInterrupted {
		t.Errorf("ReadLine -> (%q, %v), want (\"\", ErrInterrupted)", line, err)
	}
	if got := tty.LastRender(); got != (tk.CodeBuffer{}) {
		t.Errorf("last render %v, want empty line", got)
	}
	if h.Len() != 0 {
		t.Errorf("history has %d entries after interrupt, want 0", h.Len())
	}
}

func TestReadLine_ReturnsReadError(t *testing.T) {
	errRead := errors.New("read error")
	s, tty := setup(nil)
	tty.InjectError(errRead)
	tty.Inject(enter)

	if _, err := s.ReadLine(); err != errRead {
		t.Errorf("ReadLine -> error %v, want %v", err, errRead)
	}
}

func TestReadLine_ReturnsRenderError(t *testing.T) {
	errWrite := errors.New("write error")
	s, tty := setup(nil)
	tty.WriteErr = errWrite
	tty.Inject(enter)

	if _, err := s.ReadLine(); err != errWrite {
		t.Errorf("ReadLine -> error %v, want %v", err, errWrite)
	}
}

func TestReadLine_IgnoresNonKeyEvents(t *testing.T) {
	s, tty := setup(nil)
	tty.Inject(otherEvent{}, term.K('a'), enter)
	if line, _ := s.ReadLine(); line != "a" {
		t.Errorf("got %q, want %q", line, "a")
	}
}

type otherEvent struct{ term.KeyEvent }

func TestNewSession_Bindings(t *testing.T) {
	tty := clitest.NewFakeTTY()
	s := NewSession(SessionSpec{
		TTY:      tty,
		Bindings: DefaultBindings().With(Bindings{ui.K('J', ui.Ctrl): ActionCommit}),
	})
	tty.InjectKeys("show")
	tty.Inject(term.K('J', ui.Ctrl))
	line, err := s.ReadLine()
	if line != "show" || err != nil {
		t.Errorf("ReadLine -> (%q, %v), want (%q, nil)", line, err, "show")
	}
}

func TestCreate_MaxHistorySize(t *testing.T) {
	s := Create(clitest.NewFakeTTY(), nil, nil, 3)
	if size := s.History().MaxSize(); size != 3 {
		t.Errorf("history size %d, want 3", size)
	}
	s = Create(clitest.NewFakeTTY(), nil, nil)
	if size := s.History().MaxSize(); size != histutil.DefaultMaxSize {
		t.Errorf("history size %d, want %d", size, histutil.DefaultMaxSize)
	}
}

func TestCreate_MaxHistorySizeBoundsSharedHistory(t *testing.T) {
	shared := histutil.NewHistory(100)
	tty := clitest.NewFakeTTY()
	s := Create(tty, shared, vocab, 2)
	for _, keys := range []string{"a", "b", "c"} {
		readLine(t, s, tty, keys, enter)
	}
	if diff := cmp.Diff([]string{"b", "c"}, shared.Entries()); diff != "" {
		t.Errorf("shared history (-want +got):\n%s", diff)
	}

	// Another session with a larger bound can grow the history again, up to
	// its own bound.
	tty2 := clitest.NewFakeTTY()
	s2 := Create(tty2, shared, vocab, 3)
	readLine(t, s2, tty2, "d", enter)
	readLine(t, s2, tty2, "e", enter)
	if diff := cmp.Diff([]string{"c", "d", "e"}, shared.Entries()); diff != "" {
		t.Errorf("shared history (-want +got):\n%s", diff)
	}
}

func TestNewSession_MaxHistorySize(t *testing.T) {
	shared := histutil.NewHistory(10, "a", "b", "c")
	tty := clitest.NewFakeTTY()
	s := NewSession(SessionSpec{TTY: tty, History: shared, MaxHistorySize: 1})
	readLine(t, s, tty, "d", enter)
	if diff := cmp.Diff([]string{"d"}, shared.Entries()); diff != "" {
		t.Errorf("shared history (-want +got):\n%s", diff)
	}
	// Recall walks the trimmed history.
	if line := readLine(t, s, tty, "", up, up, enter); line != "d" {
		t.Errorf("recalled %q, want %q", line, "d")
	}
}
