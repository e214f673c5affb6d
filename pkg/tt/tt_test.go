package tt

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

// testT implements the T interface and is used to verify the Test function's
// interaction with T.
type testT []string

func (t *testT) Helper() {}

func (t *testT) Errorf(format string, args ...any) {
	*t = append(*t, fmt.Sprintf(format, args...))
}

// Simple functions to test.

func add(x, y int) int {
	return x + y
}

func addsub(x int, y int) (int, int) {
	return x + y, x - y
}

func failIfNegative(x int) error {
	if x < 0 {
		return errors.New("negative")
	}
	return nil
}

func TestTTPass(t *testing.T) {
	var testT testT
	Test(&testT, addsub,
		Args(1, 10).Rets(11, -9),
	)
	if len(testT) > 0 {
		t.Errorf("Test errors when test should pass")
	}
}

func TestTTFailDefaultFmtOneReturn(t *testing.T) {
	var testT testT
	Test(&testT, add,
		Args(1, 10).Rets(12),
	)
	assertOneError(t, testT, "add(1, 10) returns (-Wanted +Actual):\n")
}

func TestTTFailDefaultFmtMultiReturn(t *testing.T) {
	var testT testT
	Test(&testT, addsub,
		Args(1, 10).Rets(11, -90),
	)
	assertOneError(t, testT, "addsub(1, 10) returns (-Wanted +Actual):\n")
}

func TestTTFailCustomFmt(t *testing.T) {
	var testT testT
	Test(&testT,
		Fn(addsub).Named("addsub").ArgsFmt("x = %d, y = %d"),
		Args(1, 10).Rets(11, -90),
	)
	assertOneError(t, testT,
		"addsub(x = 1, y = 10) returns (-Wanted +Actual):\n")
}

func TestTTFailWithDescription(t *testing.T) {
	var testT testT
	Test(&testT, add,
		It("adds").Args(1, 10).Rets(12),
	)
	assertOneError(t, testT, "adds (add(1, 10)) returns (-Wanted +Actual):\n")
}

func TestTTMatchers(t *testing.T) {
	var testT testT
	Test(&testT, failIfNegative,
		Args(1).Rets(nil),
		Args(-1).Rets(AnyError),
		Args(-1).Rets(Any),
	)
	if len(testT) > 0 {
		t.Errorf("Test errors when test should pass: %v", testT)
	}

	Test(&testT, failIfNegative,
		Args(1).Rets(AnyError),
	)
	assertOneError(t, testT, "failIfNegative(1) returns (-Wanted +Actual):\n")
}

func assertOneError(t *testing.T, testT testT, wantPrefix string) {
	t.Helper()
	switch len(testT) {
	case 0:
		t.Errorf("Test didn't error when it should have done so")
	case 1:
		if !strings.HasPrefix(testT[0], wantPrefix) {
			t.Errorf("Test wrote message:\nWanted: %q...\nActual: %q", wantPrefix, testT[0])
		}
	default:
		t.Errorf("Test wrote too many error messages")
	}
}
