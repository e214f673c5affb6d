// Package tt supports table-driven tests with little boilerplate.
//
// A typical use of this package looks like this:
//
//	// Function being tested
//	func neg(i int) int { return -i }
//
//	func TestNeg(t *testing.T) {
//		tt.Test(t, neg,
//			// Unnamed test case
//			Args(1).Rets(-1),
//			// Named test case
//			It("returns 0 for 0").Args(0).Rets(0),
//		)
//	}
package tt

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"

	"github.com/google/go-cmp/cmp"
)

// Case represents a test case. It has setters that augment and return itself;
// those calls can be chained like It(...).Args(...).Rets(...).
type Case struct {
	desc         string
	args         []any
	retsMatchers [][]any
}

// It returns a Case with the given text description.
func It(desc string) *Case {
	return &Case{desc: desc}
}

// Args is equivalent to It("").Args(...).
func Args(args ...any) *Case {
	return It("").Args(args...)
}

// Args modifies the Case to pass the given arguments. It returns the receiver.
func (c *Case) Args(args ...any) *Case {
	c.args = args
	return c
}

// Rets modifies the Case to expect the given return values. It returns the
// receiver.
//
// The arguments may implement the [Matcher] interface, in which case its Match
// method is called with the actual return value. Otherwise, reflect.DeepEqual
// is used to determine matches.
func (c *Case) Rets(matchers ...any) *Case {
	c.retsMatchers = append(c.retsMatchers, matchers)
	return c
}

// FnDescriptor describes a function to test. It has setters that augment and
// return itself; those calls can be chained like Fn(...).Named(...).
type FnDescriptor struct {
	name    string
	body    any
	argsFmt string
}

// Fn creates a FnDescriptor for the given function.
func Fn(body any) *FnDescriptor {
	return &FnDescriptor{body: body}
}

// Named sets the name of the function. This is only necessary for anonymous
// functions.
func (fn *FnDescriptor) Named(name string) *FnDescriptor {
	fn.name = name
	return fn
}

// ArgsFmt sets the string for formatting arguments in test error messages. It
// returns the receiver.
func (fn *FnDescriptor) ArgsFmt(s string) *FnDescriptor {
	fn.argsFmt = s
	return fn
}

// T is the interface for accessing testing.T.
type T interface {
	Helper()
	Errorf(format string, args ...any)
}

// Test tests a function against test cases. The function may be given as is,
// or wrapped in a [FnDescriptor].
func Test(t T, fn any, tests ...*Case) {
	t.Helper()
	var fd *FnDescriptor
	switch fn := fn.(type) {
	case *FnDescriptor:
		fd = &FnDescriptor{}
		*fd = *fn
	default:
		fd = Fn(fn)
	}
	if fd.name == "" {
		fd.name = funcName(fd.body)
	}
	for _, test := range tests {
		rets := call(fd.body, test.args)
		for _, retsMatcher := range test.retsMatchers {
			if match(retsMatcher, rets) {
				continue
			}
			var args string
			if fd.argsFmt == "" {
				args = sprintArgs(test.args...)
			} else {
				args = fmt.Sprintf(fd.argsFmt, test.args...)
			}
			diff := cmp.Diff(retsMatcher, rets, cmpopts...)
			if test.desc == "" {
				t.Errorf("%s(%s) returns (-Wanted +Actual):\n%s", fd.name, args, diff)
			} else {
				t.Errorf("%s (%s(%s)) returns (-Wanted +Actual):\n%s",
					test.desc, fd.name, args, diff)
			}
		}
	}
}

// Matcher wraps the Match method.
type Matcher interface {
	// Match reports whether a return value is considered a match. The argument
	// is of type RetValue so that it cannot be implemented accidentally.
	Match(RetValue) bool
}

// RetValue is an empty interface used in the Matcher interface.
type RetValue any

// Any is a Matcher that matches any value.
var Any Matcher = anyMatcher{}

type anyMatcher struct{}

func (anyMatcher) Match(RetValue) bool { return true }

// AnyError is a Matcher that matches any non-nil error.
var AnyError Matcher = anyErrorMatcher{}

type anyErrorMatcher struct{}

func (anyErrorMatcher) Match(ret RetValue) bool {
	err, _ := ret.(error)
	return err != nil
}

// Options for rendering mismatches. Values with unexported fields, such as
// most error values, are compared field by field.
var cmpopts = []cmp.Option{
	cmp.Exporter(func(reflect.Type) bool { return true }),
}

func match(matchers, actual []any) bool {
	if len(matchers) != len(actual) {
		return false
	}
	for i, matcher := range matchers {
		if !matchOne(matcher, actual[i]) {
			return false
		}
	}
	return true
}

func matchOne(m, a any) bool {
	if m, ok := m.(Matcher); ok {
		return m.Match(a)
	}
	return reflect.DeepEqual(m, a)
}

func sprintArgs(args ...any) string {
	var sb strings.Builder
	for i, arg := range args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%#v", arg)
	}
	return sb.String()
}

func call(fn any, args []any) []any {
	argsReflect := make([]reflect.Value, len(args))
	fnType := reflect.TypeOf(fn)
	for i, arg := range args {
		if arg == nil {
			// reflect.ValueOf(nil) is not a valid argument; pass the zero
			// value of the parameter type instead.
			var paramType reflect.Type
			if fnType.IsVariadic() && i >= fnType.NumIn()-1 {
				paramType = fnType.In(fnType.NumIn() - 1).Elem()
			} else {
				paramType = fnType.In(i)
			}
			argsReflect[i] = reflect.Zero(paramType)
		} else {
			argsReflect[i] = reflect.ValueOf(arg)
		}
	}
	retsReflect := reflect.ValueOf(fn).Call(argsReflect)
	rets := make([]any, len(retsReflect))
	for i, retReflect := range retsReflect {
		rets[i] = retReflect.Interface()
	}
	return rets
}

func funcName(fn any) string {
	name := runtime.FuncForPC(reflect.ValueOf(fn).Pointer()).Name()
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
