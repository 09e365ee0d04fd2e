// errors.go: error taxonomy and caret-snippet rendering.
//
// Inside the engine every failure travels as a Result with CodeError — plain
// data, propagated by the same mechanism as Return/Break/Continue. This file
// covers the host boundary: the Go error types that Run surfaces, and
// WrapErrorWithSource, which upgrades a syntax error into a multi-line
// snippet with a caret pointing at the offending column:
//
//	SYNTAX ERROR at 2:9: missing close-brace
//
//	   1 | set x 1
//	   2 | while {<= $x 5 {
//	       |        ^
//
// Runtime errors carry no position (the engine rewrites strings as it goes,
// so there is no stable source location to point at) and pass through
// unchanged.
package picol

import (
	"fmt"
	"strings"
)

// ErrKind classifies an evaluation error. It is carried in Result.Kind and
// surfaced to hosts through EvalError.
type ErrKind int

const (
	ErrNone ErrKind = iota
	ErrSyntax
	ErrUndefinedVariable
	ErrUnknownCommand
	ErrInvalidNumber
	ErrDivisionByZero
	ErrArgumentCountMismatch
	ErrWrongNumArgs
)

func (k ErrKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrSyntax:
		return "Syntax"
	case ErrUndefinedVariable:
		return "UndefinedVariable"
	case ErrUnknownCommand:
		return "UnknownCommand"
	case ErrInvalidNumber:
		return "InvalidNumber"
	case ErrDivisionByZero:
		return "DivisionByZero"
	case ErrArgumentCountMismatch:
		return "ArgumentCountMismatch"
	case ErrWrongNumArgs:
		return "WrongNumberOfArguments"
	default:
		return fmt.Sprintf("ErrKind(%d)", int(k))
	}
}

// EvalError is a runtime evaluation failure surfaced as a Go error by Run.
type EvalError struct {
	Kind ErrKind
	Msg  string
}

func (e *EvalError) Error() string { return e.Msg }

// ErrorKind extracts the error class from an error returned by Run. Returns
// ErrNone for nil and for foreign errors.
func ErrorKind(err error) ErrKind {
	switch e := err.(type) {
	case *EvalError:
		return e.Kind
	case *SyntaxError:
		return ErrSyntax
	default:
		return ErrNone
	}
}

// WrapErrorWithSource returns an error augmented with a caret-annotated
// snippet of the source. Only *SyntaxError carries a position; every other
// error is returned unchanged. The error's own Src fragment takes precedence
// over src: a syntax error raised inside a procedure body or [...] script is
// positioned relative to that fragment, and the caret must point into it.
func WrapErrorWithSource(err error, src string) error {
	if e, ok := err.(*SyntaxError); ok {
		if e.Src != "" {
			src = e.Src
		}
		// Col is 0-based; render as 1-based.
		return fmt.Errorf("%s", prettyErrorString(src, "SYNTAX ERROR", e.Line, e.Col+1, e.Msg))
	}
	return err
}

// prettyErrorString builds a snippet with a header and a caret. It shows at
// most one previous and one next line when available. Coordinates are
// 1-based and clamped to the source bounds.
func prettyErrorString(src, header string, line, col int, msg string) string {
	lines := strings.Split(src, "\n")
	if line < 1 {
		line = 1
	}
	if col < 1 {
		col = 1
	}
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, msg)
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad > len(lineTxt) {
		caretPad = len(lineTxt)
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	return b.String()
}
