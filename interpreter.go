// interpreter.go — the evaluation engine.
//
// There is no AST and no bytecode: a script is a string, and evaluation is a
// single pass that lexes words, substitutes them into argument values, and
// dispatches the first value as a command name. Control flow (if/while/proc/
// return/break/continue) is expressed through the result code that every
// command invocation produces, never through Go panics: composite commands
// inspect the code of their sub-evaluations and decide whether to consume it
// or pass it along. Only loops consume Break/Continue, only procedure calls
// consume Return, and nothing below the host consumes Error.
//
// State is engine-owned, never global: an Interp holds its own dispatch table
// and frame stack, so tests (and hosts) can run any number of independent
// interpreter instances. Single-threaded by design — evaluation is one
// synchronous call stack whose depth mirrors the script's own nesting.
package picol

import (
	"fmt"
	"io"
	"strings"
)

// Code is the control-flow signal accompanying every evaluation result.
type Code int

const (
	CodeOK Code = iota
	CodeReturn
	CodeBreak
	CodeContinue
	CodeError
)

// Result is what every evaluation step produces: a value plus a control
// signal. For CodeError, Val holds the message and Kind the error class.
type Result struct {
	Code Code
	Val  string
	Kind ErrKind

	syn *SyntaxError // original syntax error, kept for caret rendering
}

func okRes(val string) Result { return Result{Code: CodeOK, Val: val} }

func errRes(kind ErrKind, format string, args ...interface{}) Result {
	return Result{Code: CodeError, Kind: kind, Val: fmt.Sprintf(format, args...)}
}

func syntaxRes(e *SyntaxError) Result {
	return Result{Code: CodeError, Kind: ErrSyntax, Val: e.Msg, syn: e}
}

// arityRes is the fail-closed arity error shared by all builtins.
func arityRes(usage string) Result {
	return errRes(ErrWrongNumArgs, "wrong # args: should be %q", usage)
}

// Frame holds the variable bindings of one procedure invocation (or of the
// top level, for the global frame). Lookup never reaches past the current
// frame: inside a procedure neither the caller's nor the global bindings are
// visible.
type Frame struct {
	vars map[string]string
}

func newFrame() *Frame {
	return &Frame{vars: make(map[string]string)}
}

// Proc is a user-defined procedure: parameter names plus an unevaluated body.
// Immutable after definition; redefining the name installs a new Proc.
type Proc struct {
	Name   string
	Params []string
	Body   string
}

// CmdFunc implements a command. argv[0] is the command name, matching how the
// command was invoked (several builtins, like the arithmetic operators,
// dispatch on it).
type CmdFunc func(ip *Interp, argv []string) Result

// Command is a dispatch-table entry: a native builtin, or a user procedure
// (in which case Proc is non-nil and Fn is its bound call method).
type Command struct {
	Fn   CmdFunc
	Proc *Proc
}

// Interp is one interpreter instance: dispatch table, frame stack, and the
// output sink used by puts. frames[0] is the global frame and always exists;
// the top of the stack is the current frame.
type Interp struct {
	commands map[string]*Command
	frames   []*Frame

	// Out receives puts output. Defaults to os.Stdout in New; tests point it
	// at a buffer.
	Out io.Writer
}

// Register installs or replaces a command. Last write wins — this single rule
// covers proc redefinition and builtin shadowing alike.
func (ip *Interp) Register(name string, fn CmdFunc) {
	ip.commands[name] = &Command{Fn: fn}
}

func (ip *Interp) registerProc(p *Proc) {
	ip.commands[p.Name] = &Command{Fn: p.call, Proc: p}
}

// Lookup resolves a command name against the dispatch table.
func (ip *Interp) Lookup(name string) (*Command, bool) {
	cmd, ok := ip.commands[name]
	return cmd, ok
}

func (ip *Interp) curFrame() *Frame {
	return ip.frames[len(ip.frames)-1]
}

// Var reads a variable from the current frame.
func (ip *Interp) Var(name string) (string, bool) {
	v, ok := ip.curFrame().vars[name]
	return v, ok
}

// SetVar binds a variable in the current frame, overwriting any previous
// binding.
func (ip *Interp) SetVar(name, value string) {
	ip.curFrame().vars[name] = value
}

func (ip *Interp) pushFrame() {
	ip.frames = append(ip.frames, newFrame())
}

func (ip *Interp) popFrame() {
	ip.frames = ip.frames[:len(ip.frames)-1]
}

// Eval runs a script: commands separated by newlines or semicolons, each
// command a sequence of words substituted into values and dispatched. The
// first non-OK result short-circuits the remaining commands and is returned
// as-is; otherwise the value of the last command is the value of the script.
func (ip *Interp) Eval(script string) Result {
	lx := newLexer(script)
	last := okRes("")
	var argv []string
	inWord := false

	for {
		tok, err := lx.Next()
		if err != nil {
			return syntaxRes(err.(*SyntaxError))
		}

		switch tok.Kind {
		case TkSep:
			inWord = false

		case TkEOL, TkEOF:
			if len(argv) > 0 {
				r := ip.call(argv)
				if r.Code != CodeOK {
					return r
				}
				last = r
				argv = argv[:0]
			}
			inWord = false
			if tok.Kind == TkEOF {
				return last
			}

		default:
			var text string
			switch tok.Kind {
			case TkVar:
				v, ok := ip.Var(tok.Text)
				if !ok {
					return errRes(ErrUndefinedVariable, "can't read %q: no such variable", tok.Text)
				}
				text = v
			case TkScript:
				// A non-OK signal inside [...] aborts the enclosing command
				// and propagates unchanged.
				r := ip.Eval(tok.Text)
				if r.Code != CodeOK {
					return r
				}
				text = r.Val
			default: // TkLiteral, TkBraced
				text = tok.Text
			}

			// Adjacent pieces with no separator between them build up one
			// word ("x$y[f]" is a single argument).
			if inWord && len(argv) > 0 {
				argv[len(argv)-1] += text
			} else {
				argv = append(argv, text)
			}
			inWord = true
		}
	}
}

func (ip *Interp) call(argv []string) Result {
	cmd, ok := ip.commands[argv[0]]
	if !ok {
		return errRes(ErrUnknownCommand, "invalid command name %q", argv[0])
	}
	return cmd.Fn(ip, argv)
}

// call invokes a user procedure: fresh frame, positional parameter binding,
// body evaluation, unconditional frame teardown. The call boundary consumes
// Return (turning it into the procedure's normal value); Error passes
// through untouched.
func (p *Proc) call(ip *Interp, argv []string) Result {
	if len(argv)-1 != len(p.Params) {
		usage := strings.Join(append([]string{p.Name}, p.Params...), " ")
		return errRes(ErrArgumentCountMismatch, "wrong # args: should be %q", usage)
	}

	ip.pushFrame()
	defer ip.popFrame()

	for i, name := range p.Params {
		ip.SetVar(name, argv[i+1])
	}

	r := ip.Eval(p.Body)
	if r.Code == CodeReturn {
		r.Code = CodeOK
	}
	return r
}
